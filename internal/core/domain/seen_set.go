package domain

import (
	"sort"
	"strings"
)

// SeenSet - множество идентификаторов объявлений, о которых уже было
// отправлено уведомление. Между запусками живет во внешнем хранилище,
// только растет: элементы никогда не удаляются.
type SeenSet map[string]struct{}

// NewSeenSet создает множество из списка ID. Пустые строки и пробелы
// по краям отбрасываются, дубли схлопываются.
func NewSeenSet(ids ...string) SeenSet {
	s := make(SeenSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s SeenSet) Contains(id string) bool {
	_, ok := s[strings.TrimSpace(id)]
	return ok
}

func (s SeenSet) Add(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

func (s SeenSet) Len() int {
	return len(s)
}

// Normalized возвращает детерминированное представление множества
// для сериализации: без пустых значений, без дублей, по возрастанию.
func (s SeenSet) Normalized() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
