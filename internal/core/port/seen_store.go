package port

import (
	"context"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
)

// SeenStorePort - внешнее хранилище множества просмотренных объявлений.
type SeenStorePort interface {
	// Load читает множество из хранилища. "Документ еще не существует" -
	// ожидаемое состояние первого запуска: возвращается пустое множество
	// без ошибки. Любой другой сбой возвращает пустое множество вместе с
	// ошибкой - решение, продолжать ли с пустым множеством, принимает
	// вызывающая сторона.
	Load(ctx context.Context) (domain.SeenSet, error)

	// Save сериализует нормализованное множество и целиком перезаписывает
	// документ (никаких блокировок и ревизий - последняя запись побеждает).
	// Возвращает идентификатор документа; если документа не было,
	// создает новый и запоминает его идентификатор для следующих запусков.
	Save(ctx context.Context, set domain.SeenSet) (string, error)
}
