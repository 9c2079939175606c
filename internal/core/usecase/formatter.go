package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
)

// Telegram ограничивает caption 1024 символами. Слишком длинный текст
// обрезается до captionCutLen рун, к нему дописывается многоточие.
const (
	maxCaptionRunes = 1024
	captionCutRunes = 950
	captionEllipsis = "…"
)

const (
	defaultTitle = "Без названия"
	defaultCity  = "Гродно"
	// noPriceMark подставляется вместо отсутствующей цены
	noPriceMark = "???"
)

// FormatListing - детерминированное, чистое преобразование объявления
// в текст уведомления. Отсутствующие поля заменяются заглушками,
// форматирование никогда не завершается ошибкой.
func FormatListing(l domain.Listing) domain.NotificationPayload {
	title := strings.TrimSpace(l.Title)
	if title == "" {
		title = defaultTitle
	}

	caption := fmt.Sprintf("<b>%s</b>\n%s\n%s", title, formatPrice(l.PriceBYN), formatLocation(l))

	payload := domain.NotificationPayload{
		Caption: truncateCaption(caption),
		URL:     l.URL,
	}
	if len(l.Images) > 0 {
		payload.PhotoURL = l.Images[0]
	}
	return payload
}

// formatPrice - цена с разбивкой тысяч пробелами и суффиксом валюты,
// например "185 000 BYN".
func formatPrice(price *float64) string {
	if price == nil {
		return noPriceMark
	}
	return groupThousands(int64(*price)) + " BYN"
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// formatLocation собирает строку "город, район · атрибуты".
func formatLocation(l domain.Listing) string {
	city := strings.TrimSpace(l.City)
	if city == "" {
		city = defaultCity
	}

	line := city
	if district := strings.TrimSpace(l.District); district != "" {
		line += ", " + district
	}
	for _, part := range attributeParts(l.Attrs) {
		line += " · " + part
	}
	return line
}

// attributeParts рендерит только присутствующие атрибуты, в фиксированном порядке.
func attributeParts(a domain.ListingAttributes) []string {
	var parts []string
	if a.Rooms != nil {
		parts = append(parts, fmt.Sprintf("%d комн.", *a.Rooms))
	}
	if a.TotalArea != nil {
		parts = append(parts, strconv.FormatFloat(*a.TotalArea, 'f', -1, 64)+" м²")
	}
	if a.Floor != nil {
		if a.BuildingFloors != nil {
			parts = append(parts, fmt.Sprintf("этаж %d/%d", *a.Floor, *a.BuildingFloors))
		} else {
			parts = append(parts, fmt.Sprintf("этаж %d", *a.Floor))
		}
	}
	if a.YearBuilt != nil {
		parts = append(parts, fmt.Sprintf("%d г.", *a.YearBuilt))
	}
	return parts
}

func truncateCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= maxCaptionRunes {
		return caption
	}
	return string(runes[:captionCutRunes]) + captionEllipsis
}
