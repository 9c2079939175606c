package port

import (
	"context"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
)

// NotifierPort - канал доставки уведомлений о новых объявлениях.
type NotifierPort interface {
	// Notify доставляет одно уведомление. Реализация сама решает,
	// какой режим доставки использовать (фото с подписью или резервный
	// текст); ошибка возвращается только если не сработал ни один.
	Notify(ctx context.Context, payload domain.NotificationPayload) error
}
