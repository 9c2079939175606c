package port

import (
	"context"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
)

// ListingEventsPort публикует события о новых объявлениях для внешних
// потребителей (очередь сообщений). Публикация - best-effort: сбой
// не влияет на доставку уведомлений.
type ListingEventsPort interface {
	PublishNewListing(ctx context.Context, listing domain.Listing) error
}
