package port

import (
	"context"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
)

// ListingFetcherPort - все операции с источником объявлений Kufar.
type ListingFetcherPort interface {
	// FetchAds выполняет ровно один поисковый запрос по заданным критериям
	// и возвращает страницу объявлений в порядке сортировки источника.
	// Пустой срез при nil-ошибке означает "новых объявлений действительно нет",
	// ошибка - что запрос не удался; вызывающая сторона реагирует одинаково,
	// но различие сохраняется в логах.
	FetchAds(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Listing, error)
}
