package kufarfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/daryaivaniukovich/kufar-monitor/internal/contextkeys"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/port"

	"github.com/gocolly/colly/v2"
)

func (a *KufarFetcherAdapter) buildURLFromCriteria(criteria domain.SearchCriteria) (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if criteria.Category != "" {
		q.Set("cat", criteria.Category)
	}
	if criteria.DealType != "" {
		q.Set("typ", criteria.DealType)
	}
	if criteria.Location != "" {
		q.Set("gtsy", criteria.Location)
	}
	if criteria.Rooms != "" {
		q.Set("rms", criteria.Rooms)
	}
	if criteria.AdsAmount != 0 {
		q.Set("size", strconv.Itoa(criteria.AdsAmount))
	}
	if criteria.SortBy != "" {
		q.Set("sort", criteria.SortBy)
	}
	if criteria.Lang != "" {
		q.Set("lang", criteria.Lang)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchAds выполняет один поисковый запрос и возвращает страницу объявлений.
// Без пагинации и без повторов: сбой запроса - это ошибка, на которую
// вызывающая сторона реагирует сама.
func (a *KufarFetcherAdapter) FetchAds(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{"component": "KufarFetcherAdapter(FetchAds)"})

	// "одноразовый" клон для этого запроса: наследует лимиты,
	// но имеет собственные обработчики
	collector := a.collector.Clone()

	var listings []domain.Listing
	var fetchErr error

	targetURL, err := a.buildURLFromCriteria(criteria)
	if err != nil {
		return nil, fmt.Errorf("kufar adapter: failed to build URL from criteria: %w", err)
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		fetchLogger.Debug("Making search request", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		if fetchErr != nil || listings != nil {
			return
		}

		var resp searchResponse
		if err := json.Unmarshal(r.Body, &resp); err != nil {
			fetchErr = fmt.Errorf("kufar adapter: failed to unmarshal search response: %w", err)
			return
		}

		listings = make([]domain.Listing, 0, len(resp.Ads))
		for _, ad := range resp.Ads {
			listings = append(listings, toListing(ad))
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchLogger.Error("Search request failed", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		fetchErr = fmt.Errorf("kufar adapter: search request failed with status %d: %w", r.StatusCode, err)
	})

	_ = collector.Visit(targetURL)
	collector.Wait() // ждем завершения HTTP запроса и колбэков

	if fetchErr != nil {
		return nil, fetchErr
	}

	fetchLogger.Info("Search page fetched", port.Fields{"ads_count": len(listings)})
	return listings, nil
}
