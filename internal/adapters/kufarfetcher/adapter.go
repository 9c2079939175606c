package kufarfetcher

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// KufarFetcherAdapter отвечает за все взаимодействия с поисковым API Kufar.
type KufarFetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты между запросами
	collector *colly.Collector
	baseURL   string
}

// NewKufarFetcherAdapter - конструктор.
// baseURL - конкретный поисковый эндпоинт; он менялся между версиями
// API Kufar, поэтому задается конфигурацией, а не зашивается сюда.
func NewKufarFetcherAdapter(baseURL string) (*KufarFetcherAdapter, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("kufar adapter: invalid base URL %q: %w", baseURL, err)
	}

	c := colly.NewCollector(colly.AllowedDomains(u.Hostname()), colly.AllowURLRevisit())

	// Правила наследуются всеми клонами коллектора
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  u.Hostname(),
		Parallelism: 1,
		RandomDelay: 2 * time.Second,
	}); err != nil {
		return nil, fmt.Errorf("kufar adapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c) // User-Agent реального браузера на каждый запрос
	extensions.Referer(c)

	return &KufarFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
	}, nil
}
