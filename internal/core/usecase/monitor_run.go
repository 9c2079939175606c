package usecase

import (
	"context"
	"time"

	"github.com/daryaivaniukovich/kufar-monitor/internal/contextkeys"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/port"

	"golang.org/x/time/rate"
)

// MonitorRunUseCase - основной сценарий: один цикл
// "загрузить просмотренные → получить выдачу → уведомить о новых → сохранить".
// Внутри цикла нет никакого параллелизма: объявления обрабатываются
// строго в порядке выдачи источника.
type MonitorRunUseCase struct {
	seenStore port.SeenStorePort
	fetcher   port.ListingFetcherPort
	notifier  port.NotifierPort
	events    port.ListingEventsPort // может быть nil - публикация событий опциональна
	criteria  domain.SearchCriteria

	// limiter выдерживает паузу между отправками уведомлений,
	// чтобы не упереться в лимиты Telegram
	limiter *rate.Limiter
}

func NewMonitorRunUseCase(
	seenStore port.SeenStorePort,
	fetcher port.ListingFetcherPort,
	notifier port.NotifierPort,
	events port.ListingEventsPort,
	criteria domain.SearchCriteria,
	notifyDelay time.Duration,
) *MonitorRunUseCase {
	if notifyDelay <= 0 {
		notifyDelay = time.Second
	}
	return &MonitorRunUseCase{
		seenStore: seenStore,
		fetcher:   fetcher,
		notifier:  notifier,
		events:    events,
		criteria:  criteria,
		limiter:   rate.NewLimiter(rate.Every(notifyDelay), 1),
	}
}

// Execute выполняет один цикл мониторинга. Все сбои, кроме отмены контекста,
// локальны: логируются и заменяются безопасным значением по умолчанию,
// чтобы запуск дошел до конца.
func (uc *MonitorRunUseCase) Execute(ctx context.Context) (domain.RunSummary, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "MonitorRun"})

	var summary domain.RunSummary

	seen, err := uc.seenStore.Load(ctx)
	if err != nil {
		// Fail-open: лучше продублировать уведомление, чем молча
		// посчитать все объявления уже просмотренными.
		logger.Warn("Could not load seen set, continuing with empty one", port.Fields{"error": err.Error()})
		seen = domain.NewSeenSet()
	} else {
		logger.Info("Seen set loaded", port.Fields{"count": seen.Len()})
	}

	ads, err := uc.fetcher.FetchAds(ctx, uc.criteria)
	if err != nil {
		logger.Error("Failed to fetch ads, finishing run", err, nil)
		return summary, nil
	}
	summary.Fetched = len(ads)
	if len(ads) == 0 {
		logger.Info("No ads returned, nothing to do", nil)
		return summary, nil
	}

	for _, ad := range ads {
		if ad.ID == "" || seen.Contains(ad.ID) {
			continue
		}

		payload := FormatListing(ad)

		if err := uc.limiter.Wait(ctx); err != nil {
			logger.Warn("Run cancelled while waiting to dispatch", port.Fields{"error": err.Error()})
			return summary, err
		}

		if err := uc.notifier.Notify(ctx, payload); err != nil {
			// Сбой одного уведомления не прерывает обработку остальных.
			logger.Error("Failed to notify about listing", err, port.Fields{"ad_id": ad.ID})
		} else {
			summary.Notified++
			logger.Info("Notification sent", port.Fields{"ad_id": ad.ID, "url": payload.URL})
		}

		// Помечаем просмотренным независимо от исхода отправки:
		// подавление дублей важнее повторной доставки.
		seen.Add(ad.ID)
		summary.New++

		if uc.events != nil {
			if err := uc.events.PublishNewListing(ctx, ad); err != nil {
				logger.Error("Failed to publish new listing event", err, port.Fields{"ad_id": ad.ID})
			}
		}
	}

	if summary.New == 0 {
		logger.Info("No new listings this run", port.Fields{"fetched": summary.Fetched})
		return summary, nil
	}

	handle, err := uc.seenStore.Save(ctx, seen)
	if err != nil {
		// Несохраненный прогресс означает повторные уведомления в следующем
		// запуске - приемлемо, падение запуска здесь ничего не улучшит.
		logger.Error("Failed to save seen set", err, port.Fields{"count": seen.Len()})
		return summary, nil
	}
	summary.SavedTo = handle

	logger.Info("Run finished", port.Fields{
		"fetched":  summary.Fetched,
		"new":      summary.New,
		"notified": summary.Notified,
		"handle":   handle,
	})
	return summary, nil
}
