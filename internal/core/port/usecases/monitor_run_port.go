package usecases

import (
	"context"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
)

// MonitorRunPort - контракт основного сценария: один цикл
// "загрузить просмотренные → получить выдачу → уведомить о новых → сохранить".
type MonitorRunPort interface {
	Execute(ctx context.Context) (domain.RunSummary, error)
}
