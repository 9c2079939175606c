package fluentlogger

import (
	"fmt"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config хранит настройки подключения к Fluent Bit.
type Config struct {
	Host      string // например, "127.0.0.1" или "fluent-bit" в Docker
	Port      int    // например, 24224
	TagPrefix string // общий префикс тегов логов этого сервиса
}

// NewClient создает клиент для Fluent Bit.
// Успешное создание клиента еще не гарантирует соединение:
// ошибки проявятся при первой отправке лога.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	return client, nil
}
