package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/daryaivaniukovich/kufar-monitor/internal/adapters/giststore"
	"github.com/daryaivaniukovich/kufar-monitor/internal/adapters/kufarfetcher"
	logger_adapter "github.com/daryaivaniukovich/kufar-monitor/internal/adapters/logger"
	postgres_adapter "github.com/daryaivaniukovich/kufar-monitor/internal/adapters/postgres"
	rabbitmq_adapter "github.com/daryaivaniukovich/kufar-monitor/internal/adapters/rabbitmq"
	"github.com/daryaivaniukovich/kufar-monitor/internal/adapters/telegram"
	"github.com/daryaivaniukovich/kufar-monitor/internal/configs"
	"github.com/daryaivaniukovich/kufar-monitor/internal/constants"
	"github.com/daryaivaniukovich/kufar-monitor/internal/contextkeys"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/port"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/port/usecases"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/usecase"
	"github.com/daryaivaniukovich/kufar-monitor/pkg/fluentlogger"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
)

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	logger       port.LoggerPort
	fluentClient *fluent.Fluent

	monitorRun usecases.MonitorRunPort

	// ресурсы с собственным жизненным циклом; nil, если не используются
	pgStore *postgres_adapter.SeenStoreAdapter
	events  *rabbitmq_adapter.ListingEventsAdapter
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		logger:       baseLogger,
		fluentClient: fluentClient,
	}

	// --- 3. ХРАНИЛИЩЕ ПРОСМОТРЕННЫХ ID ---
	var seenStore port.SeenStorePort
	switch appConfig.SeenStore.Backend {
	case configs.SeenStorePostgres:
		pgStore, err := postgres_adapter.NewSeenStoreAdapter(context.Background(), postgres_adapter.Config{
			DatabaseURL: appConfig.Database.URL,
		})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL seen store", err, nil)
			application.close()
			return nil, fmt.Errorf("failed to initialize postgres seen store: %w", err)
		}
		application.pgStore = pgStore
		seenStore = pgStore
		appLogger.Info("PostgreSQL seen store initialized.", nil)
	default:
		var handles giststore.HandleStore
		if appConfig.Gist.GistID != "" {
			handles = giststore.NewStaticHandleStore(appConfig.Gist.GistID)
		} else {
			handles = giststore.NewFileHandleStore(appConfig.Gist.HandleFile)
		}
		gistStore, err := giststore.NewSeenStoreAdapter(giststore.Config{
			Token:   appConfig.Gist.Token,
			Handles: handles,
		})
		if err != nil {
			appLogger.Error("Failed to create gist seen store", err, nil)
			application.close()
			return nil, fmt.Errorf("failed to initialize gist seen store: %w", err)
		}
		seenStore = gistStore
		appLogger.Info("Gist seen store initialized.", nil)
	}

	// --- 4. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	kufarAdapter, err := kufarfetcher.NewKufarFetcherAdapter(appConfig.Kufar.BaseURL)
	if err != nil {
		appLogger.Error("Failed to create Kufar Fetcher Adapter", err, nil)
		application.close()
		return nil, fmt.Errorf("failed to initialize kufar fetcher: %w", err)
	}
	appLogger.Info("Kufar Fetcher Adapter initialized.", nil)

	notifier, err := telegram.NewNotifierAdapter(telegram.Config{
		BotToken: appConfig.Telegram.BotToken,
		ChatID:   appConfig.Telegram.ChatID,
	})
	if err != nil {
		appLogger.Error("Failed to create Telegram notifier", err, nil)
		application.close()
		return nil, fmt.Errorf("failed to initialize telegram notifier: %w", err)
	}
	appLogger.Info("Telegram notifier initialized.", nil)

	var events port.ListingEventsPort
	if appConfig.RabbitMQ.Enabled {
		eventsAdapter, err := rabbitmq_adapter.NewListingEventsAdapter(rabbitmq_adapter.Config{
			URL:        appConfig.RabbitMQ.URL,
			Exchange:   appConfig.RabbitMQ.Exchange,
			RoutingKey: appConfig.RabbitMQ.RoutingKey,
		})
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ events publisher", err, nil)
			application.close()
			return nil, fmt.Errorf("failed to initialize rabbitmq events publisher: %w", err)
		}
		application.events = eventsAdapter
		events = eventsAdapter
		appLogger.Info("RabbitMQ events publisher initialized.", nil)
	}

	// --- 5. USE CASE ---
	criteria := buildCriteria(appConfig.Kufar)
	application.monitorRun = usecase.NewMonitorRunUseCase(
		seenStore,
		kufarAdapter,
		notifier,
		events,
		criteria,
		time.Duration(appConfig.Notify.DelayMS)*time.Millisecond,
	)
	appLogger.Info("Monitor run use case initialized.", port.Fields{
		"category": criteria.Category,
		"location": criteria.Location,
		"rooms":    criteria.Rooms,
		"limit":    criteria.AdsAmount,
	})

	return application, nil
}

// buildCriteria накладывает переопределения из конфигурации
// на фильтр по умолчанию.
func buildCriteria(cfg configs.KufarConfig) domain.SearchCriteria {
	criteria := constants.DefaultCriteria()
	if cfg.Category != "" {
		criteria.Category = cfg.Category
	}
	if cfg.Location != "" {
		criteria.Location = cfg.Location
	}
	if cfg.Rooms != "" {
		criteria.Rooms = cfg.Rooms
	}
	if cfg.AdsLimit > 0 {
		criteria.AdsAmount = cfg.AdsLimit
	}
	return criteria
}

// Run выполняет один цикл мониторинга и завершается.
// Периодичность обеспечивает внешний планировщик (cron, CI).
func (a *App) Run() error {
	defer a.close()

	traceID := uuid.NewString()
	runLogger := a.logger.WithFields(port.Fields{"trace_id": traceID})

	ctx := contextkeys.ContextWithLogger(context.Background(), runLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	// SIGINT/SIGTERM отменяют контекст - цикл прервется на ближайшей паузе
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runLogger.Info("Monitor run starting...", nil)

	summary, err := a.monitorRun.Execute(ctx)
	if err != nil {
		runLogger.Error("Monitor run interrupted", err, nil)
		return err
	}

	runLogger.Info("Monitor run complete", port.Fields{
		"fetched":  summary.Fetched,
		"new":      summary.New,
		"notified": summary.Notified,
	})
	return nil
}

func (a *App) close() {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ events publisher", err, nil)
		}
		a.events = nil
	}
	if a.pgStore != nil {
		a.pgStore.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
		a.pgStore = nil
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
		a.fluentClient = nil
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
