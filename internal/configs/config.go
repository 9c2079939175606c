package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SeenStore backends
const (
	SeenStoreGist     = "gist"
	SeenStorePostgres = "postgres"
)

// TelegramConfig хранит параметры доставки уведомлений
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// GistConfig - параметры gist-хранилища просмотренных ID
type GistConfig struct {
	Token string
	// GistID - заранее известный идентификатор (вариант деплоя,
	// где gist создан снаружи); пустой - идентификатор живет в HandleFile
	GistID     string
	HandleFile string
}

// DBconfig хранит конфигурацию для БД
type DBconfig struct {
	URL string
}

type SeenStoreConfig struct {
	Backend string // gist | postgres
}

// KufarConfig - поисковый эндпоинт и фиксированный фильтр
type KufarConfig struct {
	BaseURL  string
	Category string
	Location string
	Rooms    string
	AdsLimit int
}

type NotifyConfig struct {
	DelayMS int
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ.
// Публикация событий включается наличием URL.
type RabbitMQConfig struct {
	Enabled    bool
	URL        string
	Exchange   string
	RoutingKey string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Telegram     TelegramConfig
	SeenStore    SeenStoreConfig
	Gist         GistConfig
	Database     DBconfig
	Kufar        KufarConfig
	Notify       NotifyConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Отсутствие любого обязательного секрета - фатальная ошибка старта.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// .env опционален: в CI переменные приходят из окружения
		log.Printf("Info: could not load .env file (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "kufar-monitor")

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.Telegram.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is required")
	}

	cfg.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	if cfg.Telegram.ChatID == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID environment variable is required")
	}

	cfg.SeenStore.Backend = getEnvAsString("SEEN_STORE", SeenStoreGist)
	switch cfg.SeenStore.Backend {
	case SeenStoreGist:
		cfg.Gist.Token = os.Getenv("GIST_TOKEN")
		if cfg.Gist.Token == "" {
			return nil, fmt.Errorf("GIST_TOKEN environment variable is required when SEEN_STORE=gist")
		}
		cfg.Gist.GistID = getEnvAsString("GIST_ID", "")
		cfg.Gist.HandleFile = getEnvAsString("GIST_ID_FILE", "gist_id.txt")
	case SeenStorePostgres:
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required when SEEN_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown SEEN_STORE backend: %s", cfg.SeenStore.Backend)
	}

	cfg.Kufar.BaseURL = getEnvAsString("KUFAR_BASE_URL", "https://api.kufar.by/search-api/v2/search/rendered-paginated")
	cfg.Kufar.Category = getEnvAsString("KUFAR_CATEGORY", "")
	cfg.Kufar.Location = getEnvAsString("KUFAR_LOCATION", "")
	cfg.Kufar.Rooms = getEnvAsString("KUFAR_ROOMS", "")
	cfg.Kufar.AdsLimit = getEnvAsInt("KUFAR_ADS_LIMIT", 0)

	cfg.Notify.DelayMS = getEnvAsInt("NOTIFY_DELAY_MS", 1000)

	cfg.RabbitMQ.URL = getEnvAsString("RABBITMQ_URL", "")
	cfg.RabbitMQ.Enabled = cfg.RabbitMQ.URL != ""
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.Exchange = getEnvAsString("RABBITMQ_EXCHANGE", "monitor_exchange")
		cfg.RabbitMQ.RoutingKey = getEnvAsString("RABBITMQ_ROUTING_KEY", "new_listings")
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию.
// Логирует предупреждение, если переменная есть, но не парсится.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
