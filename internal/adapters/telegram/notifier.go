package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/daryaivaniukovich/kufar-monitor/internal/contextkeys"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/port"
)

const defaultAPIBase = "https://api.telegram.org"

// кнопка под фото, ведущая на страницу объявления
const openButtonText = "📸 Открыть в браузере"

// NotifierAdapter отправляет уведомления в Telegram-канал через Bot API.
// Основной режим - фото с подписью и кнопкой-ссылкой; если фото нет или
// sendPhoto не сработал, откатываемся к обычному текстовому сообщению.
type NotifierAdapter struct {
	httpClient *http.Client
	apiBase    string
	token      string
	chatID     string
}

type Config struct {
	BotToken string
	ChatID   string
	// APIBase переопределяется только в тестах
	APIBase string
}

func NewNotifierAdapter(cfg Config) (*NotifierAdapter, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("telegram notifier: bot token is required")
	}
	if cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram notifier: chat id is required")
	}

	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	return &NotifierAdapter{
		// отправка фото заметно медленнее обычного сообщения
		httpClient: &http.Client{Timeout: 20 * time.Second},
		apiBase:    strings.TrimRight(apiBase, "/"),
		token:      cfg.BotToken,
		chatID:     cfg.ChatID,
	}, nil
}

// Notify доставляет одно уведомление: сначала богатый вариант,
// при неудаче - текстовый. Ошибка возвращается, только если не
// сработал ни один из двух.
func (n *NotifierAdapter) Notify(ctx context.Context, payload domain.NotificationPayload) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "TelegramNotifier"})

	if payload.PhotoURL != "" {
		err := n.sendPhoto(ctx, payload)
		if err == nil {
			logger.Info("Photo notification sent", port.Fields{"url": payload.URL})
			return nil
		}
		logger.Warn("sendPhoto failed, falling back to text message", port.Fields{
			"error": err.Error(),
			"url":   payload.URL,
		})
	}

	if err := n.sendText(ctx, payload); err != nil {
		return fmt.Errorf("telegram notifier: fallback sendMessage failed: %w", err)
	}
	logger.Info("Text notification sent", port.Fields{"url": payload.URL})
	return nil
}

// sendPhoto - фото + подпись + одна inline-кнопка со ссылкой на объявление.
func (n *NotifierAdapter) sendPhoto(ctx context.Context, payload domain.NotificationPayload) error {
	keyboard, err := json.Marshal(map[string]interface{}{
		"inline_keyboard": [][]map[string]string{
			{{"text": openButtonText, "url": payload.URL}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reply markup: %w", err)
	}

	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("photo", payload.PhotoURL)
	form.Set("caption", payload.Caption)
	form.Set("parse_mode", "HTML")
	form.Set("reply_markup", string(keyboard))

	return n.post(ctx, "sendPhoto", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

// sendText - резервная отправка: подпись плюс ссылка обычным текстом.
func (n *NotifierAdapter) sendText(ctx context.Context, payload domain.NotificationPayload) error {
	body, err := json.Marshal(map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     fmt.Sprintf("%s\n🔗 %s", payload.Caption, payload.URL),
		"parse_mode":               "HTML",
		"disable_web_page_preview": false,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message body: %w", err)
	}

	return n.post(ctx, "sendMessage", "application/json", bytes.NewReader(body))
}

func (n *NotifierAdapter) post(ctx context.Context, method, contentType string, body io.Reader) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// тело ответа Telegram содержит описание ошибки - добавляем в лог
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, string(respBody))
	}
	return nil
}
