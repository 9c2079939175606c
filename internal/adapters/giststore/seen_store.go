package giststore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/daryaivaniukovich/kufar-monitor/internal/contextkeys"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"
	"github.com/daryaivaniukovich/kufar-monitor/internal/core/port"
)

const (
	defaultAPIBase = "https://api.github.com"
	seenFileName   = "seen_ads.json"
	gistDescr      = "Kufar.by seen ads IDs (auto-updated)"
)

// SeenStoreAdapter хранит множество просмотренных ID в приватном gist-е
// одним файлом seen_ads.json. Документ при сохранении перезаписывается
// целиком, без ревизий и блокировок: при двух одновременных запусках
// побеждает последняя запись - осознанный компромисс, внешний планировщик
// запускает не больше одного экземпляра.
type SeenStoreAdapter struct {
	httpClient *http.Client
	apiBase    string
	token      string
	handles    HandleStore
}

type Config struct {
	Token   string
	Handles HandleStore
	// APIBase переопределяется только в тестах
	APIBase string
}

func NewSeenStoreAdapter(cfg Config) (*SeenStoreAdapter, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("gist store: token is required")
	}
	if cfg.Handles == nil {
		return nil, fmt.Errorf("gist store: handle store is required")
	}

	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}

	return &SeenStoreAdapter{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    strings.TrimRight(apiBase, "/"),
		token:      cfg.Token,
		handles:    cfg.Handles,
	}, nil
}

// структуры ответа GitHub API - только нужные поля
type gistResponse struct {
	ID    string              `json:"id"`
	Files map[string]gistFile `json:"files"`
}

type gistFile struct {
	Content string `json:"content"`
}

type gistPayload struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

// Load читает множество просмотренных ID из gist-а.
// Отсутствующий gist (нет идентификатора или 404) - штатное состояние
// первого запуска: пустое множество без ошибки. Любой другой сбой
// возвращает пустое множество вместе с ошибкой.
func (s *SeenStoreAdapter) Load(ctx context.Context) (domain.SeenSet, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "GistSeenStore"})

	handle, err := s.handles.Get()
	if err != nil {
		return domain.NewSeenSet(), fmt.Errorf("gist store: failed to read handle: %w", err)
	}
	if handle == "" {
		logger.Info("No gist handle yet, starting with empty seen set", nil)
		return domain.NewSeenSet(), nil
	}

	resp, err := s.do(ctx, http.MethodGet, "/gists/"+handle, nil)
	if err != nil {
		return domain.NewSeenSet(), fmt.Errorf("gist store: load request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logger.Warn("Gist not found, a new one will be created on save", port.Fields{"handle": handle})
		return domain.NewSeenSet(), nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.NewSeenSet(), fmt.Errorf("gist store: load returned status %d", resp.StatusCode)
	}

	var gist gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return domain.NewSeenSet(), fmt.Errorf("gist store: failed to decode gist: %w", err)
	}

	content := gist.Files[seenFileName].Content
	if content == "" {
		content = "[]"
	}

	var ids []string
	if err := json.Unmarshal([]byte(content), &ids); err != nil {
		return domain.NewSeenSet(), fmt.Errorf("gist store: malformed %s content: %w", seenFileName, err)
	}

	logger.Info("Seen ids loaded from gist", port.Fields{"handle": handle, "count": len(ids)})
	return domain.NewSeenSet(ids...), nil
}

// Save сериализует нормализованное множество и перезаписывает gist целиком.
// Если идентификатора еще нет, создает новый gist и запоминает его
// идентификатор через HandleStore; если обновление уперлось в 404
// (gist удален руками), тоже создает новый вместо того, чтобы уронить запуск.
func (s *SeenStoreAdapter) Save(ctx context.Context, set domain.SeenSet) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "GistSeenStore"})

	content, err := json.MarshalIndent(set.Normalized(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("gist store: failed to marshal seen ids: %w", err)
	}

	payload := gistPayload{
		Description: gistDescr,
		Public:      false,
		Files: map[string]gistFile{
			seenFileName: {Content: string(content)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gist store: failed to marshal payload: %w", err)
	}

	handle, err := s.handles.Get()
	if err != nil {
		return "", fmt.Errorf("gist store: failed to read handle: %w", err)
	}

	if handle != "" {
		resp, err := s.do(ctx, http.MethodPatch, "/gists/"+handle, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("gist store: update request failed: %w", err)
		}
		func() {
			defer resp.Body.Close()
			io.Copy(io.Discard, resp.Body)
		}()

		switch {
		case resp.StatusCode == http.StatusOK:
			logger.Info("Gist updated", port.Fields{"handle": handle, "count": set.Len()})
			return handle, nil
		case resp.StatusCode == http.StatusNotFound:
			// цель обновления исчезла - откатываемся к созданию нового
			logger.Warn("Gist vanished, creating a new one", port.Fields{"handle": handle})
		default:
			return "", fmt.Errorf("gist store: update returned status %d", resp.StatusCode)
		}
	}

	return s.create(ctx, body, logger, set.Len())
}

func (s *SeenStoreAdapter) create(ctx context.Context, body []byte, logger port.LoggerPort, count int) (string, error) {
	resp, err := s.do(ctx, http.MethodPost, "/gists", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gist store: create request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gist store: create returned status %d", resp.StatusCode)
	}

	var gist gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return "", fmt.Errorf("gist store: failed to decode created gist: %w", err)
	}
	if gist.ID == "" {
		return "", fmt.Errorf("gist store: created gist has no id")
	}

	if err := s.handles.Put(gist.ID); err != nil {
		// gist создан, но идентификатор не сохранился - следующий запуск
		// создаст еще один; громко сообщаем об этом
		logger.Error("Gist created but handle could not be persisted", err, port.Fields{"handle": gist.ID})
		return gist.ID, err
	}

	logger.Info("Gist created", port.Fields{"handle": gist.ID, "count": count})
	return gist.ID, nil
}

func (s *SeenStoreAdapter) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.apiBase+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+s.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.httpClient.Do(req)
}
