package giststore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/daryaivaniukovich/kufar-monitor/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, apiBase string, handles HandleStore) *SeenStoreAdapter {
	t.Helper()
	adapter, err := NewSeenStoreAdapter(Config{
		Token:   "test-token",
		Handles: handles,
		APIBase: apiBase,
	})
	require.NoError(t, err)
	return adapter
}

func gistBody(t *testing.T, id string, ids []string) []byte {
	t.Helper()
	content, err := json.Marshal(ids)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]interface{}{
		"id": id,
		"files": map[string]interface{}{
			"seen_ads.json": map[string]string{"content": string(content)},
		},
	})
	require.NoError(t, err)
	return body
}

func TestLoad_NoHandle_EmptySetWithoutRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore(""))

	set, err := adapter.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, 0, requests)
}

func TestLoad_ExistingGist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/gists/abc123", r.URL.Path)
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		w.Write(gistBody(t, "abc123", []string{"1", "2"}))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore("abc123"))

	set, err := adapter.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("1"))
	assert.True(t, set.Contains("2"))
}

func TestLoad_GistNotFound_FailsOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore("gone"))

	set, err := adapter.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoad_ServerError_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore("abc123"))

	set, err := adapter.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoad_EmptyGistFile_EmptySet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{"id": "abc123", "files": map[string]interface{}{}})
		w.Write(body)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore("abc123"))

	set, err := adapter.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestSave_NoHandle_CreatesGistAndPersistsHandle(t *testing.T) {
	var created gistPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/gists", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "new-gist-id"}`))
	}))
	defer server.Close()

	handles := NewFileHandleStore(filepath.Join(t.TempDir(), "gist_id.txt"))
	adapter := newTestAdapter(t, server.URL, handles)

	handle, err := adapter.Save(context.Background(), domain.NewSeenSet("2", "1"))

	require.NoError(t, err)
	assert.Equal(t, "new-gist-id", handle)
	assert.False(t, created.Public)

	// содержимое - нормализованный JSON-массив
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(created.Files["seen_ads.json"].Content), &ids))
	assert.Equal(t, []string{"1", "2"}, ids)

	// идентификатор пережил сохранение
	persisted, err := handles.Get()
	require.NoError(t, err)
	assert.Equal(t, "new-gist-id", persisted)
}

func TestSave_ExistingHandle_UpdatesGist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/gists/abc123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore("abc123"))

	handle, err := adapter.Save(context.Background(), domain.NewSeenSet("1"))

	require.NoError(t, err)
	assert.Equal(t, "abc123", handle)
}

func TestSave_UpdateHits404_FallsBackToCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "recreated-id"}`))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore("vanished"))

	handle, err := adapter.Save(context.Background(), domain.NewSeenSet("1"))

	require.NoError(t, err)
	assert.Equal(t, "recreated-id", handle)
}

func TestSave_UpdateServerError_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, NewStaticHandleStore("abc123"))

	_, err := adapter.Save(context.Background(), domain.NewSeenSet("1"))

	require.Error(t, err)
}

func TestSaveThenLoad_Roundtrip(t *testing.T) {
	var stored []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var payload gistPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.NoError(t, json.Unmarshal([]byte(payload.Files["seen_ads.json"].Content), &stored))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "roundtrip-id"}`))
		case http.MethodGet:
			w.Write(gistBody(t, "roundtrip-id", stored))
		}
	}))
	defer server.Close()

	handles := NewFileHandleStore(filepath.Join(t.TempDir(), "gist_id.txt"))
	adapter := newTestAdapter(t, server.URL, handles)

	_, err := adapter.Save(context.Background(), domain.NewSeenSet("10", "20"))
	require.NoError(t, err)

	set, err := adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("10"))
	assert.True(t, set.Contains("20"))
}

func TestFileHandleStore_MissingFileIsEmptyHandle(t *testing.T) {
	store := NewFileHandleStore(filepath.Join(t.TempDir(), "gist_id.txt"))

	handle, err := store.Get()

	require.NoError(t, err)
	assert.Empty(t, handle)
}

func TestFileHandleStore_PutThenGet(t *testing.T) {
	store := NewFileHandleStore(filepath.Join(t.TempDir(), "gist_id.txt"))

	require.NoError(t, store.Put("abc123"))

	handle, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc123", handle)
}
