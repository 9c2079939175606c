package giststore

import (
	"fmt"
	"os"
	"strings"
)

// HandleStore хранит идентификатор gist-а между запусками.
// Первый успешный Save создает новый gist - его идентификатор
// обязан пережить процесс, иначе следующий запуск создаст еще один.
type HandleStore interface {
	Get() (string, error)
	Put(handle string) error
}

// FileHandleStore - идентификатор в локальном файле (gist_id.txt).
type FileHandleStore struct {
	path string
}

func NewFileHandleStore(path string) *FileHandleStore {
	return &FileHandleStore{path: path}
}

// Get возвращает сохраненный идентификатор или пустую строку,
// если файла еще нет (ожидаемое состояние первого запуска).
func (s *FileHandleStore) Get() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("handle store: failed to read %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileHandleStore) Put(handle string) error {
	if err := os.WriteFile(s.path, []byte(handle), 0o644); err != nil {
		return fmt.Errorf("handle store: failed to write %s: %w", s.path, err)
	}
	return nil
}

// StaticHandleStore - идентификатор задан конфигурацией снаружи
// (вариант деплоя, где gist уже создан заранее). Put игнорируется.
type StaticHandleStore struct {
	handle string
}

func NewStaticHandleStore(handle string) *StaticHandleStore {
	return &StaticHandleStore{handle: handle}
}

func (s *StaticHandleStore) Get() (string, error) { return s.handle, nil }

func (s *StaticHandleStore) Put(handle string) error {
	s.handle = handle
	return nil
}
