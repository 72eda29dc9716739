package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoStorage хранит фотографии профилей на диске, по каталогу на пользователя.
type PhotoStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewPhotoStorage создаёт хранилище и корневой каталог.
func NewPhotoStorage(rootPath string, maxUploadMB int64) (*PhotoStorage, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("storage: некорректный путь %s: %w", rootPath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", abs, err)
	}

	return &PhotoStorage{
		rootPath:       abs,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Root возвращает абсолютный путь к корню хранилища.
func (s *PhotoStorage) Root() string {
	return s.rootPath
}

// Save записывает файл под случайным именем с расширением оригинала
// и возвращает путь относительно корня. Файл больше лимита отклоняется.
func (s *PhotoStorage) Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	userDir := filepath.Join(s.rootPath, userID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог пользователя: %w", err)
	}

	tmp, err := os.CreateTemp(userDir, "upload-*.tmp")
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	written, err := io.Copy(tmp, io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		cleanup()
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		cleanup()
		return "", 0, fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxUploadBytes)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	fileName := uuid.NewString() + extension(originalName)
	if err := os.Rename(tmpPath, filepath.Join(userDir, fileName)); err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return filepath.Join(userID.String(), fileName), written, nil
}

// Delete удаляет файл. Пути за пределами корня отклоняются.
func (s *PhotoStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relativePath))
	if !strings.HasPrefix(target, s.rootPath+string(filepath.Separator)) {
		return fmt.Errorf("storage: путь %q вне хранилища", relativePath)
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// extension возвращает безопасное расширение в нижнем регистре.
func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	for _, r := range ext[min(1, len(ext)):] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
