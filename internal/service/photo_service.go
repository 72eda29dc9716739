package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
	"github.com/skillswap/backend/internal/repository"
)

// Разрешённые типы изображений и соответствующие им расширения.
var allowedPhotoTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// PhotoStore — файловое хранилище фотографий.
type PhotoStore interface {
	Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

// MediaRecorder сохраняет метаданные загруженного файла.
type MediaRecorder interface {
	Create(ctx context.Context, media *models.MediaFile) error
}

// PhotoOwner обновляет фото профиля.
type PhotoOwner interface {
	UpdatePhoto(ctx context.Context, userID uuid.UUID, photoURL string) error
}

// PhotoService загружает фото профиля.
type PhotoService struct {
	store     PhotoStore
	media     MediaRecorder
	users     PhotoOwner
	publicURL string
	log       *logrus.Entry
}

// NewPhotoService создаёт сервис. publicURL — префикс раздачи файлов, например "/media".
func NewPhotoService(store PhotoStore, media MediaRecorder, users PhotoOwner, publicURL string) *PhotoService {
	return &PhotoService{
		store:     store,
		media:     media,
		users:     users,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       logger.Component("photo_service"),
	}
}

// UploadProfilePhoto проверяет изображение по сигнатуре, сохраняет его
// и делает фото профиля пользователя.
func (s *PhotoService) UploadProfilePhoto(ctx context.Context, userID uuid.UUID, filename string, src io.ReadSeeker) (*models.MediaFile, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать файл")
	}
	if n == 0 {
		return nil, "", apperror.New(apperror.ErrCodeValidation, "файл не может быть пустым")
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return nil, "", apperror.New(apperror.ErrCodeValidation, "не удалось определить тип файла, разрешены только изображения")
	}

	exts, ok := allowedPhotoTypes[kind.MIME.Value]
	if !ok {
		return nil, "", apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("неподдерживаемый тип файла (%s)", kind.MIME.Value))
	}
	if !containsString(exts, ext) {
		return nil, "", apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("расширение файла (%s) не соответствует реальному типу (%s)", ext, kind.MIME.Value))
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("photo service: не удалось сбросить позицию файла: %w", err)
	}

	relative, size, err := s.store.Save(ctx, userID, filename, src)
	if err != nil {
		return nil, "", apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось сохранить файл")
	}
	relative = filepath.ToSlash(relative)

	media := &models.MediaFile{
		UserID:   userID,
		FilePath: relative,
		FileType: kind.MIME.Value,
		FileSize: size,
	}
	photoURL := path.Join(s.publicURL, relative)

	if err := s.media.Create(ctx, media); err != nil {
		s.discard(ctx, relative)
		return nil, "", err
	}
	if err := s.users.UpdatePhoto(ctx, userID, photoURL); err != nil {
		s.discard(ctx, relative)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", apperror.ErrUserNotFound
		}
		return nil, "", err
	}

	return media, photoURL, nil
}

func (s *PhotoService) discard(ctx context.Context, relative string) {
	if err := s.store.Delete(ctx, relative); err != nil {
		s.log.WithError(err).WithField("path", relative).Warn("не удалось удалить файл после ошибки")
	}
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
