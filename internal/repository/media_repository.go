package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skillswap/backend/internal/models"
)

// MediaRepository работает с таблицей media_files.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository создаёт экземпляр.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет запись о загруженном фото.
func (r *MediaRepository) Create(ctx context.Context, media *models.MediaFile) error {
	query := `
		INSERT INTO media_files (user_id, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		media.UserID,
		media.FilePath,
		media.FileType,
		media.FileSize,
	).Scan(&media.ID, &media.CreatedAt); err != nil {
		return fmt.Errorf("media repository: create %w", err)
	}

	return nil
}
