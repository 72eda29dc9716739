package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/repository/common"
)

var (
	// ErrUserNotFound возвращается, когда запись пользователя не найдена.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists возвращается при повторной регистрации email.
	ErrEmailExists = errors.New("email already exists")
)

const userColumns = `id, email, password_hash, name, bio, location, photo_url, rating, review_count,
	skills_wanted, availability, last_login_at, created_at, updated_at`

// UserRepository отвечает за работу с таблицами users и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, name, bio, location, photo_url, skills_wanted, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, rating, review_count, created_at, updated_at
	`

	if user.SkillsWanted == nil {
		user.SkillsWanted = pq.StringArray{}
	}
	if user.Availability == nil {
		user.Availability = models.Availability{}
	}

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Bio, user.Location, user.PhotoURL,
		user.SkillsWanted, user.Availability,
	).Scan(&user.ID, &user.Rating, &user.ReviewCount, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if common.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := common.GetOne[models.User](ctx, r.db, ErrUserNotFound,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}
	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := common.GetOne[models.User](ctx, r.db, ErrUserNotFound,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}
	return user, nil
}

// Exists проверяет наличие пользователя.
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("user repository: exists %w", err)
	}
	return exists, nil
}

// ListShort возвращает краткие карточки пользователей по списку id.
func (r *UserRepository) ListShort(ctx context.Context, ids []uuid.UUID) ([]models.UserShort, error) {
	if len(ids) == 0 {
		return []models.UserShort{}, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	var users []models.UserShort
	if err := r.db.SelectContext(ctx, &users,
		`SELECT id, name, photo_url FROM users WHERE id = ANY($1::uuid[])`, pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("user repository: list short %w", err)
	}
	return users, nil
}

// UpdateProfile сохраняет редактируемые поля профиля.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, bio = $3, location = $4, photo_url = $5, skills_wanted = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if user.SkillsWanted == nil {
		user.SkillsWanted = pq.StringArray{}
	}

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.ID, user.Name, user.Bio, user.Location, user.PhotoURL, user.SkillsWanted,
	).Scan(&user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: update profile %w", err)
	}
	return nil
}

// UpdatePhoto обновляет ссылку на фото профиля.
func (r *UserRepository) UpdatePhoto(ctx context.Context, userID uuid.UUID, photoURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET photo_url = $2, updated_at = NOW() WHERE id = $1`, userID, photoURL)
	if err != nil {
		return fmt.Errorf("user repository: update photo %w", err)
	}
	return requireAffected(res, ErrUserNotFound)
}

// SetAvailability заменяет расписание пользователя.
func (r *UserRepository) SetAvailability(ctx context.Context, userID uuid.UUID, availability models.Availability) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET availability = $2, updated_at = NOW() WHERE id = $1`, userID, availability)
	if err != nil {
		return fmt.Errorf("user repository: set availability %w", err)
	}
	return requireAffected(res, ErrUserNotFound)
}

// CreateSession сохраняет новую сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		session.UserID,
		session.RefreshToken,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}

	return nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}

// SessionExists проверяет, что refresh токен ещё не отозван.
func (r *UserRepository) SessionExists(ctx context.Context, refreshToken string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM user_sessions WHERE refresh_token = $1 AND expires_at > NOW())`, refreshToken); err != nil {
		return false, fmt.Errorf("user repository: session exists %w", err)
	}
	return exists, nil
}

// UpdateLastLoginAt обновляет время последнего входа пользователя.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login at %w", err)
	}
	return nil
}
