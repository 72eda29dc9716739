package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/repository/common"
)

// ErrSkillNotFound возвращается, когда навык не найден.
var ErrSkillNotFound = errors.New("skill not found")

const skillColumns = `id, user_id, skill, category, description, position, created_at, updated_at`

// Владелец присоединяется через LEFT JOIN: строки без пользователя
// отбрасываются уже при агрегации.
const skillWithUserQuery = `
	SELECT s.id, s.user_id, s.skill, s.category, s.description, s.position, s.created_at, s.updated_at,
		u.name AS user_name, u.photo_url AS user_photo_url, u.rating AS user_rating,
		u.review_count AS user_review_count, u.bio AS user_bio, u.location AS user_location,
		(u.id IS NOT NULL) AS user_exists
	FROM skills s
	LEFT JOIN users u ON u.id = s.user_id
`

// Навыки одного сохранения профиля делят created_at, их порядок держит position.
const (
	skillWithUserOrder = ` ORDER BY s.created_at, s.position, s.id`
	skillByUserOrder   = ` ORDER BY position, created_at, id`
)

// SkillRepository работает с таблицей skills.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository создаёт экземпляр.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// ListWithUsers возвращает все навыки вместе с владельцами в порядке создания.
// Если excludeUserID задан, навыки этого пользователя пропускаются.
func (r *SkillRepository) ListWithUsers(ctx context.Context, excludeUserID uuid.UUID) ([]models.SkillWithUser, error) {
	var (
		rows []models.SkillWithUser
		err  error
	)

	if excludeUserID == uuid.Nil {
		err = r.db.SelectContext(ctx, &rows, skillWithUserQuery+skillWithUserOrder)
	} else {
		err = r.db.SelectContext(ctx, &rows, skillWithUserQuery+` WHERE s.user_id <> $1`+skillWithUserOrder, excludeUserID)
	}
	if err != nil {
		return nil, fmt.Errorf("skill repository: list with users %w", err)
	}
	return rows, nil
}

// ListByUser возвращает навыки пользователя.
func (r *SkillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Skill, error) {
	skills := []models.Skill{}
	if err := r.db.SelectContext(ctx, &skills,
		`SELECT `+skillColumns+` FROM skills WHERE user_id = $1`+skillByUserOrder, userID); err != nil {
		return nil, fmt.Errorf("skill repository: list by user %w", err)
	}
	return skills, nil
}

// GetByID возвращает навык.
func (r *SkillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	skill, err := common.GetOne[models.Skill](ctx, r.db, ErrSkillNotFound,
		`SELECT `+skillColumns+` FROM skills WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, ErrSkillNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("skill repository: get by id %w", err)
	}
	return skill, nil
}

// Create сохраняет навык.
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	query := `
		INSERT INTO skills (user_id, skill, category, description, position)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM skills WHERE user_id = $1))
		RETURNING id, position, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		skill.UserID, skill.Name, skill.Category, skill.Description,
	).Scan(&skill.ID, &skill.Position, &skill.CreatedAt, &skill.UpdatedAt); err != nil {
		return fmt.Errorf("skill repository: create %w", err)
	}
	return nil
}

// Update сохраняет изменённые поля навыка.
func (r *SkillRepository) Update(ctx context.Context, skill *models.Skill) error {
	query := `
		UPDATE skills SET skill = $2, category = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		skill.ID, skill.Name, skill.Category, skill.Description,
	).Scan(&skill.UpdatedAt); err != nil {
		return fmt.Errorf("skill repository: update %w", err)
	}
	return nil
}

// Delete удаляет навык.
func (r *SkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("skill repository: delete %w", err)
	}
	return requireAffected(res, ErrSkillNotFound)
}

// ReplaceForUser атомарно заменяет все навыки пользователя.
func (r *SkillRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, skills []models.Skill) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM skills WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("skill repository: replace delete %w", err)
		}

		inserter := common.NewBatchInserter(tx, `INSERT INTO skills (user_id, skill, category, description, position)`, 5, 50)
		for _, row := range replaceRows(userID, skills) {
			if err := inserter.Add(ctx, row...); err != nil {
				return fmt.Errorf("skill repository: replace insert %w", err)
			}
		}
		if err := inserter.Flush(ctx); err != nil {
			return fmt.Errorf("skill repository: replace insert %w", err)
		}
		return nil
	})
}

// replaceRows раскладывает навыки в строки вставки. position повторяет
// порядок, в котором пользователь перечислил навыки.
func replaceRows(userID uuid.UUID, skills []models.Skill) [][]interface{} {
	rows := make([][]interface{}, 0, len(skills))
	for i, s := range skills {
		rows = append(rows, []interface{}{userID, s.Name, s.Category, s.Description, i})
	}
	return rows
}
