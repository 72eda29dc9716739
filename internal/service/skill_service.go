package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/domain/skill"
	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
	"github.com/skillswap/backend/internal/repository"
	"github.com/skillswap/backend/internal/validation"
)

// SkillRepository описывает хранилище навыков.
type SkillRepository interface {
	ListWithUsers(ctx context.Context, excludeUserID uuid.UUID) ([]models.SkillWithUser, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	Create(ctx context.Context, s *models.Skill) error
	Update(ctx context.Context, s *models.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceForUser(ctx context.Context, userID uuid.UUID, skills []models.Skill) error
}

// UpdateSkillInput — частичное обновление навыка; nil означает "не менять".
type UpdateSkillInput struct {
	Skill       *string
	Category    *string
	Description *string
}

// SkillService отвечает за навыки и каталог преподавателей.
type SkillService struct {
	repo     SkillRepository
	cache    *CacheService
	cacheTTL time.Duration
	log      *logrus.Entry
}

// NewSkillService создаёт сервис. cacheTTL <= 0 отключает кэш списка преподавателей.
func NewSkillService(repo SkillRepository, cache *CacheService, cacheTTL time.Duration) *SkillService {
	return &SkillService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      logger.Component("skill_service"),
	}
}

// Categories возвращает таксономию для фильтров клиента.
func (s *SkillService) Categories() []skill.Category {
	return skill.Categories()
}

// Classify подсказывает категорию по названию навыка.
func (s *SkillService) Classify(name string) skill.Category {
	return skill.Classify(strings.TrimSpace(name))
}

// Tutors возвращает карточки преподавателей с применёнными фильтрами.
// Пустая категория и "All" означают отсутствие фильтра по категории.
func (s *SkillService) Tutors(ctx context.Context, excludeUserID uuid.UUID, query, category string) ([]skill.TutorCard, error) {
	if category != "" && category != skill.CategoryAll {
		if _, err := skill.ParseCategory(category); err != nil {
			return nil, err
		}
	}

	cards, err := s.aggregated(ctx, excludeUserID)
	if err != nil {
		return nil, err
	}
	return skill.Filter(cards, strings.TrimSpace(query), category), nil
}

// TutorsByCategory возвращает карточки, где есть хотя бы один навык категории.
func (s *SkillService) TutorsByCategory(ctx context.Context, category string) ([]skill.TutorCard, error) {
	parsed, err := skill.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if parsed == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "категория обязательна")
	}

	cards, err := s.aggregated(ctx, uuid.Nil)
	if err != nil {
		return nil, err
	}

	result := make([]skill.TutorCard, 0, len(cards))
	for _, card := range cards {
		if skill.MatchesCategory(card, string(parsed)) {
			result = append(result, card)
		}
	}
	return result, nil
}

// Offerings возвращает плоский список навыков с владельцами и восстановленными категориями.
func (s *SkillService) Offerings(ctx context.Context, excludeUserID uuid.UUID) ([]skill.Offering, error) {
	rows, err := s.repo.ListWithUsers(ctx, excludeUserID)
	if err != nil {
		return nil, err
	}

	offerings := make([]skill.Offering, 0, len(rows))
	for _, row := range rows {
		offerings = append(offerings, toOffering(row))
	}
	return offerings, nil
}

// ListByUser возвращает навыки пользователя с восстановленными категориями.
func (s *SkillService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Skill, error) {
	skills, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range skills {
		skills[i].Category = resolveStored(skills[i])
	}
	return skills, nil
}

// Create добавляет навык пользователю.
func (s *SkillService) Create(ctx context.Context, userID uuid.UUID, in models.SkillInput) (*models.Skill, error) {
	created, err := newSkill(userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	s.cache.InvalidateTutors()
	s.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"skill_id": created.ID,
		"category": created.Category,
	}).Info("навык добавлен")
	return created, nil
}

// Update изменяет навык. Менять навык может только владелец.
func (s *SkillService) Update(ctx context.Context, userID, skillID uuid.UUID, in UpdateSkillInput) (*models.Skill, error) {
	existing, err := s.owned(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}

	if in.Skill != nil {
		name := strings.TrimSpace(*in.Skill)
		if err := validation.ValidateSkillName(name); err != nil {
			return nil, apperror.Validation(err)
		}
		existing.Name = name
	}
	if in.Description != nil {
		if err := validation.ValidateSkillDescription(*in.Description); err != nil {
			return nil, apperror.Validation(err)
		}
		existing.Description = *in.Description
	}

	explicit := skill.Category(existing.Category)
	if in.Category != nil {
		parsed, err := skill.ParseCategory(*in.Category)
		if err != nil {
			return nil, err
		}
		explicit = parsed
	} else if in.Skill != nil {
		// Новое название без явной категории классифицируется заново.
		explicit = ""
	}
	existing.Category = string(skill.ResolveCategory(explicit, existing.Name))

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.cache.InvalidateTutors()
	return existing, nil
}

// Delete удаляет навык владельца.
func (s *SkillService) Delete(ctx context.Context, userID, skillID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, skillID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, skillID); err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return apperror.ErrSkillNotFound
		}
		return err
	}

	s.cache.InvalidateTutors()
	return nil
}

// ReplaceForUser заменяет все навыки пользователя одной транзакцией.
func (s *SkillService) ReplaceForUser(ctx context.Context, userID uuid.UUID, inputs []models.SkillInput) ([]models.Skill, error) {
	if len(inputs) > validation.MaxSkillsCount {
		return nil, apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("количество навыков не может превышать %d", validation.MaxSkillsCount))
	}

	skills := make([]models.Skill, 0, len(inputs))
	for _, in := range inputs {
		sk, err := newSkill(userID, in)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *sk)
	}

	if err := s.repo.ReplaceForUser(ctx, userID, skills); err != nil {
		return nil, err
	}

	s.cache.InvalidateTutors()
	return skills, nil
}

func (s *SkillService) owned(ctx context.Context, userID, skillID uuid.UUID) (*models.Skill, error) {
	existing, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return nil, apperror.ErrSkillNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return existing, nil
}

// aggregated возвращает неотфильтрованный список карточек, по возможности из кэша.
func (s *SkillService) aggregated(ctx context.Context, excludeUserID uuid.UUID) ([]skill.TutorCard, error) {
	load := func() (interface{}, error) {
		offerings, err := s.Offerings(ctx, excludeUserID)
		if err != nil {
			return nil, err
		}
		cards := skill.Aggregate(offerings)
		if skipped := countOrphans(offerings); skipped > 0 {
			s.log.WithField("skipped", skipped).Debug("навыки без владельца пропущены")
		}
		return cards, nil
	}

	if s.cache == nil || s.cacheTTL <= 0 {
		value, err := load()
		if err != nil {
			return nil, err
		}
		return value.([]skill.TutorCard), nil
	}

	value, err := s.cache.GetOrSet(TutorsCacheKey(excludeUserID), s.cacheTTL, load)
	if err != nil {
		return nil, err
	}
	return value.([]skill.TutorCard), nil
}

func newSkill(userID uuid.UUID, in models.SkillInput) (*models.Skill, error) {
	name := strings.TrimSpace(in.Skill)
	if err := validation.ValidateSkillName(name); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidateSkillDescription(in.Description); err != nil {
		return nil, apperror.Validation(err)
	}

	explicit, err := skill.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}

	return &models.Skill{
		UserID:      userID,
		Name:        name,
		Category:    string(skill.ResolveCategory(explicit, name)),
		Description: in.Description,
	}, nil
}

// resolveStored чинит пустые и "Other" категории в старых записях.
func resolveStored(s models.Skill) string {
	return string(skill.ResolveCategory(skill.Category(s.Category), s.Name))
}

func toOffering(row models.SkillWithUser) skill.Offering {
	o := skill.Offering{
		ID:          row.ID,
		UserID:      row.UserID,
		Skill:       row.Name,
		Category:    skill.Category(resolveStored(row.Skill)),
		Description: row.Description,
	}
	if !row.UserExists {
		o.UserID = uuid.Nil
		return o
	}

	o.User = skill.TutorProfile{
		ID:       row.UserID,
		Name:     deref(row.UserName),
		PhotoURL: deref(row.UserPhotoURL),
		Bio:      deref(row.UserBio),
		Location: deref(row.UserLocation),
	}
	if row.UserRating != nil {
		o.User.Rating = *row.UserRating
	}
	if row.UserReviewCount != nil {
		o.User.ReviewCount = *row.UserReviewCount
	}
	return o
}

func countOrphans(offerings []skill.Offering) int {
	n := 0
	for _, o := range offerings {
		if o.UserID == uuid.Nil {
			n++
		}
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
