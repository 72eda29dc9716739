package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
	"github.com/skillswap/backend/internal/repository"
	"github.com/skillswap/backend/internal/validation"
)

// ProfileRepository — операции над пользователем, нужные профилю.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetAvailability(ctx context.Context, userID uuid.UUID, availability models.Availability) error
}

// OfferedSkills — навыки, которые пользователь преподаёт.
type OfferedSkills interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Skill, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, inputs []models.SkillInput) ([]models.Skill, error)
}

// UpdateProfileInput — частичное обновление профиля; nil означает "не менять".
type UpdateProfileInput struct {
	Name          *string
	Bio           *string
	Location      *string
	PhotoURL      *string
	SkillsWanted  []string
	SkillsOffered []models.SkillInput
	// Флаги отличают отсутствующий список от пустого.
	HasSkillsWanted  bool
	HasSkillsOffered bool
}

// ProfileService управляет профилем и расписанием пользователя.
type ProfileService struct {
	users  ProfileRepository
	skills OfferedSkills
	now    func() time.Time
	log    *logrus.Entry
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(users ProfileRepository, skills OfferedSkills) *ProfileService {
	return &ProfileService{
		users:  users,
		skills: skills,
		now:    time.Now,
		log:    logger.Component("profile_service"),
	}
}

// PublicProfile возвращает профиль пользователя для других.
func (s *ProfileService) PublicProfile(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	user, offered, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := models.NewPublicProfile(user, offered)
	return &profile, nil
}

// OwnProfile возвращает профиль текущего пользователя.
func (s *ProfileService) OwnProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	user, offered, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ownProfile(user, offered), nil
}

// Update применяет изменения профиля. Список skills_offered, если передан,
// заменяет навыки пользователя целиком.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateName(name); err != nil {
			return nil, apperror.Validation(err)
		}
		user.Name = name
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, apperror.Validation(err)
		}
		user.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Location != nil {
		if err := validation.ValidateLocation(*in.Location); err != nil {
			return nil, apperror.Validation(err)
		}
		user.Location = strings.TrimSpace(*in.Location)
	}
	if in.PhotoURL != nil {
		user.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.HasSkillsWanted {
		if err := validation.ValidateSkillsWanted(in.SkillsWanted); err != nil {
			return nil, apperror.Validation(err)
		}
		wanted := make(pq.StringArray, 0, len(in.SkillsWanted))
		for _, w := range in.SkillsWanted {
			wanted = append(wanted, strings.TrimSpace(w))
		}
		user.SkillsWanted = wanted
	}

	var offered []models.Skill
	if in.HasSkillsOffered {
		offered, err = s.skills.ReplaceForUser(ctx, userID, in.SkillsOffered)
		if err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	if !in.HasSkillsOffered {
		offered, err = s.skills.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	s.log.WithField("user_id", userID).Info("профиль обновлён")
	return ownProfile(user, offered), nil
}

// AvailableDates возвращает даты, на которые можно записаться.
// Без заданного расписания предлагаются следующие семь дней.
func (s *ProfileService) AvailableDates(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Availability) == 0 {
		return models.DefaultAvailableDates(s.now()), nil
	}

	dates := make([]string, 0, len(user.Availability))
	for _, slot := range user.Availability {
		dates = append(dates, slot.Date)
	}
	return dates, nil
}

// AvailableTimes возвращает свободные часы на дату.
func (s *ProfileService) AvailableTimes(ctx context.Context, userID uuid.UUID, date string) ([]string, error) {
	if err := validation.ValidateDate(date); err != nil {
		return nil, apperror.Validation(err)
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, slot := range user.Availability {
		if slot.Date == date && len(slot.Times) > 0 {
			return slot.Times, nil
		}
	}
	return append([]string(nil), models.DefaultAvailableTimes...), nil
}

// SetAvailability заменяет расписание пользователя.
func (s *ProfileService) SetAvailability(ctx context.Context, userID uuid.UUID, slots models.Availability) (models.Availability, error) {
	if len(slots) > validation.MaxAvailabilityDays {
		return nil, apperror.New(apperror.ErrCodeValidation, "слишком много дат в расписании")
	}

	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if err := validation.ValidateDate(slot.Date); err != nil {
			return nil, apperror.Validation(err)
		}
		if _, dup := seen[slot.Date]; dup {
			return nil, apperror.New(apperror.ErrCodeValidation, "дата "+slot.Date+" указана дважды")
		}
		seen[slot.Date] = struct{}{}

		if len(slot.Times) > validation.MaxTimesPerAvailability {
			return nil, apperror.New(apperror.ErrCodeValidation, "слишком много слотов на дату "+slot.Date)
		}
		for _, t := range slot.Times {
			if err := validation.ValidateTimeOfDay(t); err != nil {
				return nil, apperror.Validation(err)
			}
		}
	}

	if slots == nil {
		slots = models.Availability{}
	}
	if err := s.users.SetAvailability(ctx, userID, slots); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return slots, nil
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*models.User, []models.Skill, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	offered, err := s.skills.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, offered, nil
}

func (s *ProfileService) getUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func ownProfile(user *models.User, offered []models.Skill) *models.Profile {
	availability := user.Availability
	if availability == nil {
		availability = models.Availability{}
	}
	return &models.Profile{
		PublicProfile: models.NewPublicProfile(user, offered),
		Email:         user.Email,
		Availability:  availability,
	}
}
