package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
)

// Fixtures — содержимое YAML файла с тестовыми пользователями.
type Fixtures struct {
	Users []FixtureUser `yaml:"users"`
}

// FixtureUser — пользователь вместе с навыками и расписанием.
type FixtureUser struct {
	Name         string              `yaml:"name"`
	Email        string              `yaml:"email"`
	Password     string              `yaml:"password"`
	Bio          string              `yaml:"bio"`
	Location     string              `yaml:"location"`
	SkillsWanted []string            `yaml:"skills_wanted"`
	Skills       []models.SkillInput `yaml:"skills"`
	Availability models.Availability `yaml:"availability"`
}

// SeedReport — итог загрузки фикстур.
type SeedReport struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// Signer регистрирует пользователей.
type Signer interface {
	Signup(ctx context.Context, in SignupInput, meta SessionMeta) (*AuthResult, error)
}

// ProfileWriter заполняет профиль созданного пользователя.
type ProfileWriter interface {
	Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.Profile, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, slots models.Availability) (models.Availability, error)
}

// SeedService загружает тестовые данные через обычные сервисы,
// поэтому фикстуры проходят ту же валидацию и классификацию навыков.
type SeedService struct {
	auth     Signer
	profiles ProfileWriter
	log      *logrus.Entry
}

// NewSeedService создаёт сервис загрузки фикстур.
func NewSeedService(auth Signer, profiles ProfileWriter) *SeedService {
	return &SeedService{
		auth:     auth,
		profiles: profiles,
		log:      logger.Component("seed_service"),
	}
}

// ParseFixtures читает YAML. Неизвестные поля считаются ошибкой.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &Fixtures{}, nil
		}
		return nil, fmt.Errorf("seed service: разбор фикстур: %w", err)
	}
	return &f, nil
}

// SeedFile загружает фикстуры из файла.
func (s *SeedService) SeedFile(ctx context.Context, path string) (*SeedReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed service: открытие %s: %w", path, err)
	}
	defer f.Close()

	fixtures, err := ParseFixtures(f)
	if err != nil {
		return nil, err
	}
	return s.Seed(ctx, fixtures)
}

// Seed создаёт пользователей из фикстур. Уже зарегистрированные email пропускаются.
func (s *SeedService) Seed(ctx context.Context, fixtures *Fixtures) (*SeedReport, error) {
	report := &SeedReport{Created: []string{}, Skipped: []string{}}

	for _, fu := range fixtures.Users {
		res, err := s.auth.Signup(ctx, SignupInput{Name: fu.Name, Email: fu.Email, Password: fu.Password}, SessionMeta{UserAgent: "seed"})
		if err != nil {
			if errors.Is(err, apperror.ErrEmailTaken) {
				report.Skipped = append(report.Skipped, fu.Email)
				continue
			}
			return report, fmt.Errorf("seed service: пользователь %s: %w", fu.Email, err)
		}

		bio, location := fu.Bio, fu.Location
		update := UpdateProfileInput{
			Bio:              &bio,
			Location:         &location,
			SkillsWanted:     fu.SkillsWanted,
			HasSkillsWanted:  true,
			SkillsOffered:    fu.Skills,
			HasSkillsOffered: true,
		}
		if _, err := s.profiles.Update(ctx, res.User.ID, update); err != nil {
			return report, fmt.Errorf("seed service: профиль %s: %w", fu.Email, err)
		}

		if len(fu.Availability) > 0 {
			if _, err := s.profiles.SetAvailability(ctx, res.User.ID, fu.Availability); err != nil {
				return report, fmt.Errorf("seed service: расписание %s: %w", fu.Email, err)
			}
		}

		report.Created = append(report.Created, fu.Email)
	}

	s.log.WithFields(logrus.Fields{
		"created": len(report.Created),
		"skipped": len(report.Skipped),
	}).Info("фикстуры загружены")
	return report, nil
}
