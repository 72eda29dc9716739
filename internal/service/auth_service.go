package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/pkg/apperror"
	"github.com/skillswap/backend/internal/repository"
	"github.com/skillswap/backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, refreshToken string) error
	SessionExists(ctx context.Context, refreshToken string) (bool, error)
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
}

// AuthService инкапсулирует регистрацию, вход и ротацию токенов.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
	log          *logrus.Entry
}

// SignupInput содержит данные регистрации.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// SessionMeta — сведения о клиенте, сохраняемые в сессии.
type SessionMeta struct {
	UserAgent string
	IP        string
}

// AuthResult возвращает итог регистрации или входа.
type AuthResult struct {
	User   *models.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
		log:          logger.Component("auth_service"),
	}
}

// Signup регистрирует пользователя и открывает сессию.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, meta SessionMeta) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)

	if err := validation.ValidateName(name); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Validation(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, apperror.ErrEmailTaken
		}
		return nil, err
	}

	tokens, err := s.openSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("пользователь зарегистрирован")
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login проверяет учётные данные и выдаёт токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta SessionMeta) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("не удалось обновить last_login_at")
	}

	tokens, err := s.openSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh заменяет сессию новой парой токенов.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta SessionMeta) (*TokenPair, error) {
	userID, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, apperror.ErrInvalidToken.Message)
	}

	active, err := s.repo.SessionExists(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, apperror.ErrInvalidToken
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidToken
		}
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.openSession(ctx, userID, meta)
}

// Logout удаляет сессию. Пустой токен допустим: клиент просто забывает access токен.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteSession(ctx, refreshToken)
}

func (s *AuthService) openSession(ctx context.Context, userID uuid.UUID, meta SessionMeta) (*TokenPair, error) {
	tokens, refreshExp, err := s.tokenManager.GeneratePair(userID)
	if err != nil {
		return nil, fmt.Errorf("auth service: выпуск токенов: %w", err)
	}

	session := &models.Session{
		UserID:       userID,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IP != "" {
		session.IPAddress = &meta.IP
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return tokens, nil
}
