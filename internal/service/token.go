package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPair хранит пару access/refresh токенов.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GeneratePair выпускает новую пару токенов и возвращает срок жизни refresh токена.
func (m *TokenManager) GeneratePair(userID uuid.UUID) (*TokenPair, time.Time, error) {
	now := time.Now()
	refreshExp := now.Add(m.refreshTTL)

	access, err := m.sign(jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
	}, m.accessSecret)
	if err != nil {
		return nil, time.Time{}, err
	}

	refresh, err := m.sign(jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(refreshExp),
	}, m.refreshSecret)
	if err != nil {
		return nil, time.Time{}, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, refreshExp, nil
}

// ParseAccess возвращает идентификатор пользователя из access токена.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, error) {
	return m.parse(token, m.accessSecret)
}

// ParseRefresh возвращает идентификатор пользователя из refresh токена.
func (m *TokenManager) ParseRefresh(token string) (uuid.UUID, error) {
	return m.parse(token, m.refreshSecret)
}

func (m *TokenManager) parse(token string, secret []byte) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	if !parsed.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("некорректный subject: %w", err)
	}
	return userID, nil
}

func (m *TokenManager) sign(claims jwt.RegisteredClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
