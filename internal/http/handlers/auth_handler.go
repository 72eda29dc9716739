package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/dto"
	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и входа.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func sessionMeta(c *gin.Context) service.SessionMeta {
	return service.SessionMeta{
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	}
}

// Signup обрабатывает POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, sessionMeta(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{User: result.User, Tokens: result.Tokens})
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, sessionMeta(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{User: result.User, Tokens: result.Tokens})
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !common.BindJSON(c, &req) {
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, sessionMeta(c))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokensResponse{Tokens: tokens})
}

// Logout обрабатывает POST /auth/logout. Тело запроса необязательно.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondMessage(c, "вы вышли из системы")
}

// ValidateToken обрабатывает GET /auth/validate-token. До хэндлера доходят
// только запросы, прошедшие AuthMiddleware.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user_id": userID})
}
