package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/dto"
	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/service"
)

// ProfileHandler обслуживает профили и расписание пользователей.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetUser GET /users/:id
func (h *ProfileHandler) GetUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id пользователя")
		return
	}

	profile, err := h.profiles.PublicProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMe GET /profile
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	profile, err := h.profiles.OwnProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe PUT /profile
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.UpdateProfileRequest
	if !common.BindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// AvailableDates GET /users/:id/availability
func (h *ProfileHandler) AvailableDates(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id пользователя")
		return
	}

	dates, err := h.profiles.AvailableDates(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvailableDatesResponse{AvailableDates: dates})
}

// AvailableTimes GET /users/:id/availability/:date
func (h *ProfileHandler) AvailableTimes(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id пользователя")
		return
	}

	date := c.Param("date")
	times, err := h.profiles.AvailableTimes(c.Request.Context(), userID, date)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvailableTimesResponse{Date: date, AvailableTimes: times})
}

// SetAvailability POST /users/availability
func (h *ProfileHandler) SetAvailability(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SetAvailabilityRequest
	if !common.BindJSON(c, &req) {
		return
	}

	saved, err := h.profiles.SetAvailability(c.Request.Context(), userID, req.Availability)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{Availability: saved})
}
