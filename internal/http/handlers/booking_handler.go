package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/domain/valueobject"
	"github.com/skillswap/backend/internal/dto"
	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/service"
)

// BookingHandler обслуживает запись на занятия.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler создаёт хэндлер.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create POST /bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateBookingRequest
	if !common.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Upcoming GET /bookings/upcoming
func (h *BookingHandler) Upcoming(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	views, err := h.bookings.Upcoming(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Past GET /bookings/past
func (h *BookingHandler) Past(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	views, err := h.bookings.Past(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Transition возвращает хэндлер PUT /bookings/:id/<action>.
func (h *BookingHandler) Transition(action valueobject.BookingAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			common.RespondUnauthorized(c, err.Error())
			return
		}
		bookingID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			common.RespondBadRequest(c, "неверный id бронирования")
			return
		}

		booking, err := h.bookings.Apply(c.Request.Context(), userID, bookingID, action)
		if err != nil {
			common.RespondAppError(c, err)
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}
