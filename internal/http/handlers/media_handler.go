package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/dto"
	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/service"
)

// MediaHandler принимает загрузку фотографий профиля.
type MediaHandler struct {
	photos         *service.PhotoService
	maxUploadBytes int64
}

// NewMediaHandler создаёт хэндлер.
func NewMediaHandler(photos *service.PhotoService, maxUploadMB int64) *MediaHandler {
	return &MediaHandler{photos: photos, maxUploadBytes: maxUploadMB * 1024 * 1024}
}

// UploadPhoto обрабатывает POST /media/photos (multipart, поле file).
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.RespondBadRequest(c, "файл не может быть пустым")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		common.RespondError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("размер файла превышает %d МБ", h.maxUploadBytes/(1024*1024)))
		return
	}

	src, err := file.Open()
	if err != nil {
		common.RespondBadRequest(c, "не удалось открыть файл")
		return
	}
	defer src.Close()

	media, photoURL, err := h.photos.UploadProfilePhoto(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.PhotoResponse{Media: media, PhotoURL: photoURL})
}
