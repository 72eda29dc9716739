package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/service"
)

// SeedHandler загружает тестовые данные. Подключается только в development.
type SeedHandler struct {
	seed *service.SeedService
	file string
}

// NewSeedHandler создаёт хэндлер для файла фикстур.
func NewSeedHandler(seed *service.SeedService, file string) *SeedHandler {
	return &SeedHandler{seed: seed, file: file}
}

// Seed обрабатывает POST /seed. Тело в формате YAML заменяет файл по умолчанию.
func (h *SeedHandler) Seed(c *gin.Context) {
	var (
		report *service.SeedReport
		err    error
	)

	if c.Request.ContentLength > 0 {
		fixtures, parseErr := service.ParseFixtures(c.Request.Body)
		if parseErr != nil {
			common.RespondBadRequest(c, parseErr.Error())
			return
		}
		report, err = h.seed.Seed(c.Request.Context(), fixtures)
	} else {
		report, err = h.seed.SeedFile(c.Request.Context(), h.file)
	}
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
