package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/dto"
	"github.com/skillswap/backend/internal/http/handlers/common"
	"github.com/skillswap/backend/internal/service"
)

// SkillHandler обслуживает навыки и каталог преподавателей.
type SkillHandler struct {
	skills *service.SkillService
}

// NewSkillHandler создаёт хэндлер.
func NewSkillHandler(skills *service.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// Categories GET /skills/categories
func (h *SkillHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: h.skills.Categories()})
}

// Classify GET /skills/classify?name=
func (h *SkillHandler) Classify(c *gin.Context) {
	name := c.Query("name")
	c.JSON(http.StatusOK, dto.ClassifyResponse{Skill: name, Category: h.skills.Classify(name)})
}

// Tutors GET /skills/tutors?exclude_user_id=&q=&category=
func (h *SkillHandler) Tutors(c *gin.Context) {
	exclude, err := common.OptionalUUIDQuery(c, "exclude_user_id")
	if err != nil {
		common.RespondBadRequest(c, "неверный exclude_user_id")
		return
	}

	cards, err := h.skills.Tutors(c.Request.Context(), exclude, c.Query("q"), c.Query("category"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// List GET /skills?exclude_user_id=
func (h *SkillHandler) List(c *gin.Context) {
	exclude, err := common.OptionalUUIDQuery(c, "exclude_user_id")
	if err != nil {
		common.RespondBadRequest(c, "неверный exclude_user_id")
		return
	}

	offerings, err := h.skills.Offerings(c.Request.Context(), exclude)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, offerings)
}

// ByCategory GET /skills/category/:category
func (h *SkillHandler) ByCategory(c *gin.Context) {
	cards, err := h.skills.TutorsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// ByUser GET /skills/user/:userId
func (h *SkillHandler) ByUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "userId")
	if err != nil {
		common.RespondBadRequest(c, "неверный user_id")
		return
	}

	skills, err := h.skills.ListByUser(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

// Create POST /skills
func (h *SkillHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SkillRequest
	if !common.BindJSON(c, &req) {
		return
	}

	created, err := h.skills.Create(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update PUT /skills/:id
func (h *SkillHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	skillID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id навыка")
		return
	}

	var req dto.UpdateSkillRequest
	if !common.BindJSON(c, &req) {
		return
	}

	updated, err := h.skills.Update(c.Request.Context(), userID, skillID, req.ToInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete DELETE /skills/:id
func (h *SkillHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	skillID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный id навыка")
		return
	}

	if err := h.skills.Delete(c.Request.Context(), userID, skillID); err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondMessage(c, "навык удалён")
}
