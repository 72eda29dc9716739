package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDValidator проверяет, что все перечисленные параметры пути являются UUID.
// Использование: router.PUT("/bookings/:id/accept", UUIDValidator("id"), handler.Accept)
func UUIDValidator(paramNames ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range paramNames {
			raw := c.Param(name)
			if raw == "" {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "параметр " + name + " обязателен"})
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "параметр " + name + " должен быть валидным UUID"})
				return
			}
		}
		c.Next()
	}
}

// OptionalUUIDQuery проверяет query параметр, только если он передан.
func OptionalUUIDQuery(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.Query(name); raw != "" {
			if _, err := uuid.Parse(raw); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "параметр " + name + " должен быть валидным UUID"})
				return
			}
		}
		c.Next()
	}
}
