package router

import (
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"

	"github.com/skillswap/backend/internal/config"
	"github.com/skillswap/backend/internal/domain/valueobject"
	"github.com/skillswap/backend/internal/http/handlers"
	"github.com/skillswap/backend/internal/http/middleware"
	"github.com/skillswap/backend/internal/service"
)

// Handlers собирает все HTTP хэндлеры приложения.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Skill   *handlers.SkillHandler
	Booking *handlers.BookingHandler
	Message *handlers.MessageHandler
	Media   *handlers.MediaHandler
	WS      *handlers.WSHandler
	Health  *handlers.HealthHandler
	Seed    *handlers.SeedHandler
}

// SetupRouter регистрирует маршруты и middleware.
func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	// WebSocket регистрируется до сжатия ответов.
	r.GET("/api/ws", h.WS.Handle)

	api := r.Group("/api")
	if cfg.CompressionEnabled {
		api.Use(middleware.Compress(brotli.DefaultCompression))
	}
	auth := middleware.AuthMiddleware(tokenManager)

	if h.Seed != nil && cfg.IsDevelopment() {
		api.POST("/seed", h.Seed.Seed)
	}

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware("auth", cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", auth, h.Auth.Logout)
		authGroup.GET("/validate-token", auth, h.Auth.ValidateToken)
	}

	users := api.Group("/users")
	{
		users.GET("/:id", middleware.UUIDValidator("id"), h.Profile.GetUser)
		users.GET("/:id/availability", middleware.UUIDValidator("id"), h.Profile.AvailableDates)
		users.GET("/:id/availability/:date", middleware.UUIDValidator("id"), h.Profile.AvailableTimes)
		users.POST("/availability", auth, h.Profile.SetAvailability)
	}

	api.GET("/profile", auth, h.Profile.GetMe)
	api.PUT("/profile", auth, h.Profile.UpdateMe)
	api.POST("/media/photos", auth, h.Media.UploadPhoto)

	skills := api.Group("/skills")
	{
		skills.GET("", middleware.OptionalUUIDQuery("exclude_user_id"), h.Skill.List)
		skills.GET("/categories", h.Skill.Categories)
		skills.GET("/classify", h.Skill.Classify)
		skills.GET("/tutors", middleware.OptionalUUIDQuery("exclude_user_id"), h.Skill.Tutors)
		skills.GET("/category/:category", h.Skill.ByCategory)
		skills.GET("/user/:userId", middleware.UUIDValidator("userId"), h.Skill.ByUser)
		skills.POST("", auth, h.Skill.Create)
		skills.PUT("/:id", auth, middleware.UUIDValidator("id"), h.Skill.Update)
		skills.DELETE("/:id", auth, middleware.UUIDValidator("id"), h.Skill.Delete)
	}

	bookings := api.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.POST("", h.Booking.Create)
		bookings.GET("/upcoming", h.Booking.Upcoming)
		bookings.GET("/past", h.Booking.Past)
		for _, action := range valueobject.BookingActions() {
			bookings.PUT("/:id/"+string(action), middleware.UUIDValidator("id"), h.Booking.Transition(action))
		}
	}

	messages := api.Group("/messages")
	messages.Use(auth)
	{
		messages.POST("", h.Message.Send)
		messages.GET("/chats", h.Message.Chats)
		messages.GET("/:chatId", h.Message.History)
	}

	return r
}
