package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"diarium/internal/auth"
	"diarium/internal/config"
	"diarium/internal/handler"
)

// Register wires routes and middleware. Guards are composed per route:
// login-required routes get the JWT guard, moderation routes additionally get
// the capability guard, and the entry detail route gets optional auth so the
// owner of an unpublished entry is recognized.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	entryHandler *handler.EntryHandler,
	moderationHandler *handler.ModerationHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	messageHandler *handler.MessageHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	loginRequired := RequireAuth(cfg.JWTSecret, tokenStore)
	optionalAuth := OptionalAuth(jwtService)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Diary
	e.GET("/", entryHandler.Home)
	e.GET("/diary/", entryHandler.Mine, loginRequired)
	e.GET("/create/", entryHandler.CreateForm, loginRequired)
	e.POST("/create/", entryHandler.Create, loginRequired)
	e.GET("/update/:slug/", entryHandler.UpdateForm, loginRequired)
	e.POST("/update/:slug/", entryHandler.Update, loginRequired)
	e.POST("/delete/:slug/", entryHandler.Delete, loginRequired)

	// Moderation
	e.GET("/moderation/", moderationHandler.Queue, loginRequired, RequireModerator)
	e.POST("/moderation/:slug/action/", moderationHandler.Act, loginRequired, RequireModerator)

	// Accounts
	users := e.Group("/users")
	users.GET("/login/", authHandler.LoginForm)
	users.POST("/login/", authHandler.Login)
	users.POST("/logout/", authHandler.Logout, loginRequired)
	users.POST("/token/refresh/", authHandler.Refresh)
	users.GET("/register/", authHandler.RegisterForm)
	users.POST("/register/", authHandler.Register)
	users.GET("/email-confirm/:code/", authHandler.Confirm)
	users.GET("/reset/", authHandler.ResetForm)
	users.POST("/reset/", authHandler.Reset)
	users.GET("/profile/", userHandler.Profile, loginRequired)
	users.GET("/profile/edit/", userHandler.EditForm, loginRequired)
	users.POST("/profile/edit/", userHandler.Edit, loginRequired)

	// Messages
	e.GET("/messages/", messageHandler.Inbox, loginRequired)
	e.POST("/messages/", messageHandler.Send, loginRequired)
	e.POST("/messages/:id/read/", messageHandler.MarkRead, loginRequired)

	// Entry detail last so static routes win over the slug parameter.
	e.GET("/:slug/", entryHandler.Detail, optionalAuth)
	e.POST("/:slug/", entryHandler.DetailAction, loginRequired)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
