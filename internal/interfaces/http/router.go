package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CookieSecure bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	users := api.Group("/users")
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieSecure)
	userHandler := NewUserHandler(deps.AuthUC)

	// Público
	users.Post("/signup", authHandler.Signup)
	users.Post("/login", authHandler.Login)
	users.Get("/logout", authHandler.Logout)
	users.Post("/forgot-password", authHandler.ForgotPassword)
	users.Patch("/reset-password/:token", authHandler.ResetPassword)

	// Requiere sesión
	protected := users.Group("", Protect(deps.AuthUC))
	protected.Get("/me", authHandler.Me)
	protected.Delete("/me", authHandler.DeleteMe)
	protected.Patch("/update-my-password", authHandler.UpdatePassword)

	// Solo admin: listado y elevación de rol (RequireRole SIEMPRE después de Protect)
	admin := users.Group("", Protect(deps.AuthUC), RequireRole(entity.RoleAdmin))
	admin.Get("/", userHandler.List)
	admin.Patch("/:id/role", userHandler.UpdateRole)
}
