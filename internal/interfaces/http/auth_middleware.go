package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// LocalUser clave de Locals donde Protect/IsLoggedIn dejan el *entity.User resuelto.
const LocalUser = "current_user"

// SessionCookie nombre de la cookie de sesión (httpOnly; secure en producción).
const SessionCookie = "jwt"

// sessionAuthenticator es el contrato mínimo que necesitan los middlewares.
// Lo implementa *auth.AuthUseCase; la interfaz permite fakes en tests.
type sessionAuthenticator interface {
	AuthenticateToken(token string) (*entity.User, error)
}

// Protect exige una sesión válida: credencial en header Authorization (Bearer)
// o en la cookie de sesión, la que esté presente. Resuelve el usuario contra la
// base (la sesión muere si el usuario desapareció o cambió su contraseña después
// de emitirla) y lo deja en c.Locals para los handlers y RequireRole.
func Protect(authUC sessionAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authUC.AuthenticateToken(tokenFromRequest(c))
		if err != nil {
			status, code := authErrorStatus(err)
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: publicMessage(err)})
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// IsLoggedIn resuelve la identidad si hay sesión válida pero NUNCA corta la
// request: cualquier fallo deja al visitante como anónimo. Para rutas de
// lectura que renderizan distinto con/sin sesión.
func IsLoggedIn(authUC sessionAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := authUC.AuthenticateToken(tokenFromRequest(c)); err == nil {
			c.Locals(LocalUser, user)
		}
		return c.Next()
	}
}

// RequireRole autoriza por rol sobre la identidad ya resuelta.
// Debe componerse DESPUÉS de Protect: sin usuario en el contexto responde 401.
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "NOT_LOGGED_IN",
				Message: domain.ErrUnauthenticated.Error(),
			})
		}
		for _, role := range allowedRoles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: domain.ErrForbidden.Error(),
		})
	}
}

// CurrentUser devuelve el usuario resuelto por Protect/IsLoggedIn, o nil.
func CurrentUser(c *fiber.Ctx) *entity.User {
	user, _ := c.Locals(LocalUser).(*entity.User)
	return user
}

// tokenFromRequest extrae la credencial del header Authorization (Bearer) o de
// la cookie de sesión; vacío si no hay ninguna (request anónima).
func tokenFromRequest(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return c.Cookies(SessionCookie)
}

// authErrorStatus traduce los errores de sesión a status + código estable.
func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "NOT_LOGGED_IN"
	case errors.Is(err, domain.ErrSessionExpired):
		return fiber.StatusUnauthorized, "SESSION_EXPIRED"
	case errors.Is(err, domain.ErrInvalidSession):
		return fiber.StatusUnauthorized, "INVALID_SESSION"
	case errors.Is(err, domain.ErrUserGone):
		return fiber.StatusUnauthorized, "USER_GONE"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}
