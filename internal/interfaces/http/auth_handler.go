package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/application/dto"
)

// AuthHandler maneja registro, login/logout y el ciclo de vida de la contraseña.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	cookieSecure bool // true en producción
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{uc: uc, cookieSecure: cookieSecure}
}

// Signup registra un usuario y lo deja logueado (cookie + token en el cuerpo).
// El rol del payload, si viene, se ignora: todo registro nace como "user".
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Signup(in)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendSession(c, fiber.StatusCreated, out)
}

// Login verifica credenciales y emite sesión.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendSession(c, fiber.StatusOK, out)
}

// Logout pisa la cookie de sesión con un valor inerte ya expirado.
// No hay nada que invalidar en el servidor: la sesión es stateless.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "loggedout",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"status": "success"})
}

// ForgotPassword genera y envía el token de recuperación.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ForgotPassword(in.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "message": "token enviado al email"})
}

// ResetPassword consume el token del enlace del email y deja al usuario logueado.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ResetPassword(c.Params("token"), in)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendSession(c, fiber.StatusOK, out)
}

// UpdatePassword cambia la contraseña del usuario autenticado (requiere la actual)
// y renueva la sesión (la anterior queda invalidada por passwordChangedAt).
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NOT_LOGGED_IN", Message: "no has iniciado sesión"})
	}
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdatePassword(user.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendSession(c, fiber.StatusOK, out)
}

// Me devuelve el perfil del usuario autenticado.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NOT_LOGGED_IN", Message: "no has iniciado sesión"})
	}
	return c.JSON(dto.ToUserResponse(user))
}

// DeleteMe desactiva la cuenta (soft-delete) y limpia la cookie.
func (h *AuthHandler) DeleteMe(c *fiber.Ctx) error {
	user := CurrentUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NOT_LOGGED_IN", Message: "no has iniciado sesión"})
	}
	if err := h.uc.Deactivate(user.ID); err != nil {
		return respondError(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "loggedout",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		Path:     "/",
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// sendSession responde con la credencial en cookie httpOnly (expiración = TTL
// de la sesión) además del cuerpo JSON, como espera el cliente web.
func (h *AuthHandler) sendSession(c *fiber.Ctx, status int, out *dto.AuthResponse) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    out.Token,
		Expires:  time.Now().Add(h.uc.SessionTTL()),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.Status(status).JSON(out)
}
