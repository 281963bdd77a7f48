package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
)

// genericMessage respuesta para fallos internos: nunca exponemos detalle
// (ni stack, ni errores del driver, ni hashes/tokens).
const genericMessage = "algo salió mal, intenta de nuevo más tarde"

// kindStatus mapa error de dominio -> (status HTTP, código estable).
// Cada kind del núcleo de auth tiene exactamente un status.
var kindStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrMissingCredentials, fiber.StatusBadRequest, "MISSING_CREDENTIALS"},
	{domain.ErrInvalidOrExpiredToken, fiber.StatusBadRequest, "INVALID_RESET_TOKEN"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrWrongCurrentPassword, fiber.StatusUnauthorized, "WRONG_CURRENT_PASSWORD"},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "NOT_LOGGED_IN"},
	{domain.ErrSessionExpired, fiber.StatusUnauthorized, "SESSION_EXPIRED"},
	{domain.ErrInvalidSession, fiber.StatusUnauthorized, "INVALID_SESSION"},
	{domain.ErrUserGone, fiber.StatusUnauthorized, "USER_GONE"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNoSuchUser, fiber.StatusNotFound, "NO_SUCH_USER"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDeliveryFailed, fiber.StatusInternalServerError, "EMAIL_FAILED"},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
}

// respondError traduce un error del use case a la respuesta HTTP.
// Errores desconocidos (y ErrCorruptCredential, ya logueado en el use case)
// responden 500 con mensaje genérico.
func respondError(c *fiber.Ctx, err error) error {
	for _, k := range kindStatus {
		if errors.Is(err, k.err) {
			return c.Status(k.status).JSON(dto.ErrorResponse{Code: k.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: genericMessage,
	})
}

// publicMessage devuelve el mensaje del error si es un kind conocido,
// o el genérico si no lo es.
func publicMessage(err error) string {
	for _, k := range kindStatus {
		if errors.Is(err, k.err) {
			return err.Error()
		}
	}
	return genericMessage
}
