package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/application/dto"
)

// UserHandler superficie administrativa sobre usuarios (solo admin).
type UserHandler struct {
	uc *auth.AuthUseCase
}

// NewUserHandler construye el handler administrativo de usuarios.
func NewUserHandler(uc *auth.AuthUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List lista usuarios activos con paginación.
func (h *UserHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	users, err := h.uc.ListUsers(page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "limit": page.Limit, "offset": page.Offset})
}

// UpdateRole cambia el rol de un usuario. Única vía de elevación de privilegios:
// el registro público siempre crea rol "user".
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateRole(c.Params("id"), in.Role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success"})
}
