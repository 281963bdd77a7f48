package dto

import (
	"time"

	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// Los nombres de campo JSON siguen el contrato público de la API (camelCase).

// SignupRequest entrada para el registro.
// No existe campo role a propósito: todo registro nace como "user" y la
// elevación de rol es una acción administrativa aparte.
type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest entrada para solicitar recuperación de contraseña.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest entrada para consumir un token de reset.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest entrada para cambio de contraseña autenticado.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdateRoleRequest entrada para la elevación de rol (solo admin).
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user guide lead-guide admin"`
}

// UserResponse salida de un usuario. Nunca incluye el hash de contraseña
// ni los campos del token de reset.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse salida de signup/login/reset: credencial de sesión + usuario.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToUserResponse proyecta la entidad a su representación pública.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Photo:     u.Photo,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
