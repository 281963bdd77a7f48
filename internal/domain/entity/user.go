package entity

import "time"

// Roles válidos para User.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// ValidRole indica si el rol es uno de los cuatro conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// DefaultPhoto foto de perfil por defecto.
const DefaultPhoto = "/default.jpg"

// User representa un usuario del sistema.
// PasswordHash nunca se serializa hacia fuera: las respuestas usan dto.UserResponse.
type User struct {
	ID           string
	Name         string
	Email        string // único, siempre en minúsculas
	Photo        string
	PasswordHash string // bcrypt, nunca en texto plano después de persistir
	Role         string // user, guide, lead-guide, admin

	// PasswordChangedAt se setea en cada cambio de contraseña (no en el registro).
	// Las sesiones emitidas antes de este instante dejan de ser válidas.
	PasswordChangedAt *time.Time

	// Campos del flujo de reset: ambos presentes o ambos ausentes.
	PasswordResetDigest  *string
	PasswordResetExpires *time.Time

	Active    bool // soft-delete; las lecturas excluyen inactivos por defecto
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChangedPasswordAfter indica si la contraseña cambió después del instante
// en que se emitió una sesión (iat). Los JWT truncan iat a segundos, así que
// comparamos con esa granularidad.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// HasResetToken indica si hay un token de reset pendiente sin consumir.
func (u *User) HasResetToken() bool {
	return u.PasswordResetDigest != nil && u.PasswordResetExpires != nil
}

// ClearResetToken limpia los campos del token de reset (consumo o rollback).
func (u *User) ClearResetToken() {
	u.PasswordResetDigest = nil
	u.PasswordResetExpires = nil
}
