package repository

import (
	"time"

	"github.com/jhoicas/tours-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Convenciones:
//   - Los métodos Get* devuelven (nil, nil) si no hay fila; error solo ante fallo real.
//   - Todas las lecturas excluyen usuarios con active = false; GetByEmailAnyStatus
//     es el único override explícito.
//   - withPassword controla si se selecciona password_hash (oculto por defecto,
//     solo login y cambio de contraseña lo piden).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string, withPassword bool) (*entity.User, error)
	GetByEmail(email string, withPassword bool) (*entity.User, error)
	GetByEmailAnyStatus(email string) (*entity.User, error)
	GetByResetDigest(digest string) (*entity.User, error)

	// Update persiste el registro completo (nombre, foto, hash, passwordChangedAt,
	// campos de reset). Es el "save" por el que pasan los cambios de contraseña.
	Update(user *entity.User) error

	// UpdateResetToken guarda/limpia solo los campos del token de reset
	// (save parcial sin validar el resto del registro). nil/nil limpia ambos.
	UpdateResetToken(id string, digest *string, expires *time.Time) error

	// UpdateRole cambia el rol (acción administrativa explícita).
	UpdateRole(id, role string) error

	// Deactivate marca el usuario como inactivo (soft-delete, nunca borra la fila).
	Deactivate(id string) error

	List(limit, offset int) ([]*entity.User, error)
}
