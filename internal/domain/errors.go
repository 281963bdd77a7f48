package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno es un "kind" estable
// que la capa HTTP traduce a un status; los mensajes nunca incluyen secretos.
var (
	// Credenciales y sesión
	ErrMissingCredentials = errors.New("debes indicar email y contraseña")
	ErrInvalidCredentials = errors.New("email o contraseña incorrectos")
	ErrUnauthenticated    = errors.New("no has iniciado sesión, inicia sesión para acceder")
	ErrInvalidSession     = errors.New("sesión inválida, inicia sesión de nuevo")
	ErrSessionExpired     = errors.New("la sesión ha expirado, inicia sesión de nuevo")
	ErrUserGone           = errors.New("el usuario de esta sesión ya no existe")
	ErrForbidden          = errors.New("no tienes permiso para realizar esta acción")

	// Recuperación de contraseña
	ErrNoSuchUser            = errors.New("no existe un usuario con ese email")
	ErrInvalidOrExpiredToken = errors.New("el token es inválido o ha expirado")
	ErrWrongCurrentPassword  = errors.New("la contraseña actual es incorrecta")
	ErrDeliveryFailed        = errors.New("no se pudo enviar el email, intenta de nuevo más tarde")

	// Registro y validación
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")

	// Integridad e infraestructura
	ErrCorruptCredential = errors.New("credencial almacenada corrupta")
	ErrStoreUnavailable  = errors.New("almacenamiento no disponible, intenta de nuevo")
)
