package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashCorrupto el hash persistido no es un hash bcrypt bien formado.
// Es un error de integridad del almacenamiento, no un fallo del usuario.
var ErrHashCorrupto = errors.New("password: hash almacenado corrupto")

// DefaultCost costo bcrypt por defecto (~100-300ms por hash en hardware de referencia).
const DefaultCost = 12

// Hasher codifica y verifica contraseñas con bcrypt (salted, costo adaptativo).
type Hasher struct {
	Cost int
}

// NewHasher construye un Hasher; cost <= 0 usa DefaultCost.
func NewHasher(cost int) Hasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash genera el hash bcrypt de la contraseña en texto plano.
// El plano nunca se persiste ni se loguea; solo el hash sale de aquí.
func (h Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify compara la contraseña candidata contra el hash almacenado.
// Devuelve (false, ErrHashCorrupto) si el hash no es bcrypt válido;
// (false, nil) si simplemente no coincide.
func (h Hasher) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// ErrHashTooShort, prefijo desconocido, versión inválida...
		return false, ErrHashCorrupto
	}
}
