package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores del emisor de sesiones. El middleware los traduce a errores de dominio.
var (
	// ErrTokenExpirado el token superó su expiración absoluta (iat + ttl).
	ErrTokenExpirado = errors.New("jwt: token expirado")
	// ErrTokenInvalido firma incorrecta, formato malformado o claims inesperados.
	ErrTokenInvalido = errors.New("jwt: token inválido")
)

// Claims de la sesión: solo subject (user id) e issued-at, con expiración absoluta.
// El rol NO viaja en el token: se resuelve contra la DB en cada request protegida,
// así un cambio de rol o de contraseña invalida la sesión sin lista de revocación.
type Claims struct {
	jwt.RegisteredClaims
}

// Generate emite una credencial de sesión firmada (HS256) para el usuario indicado,
// con expiración absoluta issuedAt + ttl.
func Generate(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración, y devuelve el user id (subject) y el issued-at.
// Retorna ErrTokenExpirado si venció, ErrTokenInvalido para cualquier otro fallo.
func Parse(secret, tokenString string) (userID string, issuedAt time.Time, err error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, ErrTokenExpirado
		}
		return "", time.Time{}, ErrTokenInvalido
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return "", time.Time{}, ErrTokenInvalido
	}
	return claims.Subject, claims.IssuedAt.Time, nil
}
