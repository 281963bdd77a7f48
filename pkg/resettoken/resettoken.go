package resettoken

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// tokenBytes entropía del token en bytes (64 caracteres hex al codificar).
const tokenBytes = 32

// Mint genera un token de reset criptográficamente aleatorio y su digest SHA-256.
// Solo el digest se persiste; el token plano viaja únicamente en el email al usuario.
func Mint() (plain string, digest string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("resettoken: generar aleatorio: %w", err)
	}
	plain = hex.EncodeToString(buf)
	return plain, Digest(plain), nil
}

// Digest recalcula el digest SHA-256 (hex) de un token candidato,
// para compararlo contra el valor almacenado.
func Digest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Matches compara en tiempo constante el token candidato contra el digest almacenado,
// para no filtrar información por timing.
func Matches(plain, storedDigest string) bool {
	candidate := Digest(plain)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedDigest)) == 1
}
