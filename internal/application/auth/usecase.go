package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
	"github.com/jhoicas/tours-api/pkg/jwt"
	"github.com/jhoicas/tours-api/pkg/logger"
	"github.com/jhoicas/tours-api/pkg/password"
	"github.com/jhoicas/tours-api/pkg/resettoken"
)

// Notifier es el colaborador externo que entrega emails al usuario.
// Ambos métodos pueden fallar; el use case decide qué fallos son fatales
// (reset) y cuáles no (bienvenida).
type Notifier interface {
	SendWelcome(user *entity.User, url string) error
	SendPasswordReset(user *entity.User, resetURL string) error
}

// Config parámetros del servicio de auth, inyectados en la construcción
// (nada de estado global: secret y TTLs viven aquí).
type Config struct {
	JWTSecret  string
	SessionTTL time.Duration // expiración absoluta de la sesión
	ResetTTL   time.Duration // ventana de validez del token de reset
	BaseURL    string        // para construir los enlaces de los emails
}

// AuthUseCase orquesta registro, login, protección de rutas, autorización por rol
// y el flujo completo de recuperación/cambio de contraseña.
type AuthUseCase struct {
	users    repository.UserRepository
	notifier Notifier
	hasher   password.Hasher
	cfg      Config
	log      *logger.Logger
}

// NewAuthUseCase construye el servicio de auth.
func NewAuthUseCase(users repository.UserRepository, notifier Notifier, hasher password.Hasher, cfg Config, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, notifier: notifier, hasher: hasher, cfg: cfg, log: log}
}

// Signup registra un usuario nuevo: valida, hashea ANTES de persistir y emite sesión.
// El rol siempre es "user"; cualquier role del payload se ignora (ver UpdateRole).
// El email de bienvenida es fire-and-forget: su fallo nunca tumba el registro.
func (uc *AuthUseCase) Signup(in dto.SignupRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	if err := validateSignup(in, email); err != nil {
		return nil, err
	}

	// Incluye cuentas desactivadas: un email soft-deleted sigue ocupado.
	existing, err := uc.users.GetByEmailAnyStatus(email)
	if err != nil {
		return nil, uc.storeErr("signup: buscar email", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashear contraseña: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Photo:        entity.DefaultPhoto,
		PasswordHash: hash,
		Role:         entity.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, uc.storeErr("signup: crear usuario", err)
	}

	go func() {
		url := uc.cfg.BaseURL + "/me"
		if err := uc.notifier.SendWelcome(user, url); err != nil {
			uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("email de bienvenida no enviado")
		}
	}()

	return uc.issueSession(user)
}

// Login verifica email/contraseña y emite sesión.
// Usuario inexistente y contraseña incorrecta responden exactamente igual:
// distinguirlos regalaría un oráculo de cuentas registradas.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := uc.users.GetByEmail(normalizeEmail(in.Email), true)
	if err != nil {
		return nil, uc.storeErr("login: buscar usuario", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := uc.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		uc.log.Error().Str("user_id", user.ID).Msg("hash de contraseña corrupto en la base")
		return nil, domain.ErrCorruptCredential
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.issueSession(user)
}

// AuthenticateToken resuelve la identidad detrás de una credencial de sesión:
// firma/expiración, existencia del usuario y la invalidación post-cambio de
// contraseña (una sesión emitida antes del cambio deja de valer aunque su
// firma siga siendo correcta). Es el núcleo de los middlewares Protect/IsLoggedIn.
func (uc *AuthUseCase) AuthenticateToken(token string) (*entity.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	userID, issuedAt, err := jwt.Parse(uc.cfg.JWTSecret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpirado) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidSession
	}

	user, err := uc.users.GetByID(userID, false)
	if err != nil {
		return nil, uc.storeErr("protect: buscar usuario", err)
	}
	if user == nil {
		return nil, domain.ErrUserGone
	}

	// Señal genérica de expiración: no revelamos que hubo cambio de contraseña.
	if user.ChangedPasswordAfter(issuedAt) {
		return nil, domain.ErrSessionExpired
	}

	return user, nil
}

// ForgotPassword genera un token de reset, persiste su digest + expiración
// (save parcial, sin validar el resto del registro) y envía el token plano
// por email. Si el envío falla, los campos se revierten: nunca queda un token
// usable que el usuario jamás recibió.
func (uc *AuthUseCase) ForgotPassword(email string) error {
	user, err := uc.users.GetByEmail(normalizeEmail(email), false)
	if err != nil {
		return uc.storeErr("forgot: buscar usuario", err)
	}
	if user == nil {
		return domain.ErrNoSuchUser
	}

	plain, digest, err := resettoken.Mint()
	if err != nil {
		return fmt.Errorf("generar token de reset: %w", err)
	}
	expires := time.Now().Add(uc.cfg.ResetTTL)
	if err := uc.users.UpdateResetToken(user.ID, &digest, &expires); err != nil {
		return uc.storeErr("forgot: guardar token", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/reset-password/%s", uc.cfg.BaseURL, plain)
	if err := uc.notifier.SendPasswordReset(user, resetURL); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("email de reset no enviado, revirtiendo token")
		if rbErr := uc.users.UpdateResetToken(user.ID, nil, nil); rbErr != nil {
			uc.log.Error().Err(rbErr).Str("user_id", user.ID).Msg("rollback del token de reset falló")
		}
		return domain.ErrDeliveryFailed
	}

	return nil
}

// ResetPassword consume un token de reset: digest coincidente Y no expirado.
// Token incorrecto y token vencido responden igual hacia fuera. El éxito
// limpia los campos de reset (un solo uso) y emite sesión nueva.
func (uc *AuthUseCase) ResetPassword(plainToken string, in dto.ResetPasswordRequest) (*dto.AuthResponse, error) {
	if err := validateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	user, err := uc.users.GetByResetDigest(resettoken.Digest(plainToken))
	if err != nil {
		return nil, uc.storeErr("reset: buscar por digest", err)
	}
	if user == nil || !user.HasResetToken() ||
		!resettoken.Matches(plainToken, *user.PasswordResetDigest) ||
		time.Now().After(*user.PasswordResetExpires) {
		return nil, domain.ErrInvalidOrExpiredToken
	}

	if err := uc.setPassword(user, in.Password); err != nil {
		return nil, err
	}

	return uc.issueSession(user)
}

// UpdatePassword cambia la contraseña de un usuario autenticado tras verificar
// la actual. Pasa por el save completo (hash + passwordChangedAt): nunca un
// update de campo suelto que se salte el pipeline.
func (uc *AuthUseCase) UpdatePassword(userID string, in dto.UpdatePasswordRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByID(userID, true)
	if err != nil {
		return nil, uc.storeErr("update password: buscar usuario", err)
	}
	if user == nil {
		return nil, domain.ErrUserGone
	}

	ok, err := uc.hasher.Verify(in.PasswordCurrent, user.PasswordHash)
	if err != nil {
		uc.log.Error().Str("user_id", user.ID).Msg("hash de contraseña corrupto en la base")
		return nil, domain.ErrCorruptCredential
	}
	if !ok {
		return nil, domain.ErrWrongCurrentPassword
	}

	if err := validateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}
	if err := uc.setPassword(user, in.Password); err != nil {
		return nil, err
	}

	return uc.issueSession(user)
}

// Deactivate marca la cuenta como inactiva (soft-delete). El registro nunca
// se borra físicamente; simplemente desaparece de todas las lecturas.
func (uc *AuthUseCase) Deactivate(userID string) error {
	if err := uc.users.Deactivate(userID); err != nil {
		return uc.storeErr("deactivate: actualizar usuario", err)
	}
	return nil
}

// ListUsers lista usuarios activos (superficie administrativa).
func (uc *AuthUseCase) ListUsers(limit, offset int) ([]dto.UserResponse, error) {
	users, err := uc.users.List(limit, offset)
	if err != nil {
		return nil, uc.storeErr("list: consultar usuarios", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

// UpdateRole eleva o cambia el rol de un usuario. Es la única vía de obtener
// un rol distinto de "user" y está restringida a admin en el router.
func (uc *AuthUseCase) UpdateRole(userID, role string) error {
	if !entity.ValidRole(role) {
		return fmt.Errorf("%w: rol desconocido", domain.ErrInvalidInput)
	}
	if err := uc.users.UpdateRole(userID, role); err != nil {
		return uc.storeErr("update role: actualizar usuario", err)
	}
	return nil
}

// setPassword aplica el pipeline completo de mutación de contraseña:
// hash nuevo, passwordChangedAt (1s en el pasado para no pisar el iat del JWT
// recién emitido) y limpieza del token de reset. Persiste con el save completo.
func (uc *AuthUseCase) setPassword(user *entity.User, plain string) error {
	hash, err := uc.hasher.Hash(plain)
	if err != nil {
		return fmt.Errorf("hashear contraseña: %w", err)
	}
	changedAt := time.Now().Add(-time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.ClearResetToken()

	if err := uc.users.Update(user); err != nil {
		return uc.storeErr("guardar contraseña", err)
	}
	return nil
}

// issueSession emite la credencial de sesión firmada para el usuario.
func (uc *AuthUseCase) issueSession(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, uc.cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("emitir sesión: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

// SessionTTL expone el TTL configurado (la capa HTTP lo necesita para la cookie).
func (uc *AuthUseCase) SessionTTL() time.Duration {
	return uc.cfg.SessionTTL
}

// storeErr colapsa cualquier fallo del almacenamiento en ErrStoreUnavailable,
// dejando el detalle solo en el log. Los sentinelas de dominio pasan tal cual.
func (uc *AuthUseCase) storeErr(op string, err error) error {
	if isDomainErr(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("fallo del almacenamiento")
	return domain.ErrStoreUnavailable
}

func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		domain.ErrEmailAlreadyExists, domain.ErrNoSuchUser, domain.ErrInvalidInput,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(in dto.SignupRequest, email string) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	}
	if !govalidator.IsEmail(email) {
		return fmt.Errorf("%w: email no válido", domain.ErrInvalidInput)
	}
	return validateNewPassword(in.Password, in.PasswordConfirm)
}

func validateNewPassword(pass, confirm string) error {
	if len(pass) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	}
	if pass != confirm {
		return fmt.Errorf("%w: la confirmación no coincide con la contraseña", domain.ErrInvalidInput)
	}
	return nil
}
