package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// uniqueViolation código SQLSTATE de violación de constraint UNIQUE.
const uniqueViolation = "23505"

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Todas las SELECT llevan el predicado active = TRUE salvo el override *AnyStatus.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// columnas seleccionadas; password_hash solo cuando se pide explícitamente
// (queda como string vacío en caso contrario, nunca viaja por defecto).
const baseCols = `id, name, email, photo, role, password_changed_at,
	password_reset_digest, password_reset_expires, active, created_at, updated_at`

const colsWithPassword = baseCols + `, password_hash`

// Create persiste un nuevo usuario. Devuelve domain.ErrEmailAlreadyExists si el
// email ya existe (constraint UNIQUE sobre email).
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, photo, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.Name, user.Email, user.Photo, user.PasswordHash, user.Role,
		user.Active, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario activo por ID.
func (r *UserRepo) GetByID(id string, withPassword bool) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND active = TRUE`, cols(withPassword))
	return r.queryOne(query, withPassword, id)
}

// GetByEmail obtiene un usuario activo por email.
func (r *UserRepo) GetByEmail(email string, withPassword bool) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 AND active = TRUE`, cols(withPassword))
	return r.queryOne(query, withPassword, email)
}

// GetByEmailAnyStatus obtiene un usuario por email incluyendo inactivos.
// Único override del filtro de soft-delete; lo usa el registro para detectar
// cuentas desactivadas con el mismo email.
func (r *UserRepo) GetByEmailAnyStatus(email string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, baseCols)
	return r.queryOne(query, false, email)
}

// GetByResetDigest obtiene el usuario activo con ese digest de token de reset.
// La expiración la valida el use case (para responder siempre el mismo error).
func (r *UserRepo) GetByResetDigest(digest string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE password_reset_digest = $1 AND active = TRUE`, baseCols)
	return r.queryOne(query, false, digest)
}

// Update persiste el registro completo (save por el que pasan los cambios de contraseña).
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, photo = $4, password_hash = $5,
			role = $6, password_changed_at = $7, password_reset_digest = $8,
			password_reset_expires = $9, active = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.Name, user.Email, user.Photo, user.PasswordHash, user.Role,
		user.PasswordChangedAt, user.PasswordResetDigest, user.PasswordResetExpires,
		user.Active, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdateResetToken guarda o limpia solo los campos del token de reset (save parcial).
func (r *UserRepo) UpdateResetToken(id string, digest *string, expires *time.Time) error {
	query := `
		UPDATE users SET password_reset_digest = $2, password_reset_expires = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, digest, expires, time.Now())
	if err != nil {
		return fmt.Errorf("update reset token: %w", err)
	}
	return nil
}

// UpdateRole cambia el rol del usuario (acción administrativa).
func (r *UserRepo) UpdateRole(id, role string) error {
	query := `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1 AND active = TRUE`
	tag, err := r.pool.Exec(context.Background(), query, id, role, time.Now())
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoSuchUser
	}
	return nil
}

// Deactivate marca el usuario como inactivo (soft-delete).
func (r *UserRepo) Deactivate(id string) error {
	query := `UPDATE users SET active = FALSE, updated_at = $2 WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, time.Now())
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

// List lista usuarios activos con paginación.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users WHERE active = TRUE
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, baseCols)
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func cols(withPassword bool) string {
	if withPassword {
		return colsWithPassword
	}
	return baseCols
}

func (r *UserRepo) queryOne(query string, withPassword bool, arg any) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), query, arg)
	u, err := scanUser(row, withPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row, withPassword bool) (*entity.User, error) {
	var u entity.User
	dest := []any{
		&u.ID, &u.Name, &u.Email, &u.Photo, &u.Role, &u.PasswordChangedAt,
		&u.PasswordResetDigest, &u.PasswordResetExpires, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	}
	if withPassword {
		dest = append(dest, &u.PasswordHash)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
