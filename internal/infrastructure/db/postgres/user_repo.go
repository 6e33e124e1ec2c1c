package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- row mapping ----------

type userRow struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     string
	Role             string
	UserType         string
	Image            sql.NullString
	Verified         bool
	SavedWorkspaces  []byte
	ResetCode        sql.NullString
	ResetCodeExpires sql.NullTime
	CreatedAt        time.Time
}

const userColumns = `id, email, name, password_hash, role, user_type, image, verified, saved_workspaces, reset_code, reset_code_expires, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Email,
		&ur.Name,
		&ur.PasswordHash,
		&ur.Role,
		&ur.UserType,
		&ur.Image,
		&ur.Verified,
		&ur.SavedWorkspaces,
		&ur.ResetCode,
		&ur.ResetCodeExpires,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	var saved []string
	if len(ur.SavedWorkspaces) > 0 {
		// Malformed rows degrade to an empty list rather than failing reads.
		_ = json.Unmarshal(ur.SavedWorkspaces, &saved)
	}
	u := domain.User{
		ID:              ur.ID,
		Email:           ur.Email,
		Name:            ur.Name,
		PasswordHash:    ur.PasswordHash,
		Role:            ur.Role,
		UserType:        ur.UserType,
		Image:           ur.Image.String,
		Verified:        ur.Verified,
		SavedWorkspaces: saved,
		CreatedAt:       ur.CreatedAt,
	}
	if ur.ResetCode.Valid {
		u.ResetCode = ur.ResetCode.String
	}
	if ur.ResetCodeExpires.Valid {
		u.ResetCodeExpires = ur.ResetCodeExpires.Time
	}
	return u
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ---------- auth.UserStore ----------

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	q := `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) FindByEmailOrName(ctx context.Context, email, name string) (domain.User, error) {
	if email == "" && name == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	q := `
SELECT ` + userColumns + `
FROM users
WHERE email = $1 OR name = $2
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, email, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	q := `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.Name == "" {
		return domain.User{}, domain.ErrMissingField("name")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = string(domain.RoleUser)
	}
	if u.UserType == "" {
		u.UserType = domain.DefaultUserType
	}

	saved, err := json.Marshal(u.SavedWorkspaces)
	if err != nil {
		return domain.User{}, domain.ErrInternal(err)
	}

	q := `
INSERT INTO users (id, email, name, password_hash, role, user_type, image, verified, saved_workspaces)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + userColumns + `;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.UserType, u.Image, u.Verified, saved,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrUserExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd auth.UserUpdate) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	sets := make([]string, 0, 6)
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.UserType != nil {
		add("user_type", *upd.UserType)
	}
	if upd.Image != nil {
		add("image", *upd.Image)
	}
	if upd.Verified != nil {
		add("verified", *upd.Verified)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	q := `
UPDATE users
SET ` + strings.Join(sets, ", ") + `
WHERE id = $1
RETURNING ` + userColumns + `;
`
	ur, err := scanUserRow(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrUserExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	q := `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		ur, err := scanUserRow(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, toDomainUser(ur))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrMissingField("id")
	}

	const q = `DELETE FROM users WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) SetResetCode(ctx context.Context, userID, code string, expires time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if code == "" {
		return domain.ErrMissingField("reset_code")
	}

	const q = `
UPDATE users
SET reset_code = $2,
    reset_code_expires = $3
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, code, expires)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// CompleteReset installs newHash and clears the challenge in a single
// conditional write. A stale or already-consumed code matches no row.
func (r *UserRepo) CompleteReset(ctx context.Context, userID, newHash, code string, now time.Time) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, domain.ErrMissingField("user_id")
	}
	if newHash == "" {
		return false, domain.ErrMissingField("password_hash")
	}

	const q = `
UPDATE users
SET password_hash = $2,
    reset_code = NULL,
    reset_code_expires = NULL
WHERE id = $1
  AND reset_code = $3
  AND reset_code_expires > $4;
`
	res, err := r.db.ExecContext(ctx, q, userID, newHash, code, now)
	if err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
