package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *UserRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "failed to create mock database")
	return db, mock, NewUserRepo(db)
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "name", "password_hash", "role", "user_type", "image",
		"verified", "saved_workspaces", "reset_code", "reset_code_expires", "created_at",
	})
}

func TestUserRepo_Create_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "a@b.c", "alice", "$2a$10$hash", "user", "individual", "", false, []byte("null")).
		WillReturnRows(userRows().AddRow(
			"u1", "a@b.c", "alice", "$2a$10$hash", "user", "individual", nil,
			false, []byte("[]"), nil, nil, createdAt,
		))

	got, err := repo.Create(context.Background(), domain.User{
		ID:           "u1",
		Email:        "a@b.c",
		Name:         "alice",
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, "user", got.Role)
	assert.Equal(t, "individual", got.UserType)
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_UniqueViolation(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), domain.User{
		ID: "u1", Email: "a@b.c", Name: "alice", PasswordHash: "h",
	})
	require.Error(t, err)
	assert.True(t, domain.Is(err, "user_exists"), "got %v", err)
}

func TestUserRepo_FindByEmail_Success(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	expires := time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
		WithArgs("a@b.c").
		WillReturnRows(userRows().AddRow(
			"u1", "a@b.c", "alice", "h", "user", "individual", "img.png",
			true, []byte(`["w1","w2"]`), "a1b2c3", expires, time.Now(),
		))

	got, err := repo.FindByEmail(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "img.png", got.Image)
	assert.True(t, got.Verified)
	assert.Equal(t, []string{"w1", "w2"}, got.SavedWorkspaces)
	assert.Equal(t, "a1b2c3", got.ResetCode)
	assert.Equal(t, expires, got.ResetCodeExpires)
}

func TestUserRepo_FindByEmail_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE email = \$1`).
		WithArgs("nobody@b.c").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@b.c")
	require.Error(t, err)
	assert.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

func TestUserRepo_FindByEmailOrName_MatchesEither(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE email = \$1 OR name = \$2`).
		WithArgs("a@b.c", "alice").
		WillReturnRows(userRows().AddRow(
			"u1", "other@b.c", "alice", "h", "user", "individual", nil,
			false, []byte("[]"), nil, nil, time.Now(),
		))

	got, err := repo.FindByEmailOrName(context.Background(), "a@b.c", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
}

func TestUserRepo_Update_SetsOnlyProvidedFields(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	name := "bob"
	mock.ExpectQuery(`UPDATE users\s+SET name = \$2\s+WHERE id = \$1`).
		WithArgs("u1", "bob").
		WillReturnRows(userRows().AddRow(
			"u1", "a@b.c", "bob", "h", "user", "individual", nil,
			false, []byte("[]"), nil, nil, time.Now(),
		))

	got, err := repo.Update(context.Background(), "u1", auth.UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Delete_NotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

func TestUserRepo_SetResetCode(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	expires := time.Now().Add(15 * time.Minute)
	mock.ExpectExec(`UPDATE users\s+SET reset_code = \$2`).
		WithArgs("u1", "a1b2c3", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetResetCode(context.Background(), "u1", "a1b2c3", expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CompleteReset_Matched(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`UPDATE users\s+SET password_hash = \$2,\s+reset_code = NULL`).
		WithArgs("u1", "newhash", "a1b2c3", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.CompleteReset(context.Background(), "u1", "newhash", "a1b2c3", now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUserRepo_CompleteReset_StaleCode(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`UPDATE users\s+SET password_hash = \$2,\s+reset_code = NULL`).
		WithArgs("u1", "newhash", "wrong0", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.CompleteReset(context.Background(), "u1", "newhash", "wrong0", now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepo_List_ReturnsAll(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users\s+ORDER BY created_at`).
		WillReturnRows(userRows().
			AddRow("u1", "a@b.c", "alice", "h", "user", "individual", nil, false, []byte("[]"), nil, nil, time.Now()).
			AddRow("u2", "b@b.c", "bob", "h", "admin", "individual", nil, false, []byte("[]"), nil, nil, time.Now()))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "admin", got[1].Role)
}
