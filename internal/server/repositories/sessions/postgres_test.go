package sessions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour).UTC()
	created := time.Now().UTC()
	q := `(?s)^\s*INSERT\s+INTO\s+sessions\s*\(id,\s*account_id,\s*token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`

	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "a1", "tok123", exp).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	s := &models.Session{AccountID: "a1", Token: "tok123", ExpiresAt: exp}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !s.CreatedAt.Equal(created) {
		t.Fatalf("created_at not populated: %v", s.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+sessions`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "sessions_token_key"})

	err := repo.Create(context.Background(), &models.Session{ID: "s1", AccountID: "a1", Token: "dup"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+sessions`).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.Session{AccountID: "a1", Token: "tok"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFind_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour).UTC()
	q := `(?s)^\s*SELECT\s+id,\s*account_id,\s*token,\s*expires_at,\s*created_at\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "token", "expires_at", "created_at"}).
			AddRow("s1", "a1", "tok", exp, exp.Add(-time.Hour)))

	got, err := repo.Find(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccountID != "a1" || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestFind_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+sessions`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFind_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+sessions`).WithArgs("tok").WillReturnError(errors.New("db err"))

	_, err := repo.Find(context.Background(), "tok")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^DELETE\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1$`
	mock.ExpectExec(q).WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs("tok").WillReturnError(errors.New("db err"))

	if err := repo.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("missing token must not be an error, got %v", err)
	}
	if err := repo.Delete(context.Background(), "tok"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDeleteByAccount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+sessions\s+WHERE\s+account_id\s*=\s*\$1$`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByAccount(context.Background(), "a1")
	if err != nil || n != 3 {
		t.Fatalf("got (%d, %v), want (3, nil)", n, err)
	}
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`^DELETE\s+FROM\s+sessions\s+WHERE\s+expires_at\s*<=\s*\$1$`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil || n != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", n, err)
	}
}

func TestCountActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`^SELECT\s+COUNT\(\*\)\s+FROM\s+sessions\s+WHERE\s+expires_at\s*>\s*\$1$`).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`COUNT`).WillReturnError(errors.New("db err"))

	n, err := repo.CountActive(context.Background(), now)
	if err != nil || n != 4 {
		t.Fatalf("got (%d, %v), want (4, nil)", n, err)
	}
	if _, err := repo.CountActive(context.Background(), now); err == nil {
		t.Fatalf("expected error")
	}
}
