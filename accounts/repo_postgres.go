package accounts

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver
	pkgerrors "github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

var _ Repo = (*PostgresRepo)(nil)

// PostgresRepo implements Repo on PostgreSQL via the pgx stdlib driver.
type PostgresRepo struct {
	db *sql.DB
}

// OpenPostgres connects to the database, runs pending migrations and
// returns a ready repository.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "accounts.OpenPostgres sql.Open")
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "accounts.OpenPostgres ping")
	}
	if err := runMigrations(ctx, db); err != nil {
		return nil, err
	}
	return NewPostgresRepo(db), nil
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return pkgerrors.Wrap(err, "accounts.runMigrations SetDialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return pkgerrors.Wrap(err, "accounts.runMigrations UpContext")
	}
	return nil
}

const accountColumns = `id, email, display_name, google_id, password_hash, refresh_token, role, created_at, last_login`

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, strings.ToLower(email))
	return scanAccount(row)
}

func (r *PostgresRepo) GetByGoogleID(ctx context.Context, googleID string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE google_id = $1`, googleID)
	return scanAccount(row)
}

func (r *PostgresRepo) Create(ctx context.Context, account *Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.Role == "" {
		account.Role = RoleStandard
	}
	account.Email = strings.ToLower(account.Email)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, display_name, google_id, password_hash, refresh_token, role)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`,
		account.ID, account.Email, account.DisplayName, account.GoogleID,
		account.PasswordHash, account.RefreshToken, account.Role,
	)
	if err != nil {
		return normalizePGError(err)
	}
	return nil
}

// UpsertByGoogleID relies on the unique index on google_id: concurrent
// callbacks for the same subject race on a single row and the loser's
// insert turns into the refresh-token update.
func (r *PostgresRepo) UpsertByGoogleID(ctx context.Context, profile GoogleProfile) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO accounts (id, email, display_name, google_id, refresh_token, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (google_id) WHERE google_id IS NOT NULL DO UPDATE
		 SET refresh_token = CASE
		     WHEN EXCLUDED.refresh_token <> '' THEN EXCLUDED.refresh_token
		     ELSE accounts.refresh_token
		 END
		 RETURNING `+accountColumns,
		uuid.New().String(), strings.ToLower(profile.Email), profile.DisplayName,
		profile.GoogleID, profile.RefreshToken, RoleStandard,
	)
	return scanAccount(row)
}

func (r *PostgresRepo) SetRefreshToken(ctx context.Context, id, refreshToken string) error {
	return r.exec(ctx, id,
		`UPDATE accounts SET refresh_token = $2 WHERE id = $1`, refreshToken)
}

func (r *PostgresRepo) SetLastLogin(ctx context.Context, id string) error {
	return r.exec(ctx, id,
		`UPDATE accounts SET last_login = now() WHERE id = $1`)
}

func (r *PostgresRepo) exec(ctx context.Context, id, query string, args ...any) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	res, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return normalizePGError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var (
		a            Account
		googleID     sql.NullString
		refreshToken sql.NullString
		lastLogin    sql.NullTime
	)
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &googleID, &a.PasswordHash,
		&refreshToken, &a.Role, &a.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, normalizePGError(err)
	}
	a.GoogleID = googleID.String
	a.RefreshToken = refreshToken.String
	if lastLogin.Valid {
		a.LastLogin = lastLogin.Time
	}
	return &a, nil
}

// normalizePGError folds driver error shapes into the repo's closed error
// kinds so callers never have to know about SQLSTATEs.
func normalizePGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateEmail
	}
	return pkgerrors.Wrap(err, "accounts: db error")
}
