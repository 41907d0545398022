package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Account privilege levels. Admins may use the setrole tool; everyone
// else is a player.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// ValidRole reports whether role names a known privilege level.
func ValidRole(role string) bool {
	return role == RolePlayer || role == RoleAdmin
}

// Account is a registered player login. One account owns any number of
// creatures.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

var (
	// ErrAccountNotFound is returned when a lookup matches no account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when registering a taken username.
	ErrAccountExists = errors.New("account already exists")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRole is returned for an unrecognised role string.
	ErrInvalidRole = errors.New("invalid role")
)

const accountColumns = "id, username, password_hash, role, created_at"

// AccountRepository persists accounts in Postgres.
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository returns a repository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	return a, err
}

// Create registers a new account, storing a bcrypt hash of password.
//
// Precondition: username and password must be non-empty.
// Postcondition: Returns the stored Account with ID and CreatedAt
// filled in, or ErrAccountExists if the username is taken.
func (r *AccountRepository) Create(ctx context.Context, username, password string) (Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return Account{}, fmt.Errorf("hashing password: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO accounts (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING `+accountColumns,
		username, hash,
	)
	a, err := scanAccount(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Account{}, ErrAccountExists
		}
		return Account{}, fmt.Errorf("inserting account: %w", err)
	}
	return a, nil
}

// GetByUsername looks up an account by its login name.
//
// Postcondition: Returns the Account or ErrAccountNotFound.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = $1`,
		username,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("querying account: %w", err)
	}
	return a, nil
}

// Authenticate checks a username/password pair.
//
// Postcondition: Returns the Account on success, ErrAccountNotFound
// for an unknown username, or ErrInvalidCredentials for a bad password.
func (r *AccountRepository) Authenticate(ctx context.Context, username, password string) (Account, error) {
	a, err := r.GetByUsername(ctx, username)
	if err != nil {
		return Account{}, err
	}
	if !CheckPassword(password, a.PasswordHash) {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// SetRole changes an account's privilege level.
//
// Precondition: role must pass ValidRole.
func (r *AccountRepository) SetRole(ctx context.Context, accountID int64, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET role = $1 WHERE id = $2`,
		role, accountID,
	)
	if err != nil {
		return fmt.Errorf("updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// HashPassword bcrypt-hashes a plaintext password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches a stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// isDuplicateKeyError matches SQLSTATE 23505 (unique_violation).
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
