package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinelane/ticketing/internal/utils"
)

// StaffAccount mirrors the 'staff_accounts' table. These are the box
// office operators allowed to mutate the catalog; role is ADMIN or STAFF.
type StaffAccount struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

type StaffRepo struct{ DB *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a staff account and returns its ID.
func (r *StaffRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO staff_accounts (email, password_hash, role) VALUES (?,?,?)",
		email, hash, role)
	if err != nil {
		if isDuplicateErr(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (StaffAccount, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a StaffAccount
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, role, is_active FROM staff_accounts WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive)
	return a, err
}

// GetByID fetches an account by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (StaffAccount, error) {
	var a StaffAccount
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, email, password_hash, role, is_active FROM staff_accounts WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive)
	return a, err
}

// isDuplicateErr matches unique violations for both supported drivers:
// MySQL error 1062 and SQLite's "UNIQUE constraint failed".
func isDuplicateErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
