package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/StrayFurther/TimeTrack/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = "id, user_name, email, password_hash, role, profile_pic, created_at, updated_at"

// UserRepository handles user persistence against the ttusers table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO ttusers (user_name, email, password_hash, role) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, user.UserName, user.Email, user.PasswordHash, string(user.Role))
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM ttusers WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM ttusers WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// ExistsByEmail reports whether a user with the given email is registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM ttusers WHERE email = ?`, email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update persists user name, password hash, role, and profile picture for an
// existing user.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE ttusers SET user_name = ?, password_hash = ?, role = ?, profile_pic = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, user.UserName, user.PasswordHash, string(user.Role), user.ProfilePic, user.ID)
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// Zero rows can also mean a no-op update of identical values, but
		// callers always load the user first, so treat it as missing.
		if _, err := r.GetByID(ctx, user.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var role string
	var profilePic sql.NullString

	err := row.Scan(
		&user.ID, &user.UserName, &user.Email, &user.PasswordHash,
		&role, &profilePic, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = model.Role(role)
	user.ProfilePic = profilePic.String
	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
