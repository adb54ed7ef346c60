package repos

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"proshop/internal/domain"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidData    = errors.New("invalid user data")
)

const userCols = `id,name,email,password_hash,is_admin,created_at,updated_at`

// timestamps sort lexically in this layout
const tsLayout = "2006-01-02T15:04:05.000000Z07:00"

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// List returns every user in creation order.
func (r *UserRepo) List() ([]domain.User, error) {
	users := []domain.User{}
	if err := r.DB.Select(&users, `SELECT `+userCols+` FROM users ORDER BY created_at, rowid`); err != nil {
		return nil, err
	}
	return users, nil
}

// Create assigns an id and timestamps to u and inserts it.
func (r *UserRepo) Create(u *domain.User) error {
	now := time.Now().UTC().Format(tsLayout)
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.DB.NamedExec(`INSERT INTO users(`+userCols+`)
		VALUES(:id,:name,:email,:password_hash,:is_admin,:created_at,:updated_at)`, u)
	if err != nil {
		u.ID = ""
		return mapErr(err)
	}
	return nil
}

// Update persists name, email, hash and admin flag of an existing user.
func (r *UserRepo) Update(u *domain.User) error {
	u.UpdatedAt = time.Now().UTC().Format(tsLayout)
	res, err := r.DB.NamedExec(`UPDATE users
		SET name=:name, email=:email, password_hash=:password_hash, is_admin=:is_admin, updated_at=:updated_at
		WHERE id=:id`, u)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(id string) error {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return ErrDuplicateEmail
	case strings.Contains(err.Error(), "CHECK constraint failed"),
		strings.Contains(err.Error(), "NOT NULL constraint failed"):
		return ErrInvalidData
	}
	return err
}
