package domain

import (
	"encoding/json"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used when hashing passwords.
var BcryptCost = 12

type User struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Hash      string `db:"password_hash"`
	IsAdmin   bool   `db:"is_admin"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// SetPassword replaces the stored hash with a fresh salted bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return err
	}
	u.Hash = string(h)
	return nil
}

// MatchPassword reports whether plain matches the stored hash.
func (u *User) MatchPassword(plain string) bool {
	if u.Hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(plain)) == nil
}

// UserView is the public shape returned by auth and profile endpoints.
type UserView struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// UserDetail is returned by the admin lookup; it never carries the hash.
type UserDetail struct {
	UserView
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UserRecord is the full stored document as served by the admin listing.
type UserRecord struct {
	UserDetail
	Password string `json:"password"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

func (u *User) Detail() UserDetail {
	return UserDetail{UserView: u.View(), CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func (u *User) Record() UserRecord {
	return UserRecord{UserDetail: u.Detail(), Password: u.Hash}
}

// ProfileUpdate is a partial update applied by the owner of the record.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// AdminUpdate is a partial update applied by an admin. Name and Email merge
// like ProfileUpdate. IsAdmin accepts any JSON value and is coerced by
// truthiness: false, 0, "", null or absent clear the flag.
type AdminUpdate struct {
	Name    *string         `json:"name"`
	Email   *string         `json:"email"`
	IsAdmin json.RawMessage `json:"isAdmin"`
}

// Apply merges the update into u and rehashes when a new password is given.
func (p ProfileUpdate) Apply(u *User) error {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil && *p.Password != "" {
		return u.SetPassword(*p.Password)
	}
	return nil
}

func (a AdminUpdate) Apply(u *User) {
	if a.Name != nil {
		u.Name = *a.Name
	}
	if a.Email != nil {
		u.Email = *a.Email
	}
	u.IsAdmin = truthy(a.IsAdmin)
}

func truthy(raw json.RawMessage) bool {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
