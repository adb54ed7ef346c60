package services

import (
	"errors"
	"sync"

	"proshop/internal/apperr"
	"proshop/internal/domain"
	"proshop/internal/repos"
)

const (
	MsgBadCreds     = "Invalid email or password"
	MsgUserExists   = "User already exists"
	MsgInvalidData  = "Invalid user data"
	MsgUserNotFound = "User not found"
	MsgCannotDelete = "Cannot delete admin user"
	MsgLoggedOut    = "Logged out successfully"
	MsgUserDeleted  = "User deleted successfully"
)

var ErrBadCreds = apperr.Unauthorized(MsgBadCreds)

var dummyUser = sync.OnceValue(func() *domain.User {
	u := &domain.User{}
	_ = u.SetPassword("proshop-unknown-account")
	return u
})

// burnHash compares password against a fixed hash at the current bcrypt cost.
var burnHash = func(password string) { dummyUser().MatchPassword(password) }

type AuthService struct {
	Users *repos.UserRepo
}

// Login returns the user owning email when password matches. Unknown email
// and wrong password fail identically.
func (s *AuthService) Login(email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			burnHash(password)
			return nil, ErrBadCreds
		}
		return nil, apperr.Wrap(err)
	}
	if !u.MatchPassword(password) {
		return nil, ErrBadCreds
	}
	return u, nil
}

// Register creates a non-admin user with a freshly hashed password.
func (s *AuthService) Register(name, email, password string) (*domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, apperr.BadRequest(MsgUserExists)
	} else if !errors.Is(err, repos.ErrNotFound) {
		return nil, apperr.Wrap(err)
	}
	if password == "" {
		return nil, apperr.BadRequest(MsgInvalidData)
	}

	u := &domain.User{Name: name, Email: email}
	if err := u.SetPassword(password); err != nil {
		return nil, apperr.Wrap(err)
	}
	if err := s.Users.Create(u); err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

// CurrentUser resolves the user a session token was issued for.
func (s *AuthService) CurrentUser(id string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apperr.NotFound(MsgUserNotFound)
		}
		return nil, apperr.Wrap(err)
	}
	return u, nil
}

// storeErr translates persistence failures on create/update into client errors.
func storeErr(err error) error {
	switch {
	case errors.Is(err, repos.ErrDuplicateEmail):
		return apperr.BadRequest(MsgUserExists)
	case errors.Is(err, repos.ErrInvalidData):
		return apperr.BadRequest(MsgInvalidData)
	case errors.Is(err, repos.ErrNotFound):
		return apperr.NotFound(MsgUserNotFound)
	}
	return apperr.Wrap(err)
}
