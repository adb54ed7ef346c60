package services

import (
	"errors"

	"proshop/internal/apperr"
	"proshop/internal/domain"
	"proshop/internal/repos"
)

type UserService struct {
	Users *repos.UserRepo
}

func NewUserService(users *repos.UserRepo) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) load(id string) (*domain.User, error) {
	u, err := s.Users.ByID(id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, apperr.NotFound(MsgUserNotFound)
		}
		return nil, apperr.Wrap(err)
	}
	return u, nil
}

func (s *UserService) Profile(id string) (*domain.User, error) { return s.load(id) }

// UpdateProfile applies the owner's partial update; the admin flag is not
// part of ProfileUpdate and so can never change here.
func (s *UserService) UpdateProfile(id string, upd domain.ProfileUpdate) (*domain.User, error) {
	u, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(u); err != nil {
		return nil, apperr.Wrap(err)
	}
	if err := s.Users.Update(u); err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

func (s *UserService) List() ([]domain.User, error) {
	users, err := s.Users.List()
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return users, nil
}

func (s *UserService) Get(id string) (*domain.User, error) { return s.load(id) }

// Delete removes a non-admin user. Admin records are refused and left intact.
func (s *UserService) Delete(id string) (*domain.User, error) {
	u, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin {
		return u, apperr.BadRequest(MsgCannotDelete)
	}
	if err := s.Users.Delete(u.ID); err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

func (s *UserService) AdminUpdate(id string, upd domain.AdminUpdate) (*domain.User, error) {
	u, err := s.load(id)
	if err != nil {
		return nil, err
	}
	upd.Apply(u)
	if err := s.Users.Update(u); err != nil {
		return nil, storeErr(err)
	}
	return u, nil
}

// EnsureAdmin creates an admin account for email, or promotes and resets the
// password of the existing one. It reports whether a new record was created.
func (s *UserService) EnsureAdmin(name, email, password string) (*domain.User, bool, error) {
	u, err := s.Users.ByEmail(email)
	switch {
	case errors.Is(err, repos.ErrNotFound):
		if password == "" {
			return nil, false, apperr.BadRequest(MsgInvalidData)
		}
		u = &domain.User{Name: name, Email: email, IsAdmin: true}
		if err := u.SetPassword(password); err != nil {
			return nil, false, apperr.Wrap(err)
		}
		if err := s.Users.Create(u); err != nil {
			return nil, false, storeErr(err)
		}
		return u, true, nil
	case err != nil:
		return nil, false, apperr.Wrap(err)
	}

	u.IsAdmin = true
	if name != "" {
		u.Name = name
	}
	if password != "" {
		if err := u.SetPassword(password); err != nil {
			return nil, false, apperr.Wrap(err)
		}
	}
	if err := s.Users.Update(u); err != nil {
		return nil, false, storeErr(err)
	}
	return u, false, nil
}
