package consvc

import (
	"context"
	"errors"
	"net/mail"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/serr"
	"github.com/google/uuid"
)

// UserChanges is a set of changes to make to a user account. Nil fields are
// left as they are. An empty Email removes the email address.
type UserChanges struct {
	ID       *string
	Username *string
	Password *string
	Email    *string
	Role     *dao.Role
}

// GetAllUsers returns every user account in the order they were created.
func (svc Service) GetAllUsers(ctx context.Context) ([]dao.User, error) {
	users, err := svc.DB.Users().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return users, nil
}

// GetUser returns the user with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if no user with
// that ID exists, serr.ErrBadArgument if id is not a UUID, and serr.ErrDB for
// unexpected problems with the DB.
func (svc Service) GetUser(ctx context.Context, id string) (dao.User, error) {
	uuidID, err := parseUserID(id)
	if err != nil {
		return dao.User{}, err
	}

	user, err := svc.DB.Users().GetByID(ctx, uuidID)
	if err != nil {
		return dao.User{}, usersError(err, "could not get user")
	}
	return user, nil
}

// CreateUser adds a new account and returns it as it was stored. email may be
// empty.
//
// The returned error, if non-nil, will match serr.ErrAlreadyExists if the
// username is taken, serr.ErrBadArgument if one of the arguments is invalid,
// and serr.ErrDB for unexpected problems with the DB.
func (svc Service) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	if username == "" {
		return dao.User{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.User{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	user := dao.User{Username: username, Role: role}

	var err error
	if user.Email, err = parseEmail(email); err != nil {
		return dao.User{}, err
	}
	if err := svc.ensureUsernameFree(ctx, username); err != nil {
		return dao.User{}, err
	}
	if user.Password, err = svc.hashPassword(password); err != nil {
		return dao.User{}, err
	}

	user, err = svc.DB.Users().Create(ctx, user)
	if err != nil {
		return dao.User{}, usersError(err, "could not create user")
	}
	return user, nil
}

// UpdateUser applies changes to the user with the given ID in a single write
// and returns the result. Changing the password invalidates every token
// issued to the user.
//
// The returned error, if non-nil, will match serr.ErrAlreadyExists if the new
// ID or username is taken, serr.ErrNotFound if there is no user with that ID,
// serr.ErrBadArgument if one of the changes is invalid, and serr.ErrDB for
// unexpected problems with the DB.
func (svc Service) UpdateUser(ctx context.Context, id string, changes UserChanges) (dao.User, error) {
	curID, err := parseUserID(id)
	if err != nil {
		return dao.User{}, err
	}

	user, err := svc.DB.Users().GetByID(ctx, curID)
	if err != nil {
		return dao.User{}, usersError(err, "")
	}

	if changes.ID != nil {
		newID, err := parseUserID(*changes.ID)
		if err != nil {
			return dao.User{}, err
		}
		if newID != curID {
			if _, err := svc.DB.Users().GetByID(ctx, newID); err == nil {
				return dao.User{}, serr.New("a user with that ID already exists", serr.ErrAlreadyExists)
			} else if !errors.Is(err, dao.ErrNotFound) {
				return dao.User{}, serr.WrapDB("", err)
			}
		}
		user.ID = newID
	}
	if changes.Username != nil && *changes.Username != user.Username {
		if *changes.Username == "" {
			return dao.User{}, serr.New("username cannot be blank", serr.ErrBadArgument)
		}
		if err := svc.ensureUsernameFree(ctx, *changes.Username); err != nil {
			return dao.User{}, err
		}
		user.Username = *changes.Username
	}
	if changes.Email != nil {
		if user.Email, err = parseEmail(*changes.Email); err != nil {
			return dao.User{}, err
		}
	}
	if changes.Role != nil {
		user.Role = *changes.Role
	}
	if changes.Password != nil {
		if *changes.Password == "" {
			return dao.User{}, serr.New("password cannot be blank", serr.ErrBadArgument)
		}
		if user.Password, err = svc.hashPassword(*changes.Password); err != nil {
			return dao.User{}, err
		}
	}

	updated, err := svc.DB.Users().Update(ctx, curID, user)
	if err != nil {
		return dao.User{}, usersError(err, "could not update user")
	}
	return updated, nil
}

// DeleteUser removes the user with the given ID and returns them as they were
// just before removal.
func (svc Service) DeleteUser(ctx context.Context, id string) (dao.User, error) {
	uuidID, err := parseUserID(id)
	if err != nil {
		return dao.User{}, err
	}

	user, err := svc.DB.Users().Delete(ctx, uuidID)
	if err != nil {
		return dao.User{}, usersError(err, "could not delete user")
	}
	return user, nil
}

func (svc Service) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := svc.DB.Users().GetByUsername(ctx, username)
	if err == nil {
		return serr.New("a user with that username already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return serr.WrapDB("", err)
	}
	return nil
}

// usersError converts an error from the users repository to one the service
// gives to callers.
func usersError(err error, msg string) error {
	switch {
	case errors.Is(err, dao.ErrNotFound):
		return serr.New("user not found", serr.ErrNotFound)
	case errors.Is(err, dao.ErrConstraintViolation):
		return serr.New("a user with that ID or username already exists", serr.ErrAlreadyExists)
	default:
		return serr.WrapDB(msg, err)
	}
}

func parseUserID(id string) (uuid.UUID, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, serr.New("ID is not valid", serr.ErrBadArgument)
	}
	return uuidID, nil
}

func parseEmail(email string) (*mail.Address, error) {
	if email == "" {
		return nil, nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, serr.New("email is not valid", err, serr.ErrBadArgument)
	}
	return addr, nil
}
