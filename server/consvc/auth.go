package consvc

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login checks username and password against the stored account and, if they
// match, records the login time and returns the account.
//
// The returned error, if non-nil, will match serr.ErrBadCredentials if there is
// no such user or the password is wrong, and serr.ErrDB if there was an
// unexpected problem with the DB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.User, error) {
	user, err := svc.DB.Users().GetByUsername(ctx, username)
	if errors.Is(err, dao.ErrNotFound) {
		return dao.User{}, serr.ErrBadCredentials
	} else if err != nil {
		return dao.User{}, serr.WrapDB("", err)
	}

	if err := checkPassword(user.Password, password); err != nil {
		return dao.User{}, err
	}

	return svc.stamp(ctx, user.ID, func(u *dao.User) { u.LastLoginTime = time.Now() })
}

// Logout records that the user with the given ID logged out, which makes every
// token issued to them before now invalid. Returns the updated user.
//
// The returned error, if non-nil, will match serr.ErrNotFound if the user
// doesn't exist and serr.ErrDB if there was an unexpected problem with the DB.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.User, error) {
	return svc.stamp(ctx, who, func(u *dao.User) { u.LastLogoutTime = time.Now() })
}

// stamp applies set to the stored user with the given ID and saves it.
func (svc Service) stamp(ctx context.Context, id uuid.UUID, set func(u *dao.User)) (dao.User, error) {
	user, err := svc.DB.Users().GetByID(ctx, id)
	if err != nil {
		return dao.User{}, usersError(err, "could not get user")
	}

	set(&user)

	updated, err := svc.DB.Users().Update(ctx, id, user)
	if err != nil {
		return dao.User{}, usersError(err, "could not update user")
	}
	return updated, nil
}

// checkPassword gives serr.ErrBadCredentials if given does not match the
// stored base64 bcrypt hash.
func checkPassword(stored, given string) error {
	hash, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return serr.New("stored password is corrupt", err)
	}

	err = bcrypt.CompareHashAndPassword(hash, []byte(given))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return serr.ErrBadCredentials
	} else if err != nil {
		return serr.New("could not check password", err)
	}
	return nil
}
