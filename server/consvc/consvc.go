// Package consvc has services for interacting with the TunaCon server backend
// decoupled from the API that accesses it.
package consvc

import (
	"encoding/base64"

	"github.com/dekarrin/tunacon/internal/builtin"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/serr"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost used when a Service does not give
// one.
const DefaultPasswordCost = 14

// Service performs the actions requested of the TunaCon server. Every client
// shares the console in Env; accounts and prompt history are kept in DB.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB and a console to Env before attempting to use it.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	// Env is the console that prompts are parsed and run against.
	Env *builtin.Env

	// PasswordCost is the bcrypt cost of new password hashes. If 0,
	// DefaultPasswordCost is used.
	PasswordCost int
}

func (svc Service) hashPassword(password string) (string, error) {
	cost := svc.PasswordCost
	if cost == 0 {
		cost = DefaultPasswordCost
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return "", serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return "", serr.New("password could not be encrypted", err)
	}

	return base64.StdEncoding.EncodeToString(passHash), nil
}
