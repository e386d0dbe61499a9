// Package middle contains middleware for use with the TunaCon server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthUser
)

// AuthHandler is middleware that reads the bearer token of a request and looks
// up the user it belongs to.
//
// AuthUser and AuthLoggedIn are set in the request context before it is
// passed on. When auth is required, a request without a valid token gets an
// HTTP-401 and is not passed on at all.
type AuthHandler struct {
	db            dao.UserRepository
	secret        []byte
	required      bool
	defaultUser   dao.User
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, err := ah.authenticate(req)
	loggedIn := err == nil
	if !loggedIn {
		if ah.required {
			time.Sleep(ah.unauthedDelay)
			result.Unauthorized("", err.Error()).WriteResponse(w, req)
			return
		}
		user = ah.defaultUser
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthUser, user)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

// authenticate gives the user that the bearer token of req was issued to.
func (ah *AuthHandler) authenticate(req *http.Request) (dao.User, error) {
	tok, err := token.Get(req)
	if err != nil {
		return dao.User{}, err
	}
	return token.Validate(req.Context(), tok, ah.secret, ah.db)
}

// RequireAuth returns Middleware that rejects requests without a valid token.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return authMiddleware(AuthHandler{
		db:            db,
		secret:        secret,
		unauthedDelay: unauthDelay,
		required:      true,
	})
}

// OptionalAuth returns Middleware that passes every request on, using
// defaultUser as the AuthUser of requests without a valid token.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return authMiddleware(AuthHandler{
		db:            db,
		secret:        secret,
		unauthedDelay: unauthDelay,
		defaultUser:   defaultUser,
	})
}

func authMiddleware(proto AuthHandler) Middleware {
	return func(next http.Handler) http.Handler {
		ah := proto
		ah.next = next
		return &ah
	}
}
