package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/token"
)

// HTTPCreateToken returns a HandlerFunc that issues a fresh token to a client
// that is already logged in, so a session can continue past the lifetime of
// its first token.
//
// The request context must contain the logged-in user of the client making the
// request or the handler gives an HTTP-500.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	resp, err := api.issueToken(user)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.Created(resp, "user '%s' refreshed token until %s", user.Username, resp.Expires)
}

// issueToken signs a new JWT for user and gives the response that carries it
// back to the client.
func (api API) issueToken(user dao.User) (LoginResponse, error) {
	issued := time.Now()

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("could not generate JWT: %w", err)
	}

	return LoginResponse{
		Token:   tok,
		UserID:  user.ID.String(),
		Expires: issued.Add(token.Lifetime).UTC().Format(time.RFC3339),
	}, nil
}
