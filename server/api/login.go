package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/serr"
)

// HTTPCreateLogin returns a HandlerFunc that exchanges a username and password
// for a token. It does not need the client to be logged in.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var login LoginRequest
	if err := parseJSON(req, &login); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	switch {
	case login.Username == "":
		return result.BadRequest("user: property is empty or missing from request", "empty username")
	case login.Password == "":
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := api.Backend.Login(req.Context(), login.Username, login.Password)
	if errors.Is(err, serr.ErrBadCredentials) {
		return result.Unauthorized(serr.ErrBadCredentials.Error(), "user '%s': %s", login.Username, err.Error())
	} else if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp, err := api.issueToken(user)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.Created(resp, "user '%s' logged in", user.Username)
}

// HTTPDeleteLogin returns a HandlerFunc that logs a user out, which makes
// every token issued to them so far invalid. Users may log themselves out;
// only admins may log out anyone else.
//
// The request context must contain the logged-in user of the client and the
// "id" URI parameter must be set, or the handler gives an HTTP-500.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if forbidden, ok := api.requireSelfOrAdmin(req, user, id, "log out"); !ok {
		return forbidden
	}

	loggedOut, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		return userErrorResult(err)
	}
	return result.NoContent("user '%s' logged out %s", user.Username, whom(user, loggedOut))
}
