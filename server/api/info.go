package api

import (
	"net/http"

	"github.com/dekarrin/tunacon/internal/builtin"
	"github.com/dekarrin/tunacon/internal/version"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
)

// HTTPGetInfo returns a HandlerFunc that describes the server and the console
// it serves. Logging in is not needed to use it.
//
// The request context must say whether the client is logged in or the handler
// gives an HTTP-500.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)
	env := api.Backend.Env

	resp := InfoModel{
		Commands:      env.Interp.Repository().Len(),
		Vars:          env.Vars.Len(),
		Enums:         env.Interp.EnumNames(),
		Actions:       builtin.ActionNames(),
		Authenticated: loggedIn,
	}
	resp.Version.Server = version.ServerCurrent
	resp.Version.TunaCon = version.Current

	if !loggedIn {
		return result.OK(resp, "unauthed client got API info")
	}
	user := req.Context().Value(middle.AuthUser).(dao.User)
	return result.OK(resp, "user '%s' got API info", user.Username)
}
