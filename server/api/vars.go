package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/serr"
)

// HTTPGetAllVars returns a HandlerFunc that lists every console variable.
func (api API) HTTPGetAllVars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllVars)
}

func (api API) epGetAllVars(req *http.Request) result.Result {
	all := api.Backend.GetAllVars(req.Context())

	resp := make([]VarModel, len(all))
	for i := range all {
		resp[i] = varModel(all[i].Name, all[i].Value)
	}

	return result.OK(resp, "got all %d variables", len(resp))
}

// HTTPGetVar returns a HandlerFunc that gets one console variable.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the name of the variable.
func (api API) HTTPGetVar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetVar)
}

func (api API) epGetVar(req *http.Request) result.Result {
	name := requireNameParam(req)

	v, err := api.Backend.GetVar(req.Context(), name)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound("no variable %q", name)
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(varModel(name, v), "got variable %q", name)
}

// HTTPSetVar returns a HandlerFunc that sets a console variable, creating it
// if needed. Guest and unverified users may not set variables.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the name of the variable and the logged-in user of the client making the
// request.
func (api API) HTTPSetVar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epSetVar)
}

func (api API) epSetVar(req *http.Request) result.Result {
	name := requireNameParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role < dao.Normal {
		return result.Forbidden("user '%s' (role %s) set variable: forbidden", user.Username, user.Role)
	}

	var setReq VarSetRequest
	if err := parseJSON(req, &setReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if setReq.Value == nil {
		return result.BadRequest("value: property is missing from request", "missing value")
	}

	if err := api.Backend.SetVar(req.Context(), name, *setReq.Value); err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(varModel(name, *setReq.Value), "user '%s' set variable %q", user.Username, name)
}

// HTTPDeleteVar returns a HandlerFunc that removes a console variable. Guest
// and unverified users may not remove variables.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the name of the variable and the logged-in user of the client making the
// request.
func (api API) HTTPDeleteVar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteVar)
}

func (api API) epDeleteVar(req *http.Request) result.Result {
	name := requireNameParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role < dao.Normal {
		return result.Forbidden("user '%s' (role %s) delete variable: forbidden", user.Username, user.Role)
	}

	if _, err := api.Backend.DeleteVar(req.Context(), name); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound("no variable %q", name)
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("user '%s' deleted variable %q", user.Username, name)
}
