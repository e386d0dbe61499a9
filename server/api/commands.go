package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/serr"
)

// syntaxErrorResult gives an HTTP-400 pointing at the syntax error in err, if
// err contains one.
func syntaxErrorResult(err error, internalMsg string, v ...interface{}) (result.Result, bool) {
	var synErr *command.SyntaxError
	if !errors.As(err, &synErr) {
		return result.Result{}, false
	}

	args := append([]interface{}{internalMsg + ": %s"}, v...)
	args = append(args, synErr.Error())
	return result.SyntaxError(synErr.Message, synErr.Line, synErr.Column, synErr.SourceLineWithCursor(), args...), true
}

// HTTPGetAllCommands returns a HandlerFunc that lists every command of the
// console.
func (api API) HTTPGetAllCommands() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllCommands)
}

func (api API) epGetAllCommands(req *http.Request) result.Result {
	cmds, err := api.Backend.GetAllCommands(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]CommandModel, len(cmds))
	for i := range cmds {
		resp[i] = commandModel(cmds[i])
	}

	return result.OK(resp, "got all %d commands", len(resp))
}

// HTTPGetCommand returns a HandlerFunc that describes one command.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the name of the command.
func (api API) HTTPGetCommand() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetCommand)
}

func (api API) epGetCommand(req *http.Request) result.Result {
	name := requireNameParam(req)

	cmd, err := api.Backend.GetCommand(req.Context(), name)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound("no command %q", name)
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(commandModel(cmd), "got command %q", name)
}

// HTTPCreateCommand returns a HandlerFunc that compiles a scheme and registers
// it as a new command. Guest and unverified users may not define commands.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateCommand() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateCommand)
}

func (api API) epCreateCommand(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	if user.Role < dao.Normal {
		return result.Forbidden("user '%s' (role %s) define command: forbidden", user.Username, user.Role)
	}

	var defReq CommandDefineRequest
	if err := parseJSON(req, &defReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if defReq.Scheme == "" {
		return result.BadRequest("scheme: property is empty or missing from request", "empty scheme")
	}

	cmd, err := api.Backend.DefineCommand(req.Context(), defReq.Scheme, defReq.Action, defReq.Help)
	if err != nil {
		if r, ok := syntaxErrorResult(err, "user '%s' scheme %q", user.Username, defReq.Scheme); ok {
			return r
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(commandModel(cmd), "user '%s' defined command %q", user.Username, cmd.Name)
}
