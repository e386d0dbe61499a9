package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/serr"
)

// HTTPCreatePrompt returns a HandlerFunc that parses and runs a line of input
// against the console and records it in the history.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreatePrompt() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreatePrompt)
}

func (api API) epCreatePrompt(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var promptReq PromptRequest
	if err := parseJSON(req, &promptReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	p, err := api.Backend.RunPrompt(req.Context(), user.ID, promptReq.Text)
	if err != nil {
		if r, ok := syntaxErrorResult(err, "user '%s' prompt %q", user.Username, promptReq.Text); ok {
			return r
		} else if errors.Is(err, serr.ErrExecution) {
			return result.Err(http.StatusUnprocessableEntity, err.Error(), "user '%s' prompt %q: %s", user.Username, promptReq.Text, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(promptModel(p), "user '%s' ran %q", user.Username, p.Text)
}

// HTTPGetAllPrompts returns a HandlerFunc that lists the prompt history. Admin
// users get every prompt; other users get only their own.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllPrompts() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllPrompts)
}

func (api API) epGetAllPrompts(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	history, err := api.Backend.GetPrompts(req.Context(), user)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]PromptModel, len(history))
	for i := range history {
		resp[i] = promptModel(history[i])
	}

	return result.OK(resp, "user '%s' got %d prompts", user.Username, len(resp))
}

// HTTPGetPrompt returns a HandlerFunc that gets one entry of the prompt
// history. Users other than admins may only get their own prompts.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the prompt and the logged-in user of the client making the
// request.
func (api API) HTTPGetPrompt() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetPrompt)
}

func (api API) epGetPrompt(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	p, err := api.Backend.GetPrompt(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if p.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get prompt of user %s: forbidden", user.Username, user.Role, api.describeUser(req, p.UserID))
	}

	return result.OK(promptModel(p), "user '%s' got prompt %s", user.Username, id)
}
