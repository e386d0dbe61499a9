package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacon/server/consvc"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/serr"
	"github.com/google/uuid"
)

// Every user endpoint needs the logged-in user of the client in the request
// context and gives an HTTP-500 if it is missing. Endpoints on a single user
// also need the "id" URI parameter.

// HTTPGetAllUsers returns a HandlerFunc that lists every account. Only admins
// may use it.
func (api API) HTTPGetAllUsers() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllUsers)
}

func (api API) epGetAllUsers(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) list users: forbidden", user.Username, user.Role)
	}

	users, err := api.Backend.GetAllUsers(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]UserModel, len(users))
	for i := range users {
		resp[i] = userModel(users[i])
	}
	return result.OK(resp, "user '%s' listed %d users", user.Username, len(resp))
}

// HTTPCreateUser returns a HandlerFunc that adds an account. Only admins may
// use it. Accounts created without a role are unverified.
func (api API) HTTPCreateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateUser)
}

func (api API) epCreateUser(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", user.Username, user.Role)
	}

	body, role, err := readNewUser(req)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	created, err := api.Backend.CreateUser(req.Context(), body.Username, body.Password, body.Email, role)
	if err != nil {
		return userErrorResult(err)
	}

	resp := userModel(created)
	return result.Created(resp, "user '%s' created user '%s' (%s)", user.Username, resp.Username, resp.ID)
}

// HTTPGetUser returns a HandlerFunc that gives one account. Users may get
// themselves; only admins may get anyone else.
func (api API) HTTPGetUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetUser)
}

func (api API) epGetUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if forbidden, ok := api.requireSelfOrAdmin(req, user, id, "get"); !ok {
		return forbidden
	}

	found, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		return userErrorResult(err)
	}
	return result.OK(userModel(found), "user '%s' got %s", user.Username, whom(user, found))
}

// HTTPUpdateUser returns a HandlerFunc that changes an account. Only the
// properties sent as {"u": true, "v": NEW_VALUE} are changed. Users may update
// themselves; only admins may update anyone else or change a role.
func (api API) HTTPUpdateUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epUpdateUser)
}

func (api API) epUpdateUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if forbidden, ok := api.requireSelfOrAdmin(req, user, id, "update"); !ok {
		return forbidden
	}

	var updateReq UserUpdateRequest
	if err := parseJSON(req, &updateReq); err != nil {
		if errors.Is(err, serr.ErrBodyUnmarshal) {
			var plain UserModel
			if parseJSON(req, &plain) == nil {
				return result.BadRequest("updated fields must be objects with keys {'u': true, 'v': NEW_VALUE}", "request is UserModel, not UserUpdateRequest")
			}
		}
		return result.BadRequest(err.Error(), err.Error())
	}

	if updateReq.Role.Update && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) change role: forbidden", user.Username, user.Role)
	}
	changes, err := updateReq.changes()
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	updated, err := api.Backend.UpdateUser(req.Context(), id.String(), changes)
	if err != nil {
		return userErrorResult(err)
	}

	resp := userModel(updated)
	return result.OK(resp, "user '%s' updated %s", user.Username, whom(user, updated))
}

// HTTPReplaceUser returns a HandlerFunc that creates an account with the ID
// given in the URI. Only admins may use it, and the ID must not be in use.
func (api API) HTTPReplaceUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epReplaceUser)
}

func (api API) epReplaceUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) create user: forbidden", user.Username, user.Role)
	}

	body, role, err := readNewUser(req)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.ID != "" && body.ID != id.String() {
		return result.BadRequest("id: must be same as ID in URI", "body ID different from URI ID")
	}
	if _, err := api.Backend.GetUser(req.Context(), id.String()); err == nil {
		return result.Conflict("User with that ID already exists", "user %s already exists", id)
	}

	created, err := api.Backend.CreateUser(req.Context(), body.Username, body.Password, body.Email, role)
	if err != nil {
		return userErrorResult(err)
	}

	wantID := id.String()
	created, err = api.Backend.UpdateUser(req.Context(), created.ID.String(), consvc.UserChanges{ID: &wantID})
	if err != nil {
		return userErrorResult(err)
	}

	resp := userModel(created)
	return result.Created(resp, "user '%s' created user '%s' (%s)", user.Username, resp.Username, resp.ID)
}

// HTTPDeleteUser returns a HandlerFunc that removes an account. Users may
// delete themselves; only admins may delete anyone else. Deleting an account
// that does not exist succeeds.
func (api API) HTTPDeleteUser() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteUser)
}

func (api API) epDeleteUser(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if forbidden, ok := api.requireSelfOrAdmin(req, user, id, "delete"); !ok {
		return forbidden
	}

	deleted, err := api.Backend.DeleteUser(req.Context(), id.String())
	if errors.Is(err, serr.ErrNotFound) {
		return result.NoContent("user '%s' deleted user %s (no-op)", user.Username, id)
	} else if err != nil {
		return userErrorResult(err)
	}

	return result.NoContent("user '%s' deleted %s", user.Username, whom(user, deleted))
}

// requireSelfOrAdmin checks that user may do op to the account with the given
// ID. If not, the returned Result is the response to give.
func (api API) requireSelfOrAdmin(req *http.Request, user dao.User, id uuid.UUID, op string) (result.Result, bool) {
	if id == user.ID || user.Role == dao.Admin {
		return result.Result{}, true
	}
	return result.Forbidden("user '%s' (role %s) %s user %s: forbidden", user.Username, user.Role, op, api.describeUser(req, id)), false
}

// describeUser gives the username of the user with the given ID for use in
// log messages, or the ID itself if there is no such user.
func (api API) describeUser(req *http.Request, id uuid.UUID) string {
	other, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		return id.String()
	}
	return "'" + other.Username + "'"
}

// whom describes target from the point of view of actor for log messages.
func whom(actor, target dao.User) string {
	if actor.ID == target.ID {
		return "self"
	}
	return "user '" + target.Username + "'"
}

// readNewUser reads the body of a request that creates an account.
func readNewUser(req *http.Request) (UserModel, dao.Role, error) {
	var body UserModel
	if err := parseJSON(req, &body); err != nil {
		return body, dao.Unverified, err
	}
	if body.Username == "" {
		return body, dao.Unverified, errors.New("username: property is empty or missing from request")
	}
	if body.Password == "" {
		return body, dao.Unverified, errors.New("password: property is empty or missing from request")
	}

	if body.Role == "" {
		return body, dao.Unverified, nil
	}
	role, err := dao.ParseRole(body.Role)
	if err != nil {
		return body, dao.Unverified, errors.New("role: " + err.Error())
	}
	return body, role, nil
}

// changes converts the request to the changes the service applies.
func (ur UserUpdateRequest) changes() (consvc.UserChanges, error) {
	var ch consvc.UserChanges

	if ur.ID.Update {
		ch.ID = &ur.ID.Value
	}
	if ur.Username.Update {
		ch.Username = &ur.Username.Value
	}
	if ur.Password.Update {
		ch.Password = &ur.Password.Value
	}
	if ur.Email.Update {
		ch.Email = &ur.Email.Value
	}
	if ur.Role.Update {
		role, err := dao.ParseRole(ur.Role.Value)
		if err != nil {
			return ch, errors.New("role: " + err.Error())
		}
		ch.Role = &role
	}

	return ch, nil
}

// userErrorResult gives the response for an error from the account service.
func userErrorResult(err error) result.Result {
	switch {
	case errors.Is(err, serr.ErrNotFound):
		return result.NotFound()
	case errors.Is(err, serr.ErrAlreadyExists):
		return result.Conflict(err.Error(), err.Error())
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), err.Error())
	default:
		return result.InternalServerError(err.Error())
	}
}
