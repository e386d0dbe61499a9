package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/builtin"
	"github.com/dekarrin/tunacon/internal/vars"
	"github.com/dekarrin/tunacon/server/consvc"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/dao/inmem"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestAPI(t *testing.T) API {
	vs := vars.New(map[string]dynamic.Value{"health": dynamic.NewInt(50)})
	env := builtin.NewEnv(command.NewInterpreter(nil, vs), vs)
	if err := builtin.Install(env); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Define("heal: target:@ amount:int=10 ~health", "echo", "Heal a target."); err != nil {
		t.Fatal(err)
	}

	return API{
		Backend: consvc.Service{
			DB:           inmem.NewDatastore(),
			Env:          env,
			PasswordCost: bcrypt.MinCost,
		},
		Secret: testSecret,
	}
}

// newRequest creates a request as it would look after passing through the
// router and auth middleware. user may be nil for an unauthed client.
func newRequest(method, path, body string, user *dao.User, params map[string]string) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	ctx := req.Context()
	if user != nil {
		ctx = context.WithValue(ctx, middle.AuthLoggedIn, true)
		ctx = context.WithValue(ctx, middle.AuthUser, *user)
	} else {
		ctx = context.WithValue(ctx, middle.AuthLoggedIn, false)
		ctx = context.WithValue(ctx, middle.AuthUser, dao.User{})
	}

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func Test_API_GetInfo(t *testing.T) {
	assert := assert.New(t)
	api := newTestAPI(t)

	w := serve(api.HTTPGetInfo(), newRequest(http.MethodGet, "/info", "", nil, nil))
	assert.Equal(http.StatusOK, w.Code)

	var resp InfoModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(len(builtin.Commands)+1, resp.Commands)
	assert.NotEmpty(resp.Version.TunaCon)
	assert.Contains(resp.Enums, builtin.ActionsEnum)
	assert.Contains(resp.Actions, "echo")
	assert.False(resp.Authenticated)

	user := dao.User{Username: "jack", Role: dao.Normal}
	w = serve(api.HTTPGetInfo(), newRequest(http.MethodGet, "/info", "", &user, nil))
	assert.Equal(http.StatusOK, w.Code)
	resp = InfoModel{}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(resp.Authenticated)
}

func Test_API_CreatePrompt(t *testing.T) {
	user := &dao.User{Username: "jack", Role: dao.Normal}

	testCases := []struct {
		name         string
		body         string
		expectStatus int
		check        func(assert *assert.Assertions, body []byte)
	}{
		{
			name:         "binds and runs",
			body:         `{"text": "heal 7 ~3"}`,
			expectStatus: http.StatusCreated,
			check: func(assert *assert.Assertions, body []byte) {
				var resp PromptModel
				assert.NoError(json.Unmarshal(body, &resp))
				assert.Equal("heal", resp.Command)
				assert.Equal("[7, 53]", resp.Args.String())
				assert.Equal("heal target=7 amount=53", resp.Output)
			},
		},
		{
			name:         "keyword args are an object",
			body:         `{"text": "define \"jump: h:num\" help=\"Jump.\""}`,
			expectStatus: http.StatusCreated,
			check: func(assert *assert.Assertions, body []byte) {
				var raw map[string]json.RawMessage
				assert.NoError(json.Unmarshal(body, &raw))
				assert.JSONEq(`{"help": "Jump."}`, string(raw["kwargs"]))
			},
		},
		{
			name:         "syntax error gives position",
			body:         `{"text": "frobnicate"}`,
			expectStatus: http.StatusBadRequest,
			check: func(assert *assert.Assertions, body []byte) {
				var resp result.SyntaxErrorResponse
				assert.NoError(json.Unmarshal(body, &resp))
				assert.Equal(1, resp.Line)
				assert.Equal(1, resp.Column)
				assert.NotEmpty(resp.Error)
				assert.True(strings.HasPrefix(resp.Context, "frobnicate\n^"))
			},
		},
		{
			name:         "action failure",
			body:         `{"text": "unset nope"}`,
			expectStatus: http.StatusUnprocessableEntity,
			check: func(assert *assert.Assertions, body []byte) {
				var resp result.ErrorResponse
				assert.NoError(json.Unmarshal(body, &resp))
				assert.Equal(`There is no variable named "nope".`, resp.Error)
			},
		},
		{
			name:         "malformed body",
			body:         `{"text": `,
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			api := newTestAPI(t)

			w := serve(api.HTTPCreatePrompt(), newRequest(http.MethodPost, "/prompts", tc.body, user, nil))

			assert.Equal(tc.expectStatus, w.Code, "body: %s", w.Body.String())
			if tc.check != nil {
				tc.check(assert, w.Body.Bytes())
			}
		})
	}
}

func Test_API_Prompts_history(t *testing.T) {
	assert := assert.New(t)
	api := newTestAPI(t)
	ctx := context.Background()

	alice, err := api.Backend.CreateUser(ctx, "alice", "pw", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}
	bob, err := api.Backend.CreateUser(ctx, "bob", "pw", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	p, err := api.Backend.RunPrompt(ctx, alice.ID, "heal 1")
	if !assert.NoError(err) {
		return
	}

	w := serve(api.HTTPGetAllPrompts(), newRequest(http.MethodGet, "/prompts", "", &bob, nil))
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq(`[]`, w.Body.String())

	params := map[string]string{"id": p.ID.String()}

	w = serve(api.HTTPGetPrompt(), newRequest(http.MethodGet, "/prompts/"+p.ID.String(), "", &bob, params))
	assert.Equal(http.StatusForbidden, w.Code)

	w = serve(api.HTTPGetPrompt(), newRequest(http.MethodGet, "/prompts/"+p.ID.String(), "", &alice, params))
	assert.Equal(http.StatusOK, w.Code)

	var resp PromptModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal("heal 1", resp.Text)
}

func Test_API_Commands(t *testing.T) {
	normal := &dao.User{Username: "jack", Role: dao.Normal}
	guest := &dao.User{Username: "guest", Role: dao.Guest}

	testCases := []struct {
		name         string
		user         *dao.User
		body         string
		expectStatus int
		expectColumn int
	}{
		{
			name:         "define",
			user:         normal,
			body:         `{"scheme": "tp: player:@ x:num y:num z:num ~0 {mode:enum[relative|absolute]=absolute}", "help": "Teleport."}`,
			expectStatus: http.StatusCreated,
		},
		{
			name:         "space in enum",
			user:         normal,
			body:         `{"scheme": "f: x:enum[a b]"}`,
			expectStatus: http.StatusBadRequest,
			expectColumn: 12,
		},
		{
			name:         "unknown action",
			user:         normal,
			body:         `{"scheme": "f x:int", "action": "explode"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "guests may not define",
			user:         guest,
			body:         `{"scheme": "f x:int"}`,
			expectStatus: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			api := newTestAPI(t)

			w := serve(api.HTTPCreateCommand(), newRequest(http.MethodPost, "/commands", tc.body, tc.user, nil))
			assert.Equal(tc.expectStatus, w.Code, "body: %s", w.Body.String())

			if tc.expectColumn != 0 {
				var resp result.SyntaxErrorResponse
				assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(tc.expectColumn, resp.Column)
			}
		})
	}
}

func Test_API_GetCommand(t *testing.T) {
	assert := assert.New(t)
	api := newTestAPI(t)

	w := serve(api.HTTPGetCommand(), newRequest(http.MethodGet, "/commands/heal", "", nil, map[string]string{"name": "heal"}))
	assert.Equal(http.StatusOK, w.Code)

	var resp CommandModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal("heal target:@ amount:int=10 ~health", resp.Usage)
	assert.Equal("Heal a target.", resp.Help)
	if assert.Len(resp.Args, 2) {
		assert.Equal("@", resp.Args[0].Type)
		assert.True(resp.Args[1].Optional)
		assert.Equal(dynamic.NewInt(10), resp.Args[1].Default)
		assert.Equal(dynamic.NewString("health"), resp.Args[1].Origin)
	}
	assert.Empty(resp.Kwargs)

	w = serve(api.HTTPGetCommand(), newRequest(http.MethodGet, "/commands/nope", "", nil, map[string]string{"name": "nope"}))
	assert.Equal(http.StatusNotFound, w.Code)

	w = serve(api.HTTPGetAllCommands(), newRequest(http.MethodGet, "/commands", "", nil, nil))
	assert.Equal(http.StatusOK, w.Code)
	var all []CommandModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(all, len(builtin.Commands)+1)
}

func Test_API_Vars(t *testing.T) {
	assert := assert.New(t)
	api := newTestAPI(t)
	user := &dao.User{Username: "jack", Role: dao.Normal}
	params := map[string]string{"name": "mana"}

	w := serve(api.HTTPSetVar(), newRequest(http.MethodPut, "/vars/mana", `{"value": 5}`, user, params))
	assert.Equal(http.StatusOK, w.Code, "body: %s", w.Body.String())

	w = serve(api.HTTPGetVar(), newRequest(http.MethodGet, "/vars/mana", "", nil, params))
	assert.Equal(http.StatusOK, w.Code)
	var resp VarModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal("integer", resp.Type)
	assert.Equal(dynamic.NewInt(5), resp.Value)

	w = serve(api.HTTPSetVar(), newRequest(http.MethodPut, "/vars/mana", `{}`, user, params))
	assert.Equal(http.StatusBadRequest, w.Code)

	w = serve(api.HTTPSetVar(), newRequest(http.MethodPut, "/vars/mana", `{"value": 1}`, &dao.User{Role: dao.Guest}, params))
	assert.Equal(http.StatusForbidden, w.Code)

	w = serve(api.HTTPGetAllVars(), newRequest(http.MethodGet, "/vars", "", nil, nil))
	assert.Equal(http.StatusOK, w.Code)
	var all []VarModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(all, 2)

	w = serve(api.HTTPDeleteVar(), newRequest(http.MethodDelete, "/vars/mana", "", user, params))
	assert.Equal(http.StatusNoContent, w.Code)

	w = serve(api.HTTPDeleteVar(), newRequest(http.MethodDelete, "/vars/mana", "", user, params))
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_API_LoginAndUsers(t *testing.T) {
	assert := assert.New(t)
	api := newTestAPI(t)
	ctx := context.Background()

	admin, err := api.Backend.CreateUser(ctx, "admin", "secret", "", dao.Admin)
	if !assert.NoError(err) {
		return
	}

	w := serve(api.HTTPCreateLogin(), newRequest(http.MethodPost, "/login", `{"user": "admin", "password": "wrong"}`, nil, nil))
	assert.Equal(http.StatusUnauthorized, w.Code)

	w = serve(api.HTTPCreateLogin(), newRequest(http.MethodPost, "/login", `{"user": "admin", "password": "secret"}`, nil, nil))
	assert.Equal(http.StatusCreated, w.Code)
	var login LoginResponse
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(login.Token)
	assert.Equal(admin.ID.String(), login.UserID)
	expires, err := time.Parse(time.RFC3339, login.Expires)
	assert.NoError(err)
	assert.WithinDuration(time.Now().Add(token.Lifetime), expires, time.Minute)

	w = serve(api.HTTPCreateUser(), newRequest(http.MethodPost, "/users", `{"username": "jack", "password": "pw", "role": "normal"}`, &admin, nil))
	assert.Equal(http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var jack UserModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &jack))
	assert.Equal("normal", jack.Role)

	jackUser, err := api.Backend.GetUser(ctx, jack.ID)
	if !assert.NoError(err) {
		return
	}

	// normal users cannot list or see others
	w = serve(api.HTTPGetAllUsers(), newRequest(http.MethodGet, "/users", "", &jackUser, nil))
	assert.Equal(http.StatusForbidden, w.Code)
	w = serve(api.HTTPGetUser(), newRequest(http.MethodGet, "/users/"+admin.ID.String(), "", &jackUser, map[string]string{"id": admin.ID.String()}))
	assert.Equal(http.StatusForbidden, w.Code)

	// or promote themselves
	w = serve(api.HTTPUpdateUser(), newRequest(http.MethodPatch, "/users/"+jack.ID, `{"role": {"u": true, "v": "admin"}}`, &jackUser, map[string]string{"id": jack.ID}))
	assert.Equal(http.StatusForbidden, w.Code)

	w = serve(api.HTTPUpdateUser(), newRequest(http.MethodPatch, "/users/"+jack.ID, `{"email": {"u": true, "v": "jack@example.com"}}`, &jackUser, map[string]string{"id": jack.ID}))
	assert.Equal(http.StatusOK, w.Code, "body: %s", w.Body.String())

	w = serve(api.HTTPGetAllUsers(), newRequest(http.MethodGet, "/users", "", &admin, nil))
	assert.Equal(http.StatusOK, w.Code)
	var all []UserModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &all))
	if assert.Len(all, 2) {
		assert.Equal("admin", all[0].Username)
		assert.Equal("jack@example.com", all[1].Email)
	}

	// admins can create an account at a chosen ID
	wantID := uuid.New()
	w = serve(api.HTTPReplaceUser(), newRequest(http.MethodPut, "/users/"+wantID.String(), `{"username": "jill", "password": "pw"}`, &admin, map[string]string{"id": wantID.String()}))
	assert.Equal(http.StatusCreated, w.Code, "body: %s", w.Body.String())
	var jill UserModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &jill))
	assert.Equal(wantID.String(), jill.ID)
	assert.Equal("unverified", jill.Role)

	w = serve(api.HTTPReplaceUser(), newRequest(http.MethodPut, "/users/"+wantID.String(), `{"username": "jill2", "password": "pw"}`, &admin, map[string]string{"id": wantID.String()}))
	assert.Equal(http.StatusConflict, w.Code)

	w = serve(api.HTTPDeleteLogin(), newRequest(http.MethodDelete, "/login/"+jack.ID, "", &admin, map[string]string{"id": jack.ID}))
	assert.Equal(http.StatusNoContent, w.Code)

	w = serve(api.HTTPDeleteUser(), newRequest(http.MethodDelete, "/users/"+jack.ID, "", &jackUser, map[string]string{"id": jack.ID}))
	assert.Equal(http.StatusNoContent, w.Code)
}
