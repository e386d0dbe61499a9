package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/tunacon/server/api"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/middle"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

// auth holds the two kinds of authentication middleware used by the routers.
type auth struct {
	required middle.Middleware
	optional middle.Middleware
}

func newAuth(a api.API, users dao.UserRepository) auth {
	return auth{
		required: middle.RequireAuth(users, a.Secret, a.UnauthDelay),
		optional: middle.OptionalAuth(users, a.Secret, a.UnauthDelay, dao.User{}),
	}
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()
	au := newAuth(a, a.Backend.DB.Users())

	r.Mount("/login", newLoginRouter(a, au))
	r.Mount("/tokens", newTokensRouter(a, au))
	r.Mount("/users", newUsersRouter(a, au))
	r.Mount("/info", newInfoRouter(a, au))
	r.HandleFunc("/info/", RedirectNoTrailingSlash)
	r.Mount("/commands", newCommandsRouter(a, au))
	r.Mount("/prompts", newPromptsRouter(a, au))
	r.Mount("/vars", newVarsRouter(a, au))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w, req)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(req).WriteResponse(w, req)
	})

	return r
}

func newLoginRouter(a api.API, au auth) chi.Router {
	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateLogin())
	r.With(au.required).Delete("/"+p("id:uuid"), a.HTTPDeleteLogin())
	r.HandleFunc("/"+p("id:uuid")+"/", RedirectNoTrailingSlash)

	return r
}

func newTokensRouter(a api.API, au auth) chi.Router {
	r := chi.NewRouter()

	r.With(au.required).Post("/", a.HTTPCreateToken())

	return r
}

func newUsersRouter(a api.API, au auth) chi.Router {
	r := chi.NewRouter()

	r.Use(au.required)

	r.Get("/", a.HTTPGetAllUsers())
	r.Post("/", a.HTTPCreateUser())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetUser())
		r.Put("/", a.HTTPReplaceUser())
		r.Patch("/", a.HTTPUpdateUser())
		r.Delete("/", a.HTTPDeleteUser())
	})

	return r
}

func newInfoRouter(a api.API, au auth) chi.Router {
	r := chi.NewRouter()

	r.With(au.optional).Get("/", a.HTTPGetInfo())

	return r
}

func newCommandsRouter(a api.API, au auth) chi.Router {
	r := chi.NewRouter()

	r.With(au.optional).Get("/", a.HTTPGetAllCommands())
	r.With(au.required).Post("/", a.HTTPCreateCommand())
	r.With(au.optional).Get("/"+p("name"), a.HTTPGetCommand())
	r.HandleFunc("/"+p("name")+"/", RedirectNoTrailingSlash)

	return r
}

func newPromptsRouter(a api.API, au auth) chi.Router {
	r := chi.NewRouter()

	r.Use(au.required)

	r.Get("/", a.HTTPGetAllPrompts())
	r.Post("/", a.HTTPCreatePrompt())
	r.Get("/"+p("id:uuid"), a.HTTPGetPrompt())
	r.HandleFunc("/"+p("id:uuid")+"/", RedirectNoTrailingSlash)

	return r
}

func newVarsRouter(a api.API, au auth) chi.Router {
	r := chi.NewRouter()

	r.With(au.optional).Get("/", a.HTTPGetAllVars())

	r.Route("/"+p("name"), func(r chi.Router) {
		r.With(au.optional).Get("/", a.HTTPGetVar())
		r.With(au.required).Put("/", a.HTTPSetVar())
		r.With(au.required).Delete("/", a.HTTPDeleteVar())
	})

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL as the
// request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w, req)
}
