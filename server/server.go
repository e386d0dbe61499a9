// Package server provides an HTTP REST server that exposes one TunaCon console
// to many users. Users log in, send prompts that are parsed and run against the
// shared console, and can look back through the history of what they sent.
package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/tunacon/internal/builtin"
	"github.com/dekarrin/tunacon/server/api"
	"github.com/dekarrin/tunacon/server/consvc"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/go-chi/chi/v5"
)

// AdminUsername is the name of the account created by EnsureAdmin.
const AdminUsername = "admin"

// Server is an HTTP REST server for a TunaCon console. The zero-value of a
// Server should not be used directly; call New() to get one ready for use.
type Server struct {
	router chi.Router
	api    api.API
	db     dao.Store
}

// New creates a new Server from the given config. Unset config values are
// given their defaults before the config is checked. The console's
// definitions are loaded and the DB is connected to before New returns.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	env, err := builtin.NewConsole(cfg.DefsPath)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}

	srv := &Server{
		db: db,
		api: api.API{
			Backend: consvc.Service{
				DB:           db,
				Env:          env,
				PasswordCost: cfg.PasswordCost,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	srv.router = newRouter(srv.api)

	return srv, nil
}

// Service returns the service that the server's endpoints call. It can be
// used to act on the server directly from Go code.
func (srv *Server) Service() consvc.Service {
	return srv.api.Backend
}

// ServeHTTP routes req to the matching endpoint.
func (srv *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	srv.router.ServeHTTP(w, req)
}

// EnsureAdmin creates an admin account with a generated password if there are
// no accounts at all. If one was created, its password is returned; otherwise
// the returned password is empty.
func (srv *Server) EnsureAdmin(ctx context.Context) (password string, err error) {
	svc := srv.Service()

	users, err := svc.GetAllUsers(ctx)
	if err != nil {
		return "", err
	}
	if len(users) > 0 {
		return "", nil
	}

	password, err = generatePassword()
	if err != nil {
		return "", err
	}

	if _, err := svc.CreateUser(ctx, AdminUsername, password, "", dao.Admin); err != nil {
		return "", fmt.Errorf("create %s user: %w", AdminUsername, err)
	}

	return password, nil
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (srv *Server) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)

	err := http.ListenAndServe(listenAddress, srv)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("FATAL %v", err)
	}
}

// Close closes the server's DB.
func (srv *Server) Close() error {
	return srv.db.Close()
}

func generatePassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
