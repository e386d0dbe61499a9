// Package api provides HTTP API endpoints for the TunaCon server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/tunacon/server/consvc"
	"github.com/dekarrin/tunacon/server/result"
	"github.com/dekarrin/tunacon/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// requireIDParam gets the ID of the main entity being referenced in the URI and
// returns it. It panics if the key is not there or is not parsable.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := getURLParam(r, "id", uuid.Parse)
	if err != nil {
		panic(err.Error())
	}
	return id
}

// requireNameParam gets the name of the main entity being referenced in the
// URI. It panics if the key is not there.
func requireNameParam(r *http.Request) string {
	name, err := getURLParam(r, "name", func(s string) (string, error) { return s, nil })
	if err != nil {
		panic(err.Error())
	}
	return name
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		// either it does not exist or it is nil; treat both as the same and
		// return an error
		return val, fmt.Errorf("parameter does not exist")
	}

	val, err = parse(valStr)
	if err != nil {
		return val, serr.New("", serr.ErrBadArgument)
	}
	return val, nil
}

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a TunaCon server via Go code, see
// [consvc.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend consvc.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-403, HTTP-401, or HTTP-500 to deprioritize such
	// requests from processing and I/O.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte
}

// maxBodySize is the most bytes of a request body that are read.
const maxBodySize = 1 << 20

// parseJSON reads the JSON body of req into v, which must be a pointer. The
// body may be parsed again afterwards. The returned error matches
// serr.ErrBodyUnmarshal if the JSON itself is bad.
func parseJSON(req *http.Request, v interface{}) error {
	if mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(io.LimitReader(req.Body, maxBodySize+1))
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(bodyData))
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	if len(bodyData) > maxBodySize {
		return fmt.Errorf("request body is larger than %d bytes", maxBodySize)
	}

	if err := json.Unmarshal(bodyData, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}

// EndpointFunc is an endpoint that gives the Result to respond with.
type EndpointFunc func(req *http.Request) result.Result

// httpEndpoint adapts ep to an http.HandlerFunc. Every response is logged, and
// responses that refuse the client or hide a server fault are held back by
// unauthDelay.
func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			logHttpResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// WriteResponse panics if marshaling fails, so do it first.
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
		}

		level := "INFO"
		if r.IsErr {
			level = "ERROR"
		}
		logHttpResponse(level, req, r.Status, r.InternalMsg)

		switch r.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError:
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w, req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	panicErr := recover()
	if panicErr == nil {
		return
	}

	r := result.TextErr(
		http.StatusInternalServerError,
		"An internal server error occurred",
		"panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()),
	)
	logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
	r.WriteResponse(w, req)
}

// logHttpResponse logs a response with the client's IP. The client port is
// left out.
func logHttpResponse(level string, req *http.Request, respStatus int, msg string) {
	remoteIP, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		remoteIP = req.RemoteAddr
	}

	log.Printf("%-5.5s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}
