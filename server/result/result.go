// Package result contains results that are used to write out API responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// SyntaxErrorResponse is the body of a response to input that could not be
// parsed. Line and Column are 1-based and point at the offending character.
type SyntaxErrorResponse struct {
	ErrorResponse

	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Context string `json:"context,omitempty"`
}

// internalFormat splits an optional format string and its arguments off of
// internalMsg, falling back to def.
func internalFormat(def string, internalMsg []interface{}) (string, []interface{}) {
	if len(internalMsg) >= 1 {
		return internalMsg[0].(string), internalMsg[1:]
	}
	return def, nil
}

// OK returns a Result containing an HTTP-200 along with a more detailed
// message (if desired; if none is provided it defaults to a generic one) that
// is not displayed to the user.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := internalFormat("OK", internalMsg)
	return Response(http.StatusOK, respObj, f, args...)
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	f, args := internalFormat("no content", internalMsg)
	return Response(http.StatusNoContent, nil, f, args...)
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := internalFormat("created", internalMsg)
	return Response(http.StatusCreated, respObj, f, args...)
}

// Conflict returns a Result containing an HTTP-409.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("conflict", internalMsg)
	return Err(http.StatusConflict, userMsg, f, args...)
}

// BadRequest returns a Result containing an HTTP-400.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("bad request", internalMsg)
	return Err(http.StatusBadRequest, userMsg, f, args...)
}

// SyntaxError returns a Result containing an HTTP-400 whose body gives the
// position of a syntax error as well as its message. context is the offending
// source line with a caret under the error position and may be empty.
func SyntaxError(userMsg string, line, col int, context string, internalMsg ...interface{}) Result {
	f, args := internalFormat("syntax error", internalMsg)
	r := Err(http.StatusBadRequest, userMsg, f, args...)
	r.resp = SyntaxErrorResponse{
		ErrorResponse: r.resp.(ErrorResponse),
		Line:          line,
		Column:        col,
		Context:       context,
	}
	return r
}

// MethodNotAllowed returns a Result containing an HTTP-405 that names the
// method and path of req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	f, args := internalFormat("method not allowed", internalMsg)
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, f, args...)
}

// NotFound returns a Result containing an HTTP-404 response.
func NotFound(internalMsg ...interface{}) Result {
	f, args := internalFormat("not found", internalMsg)
	return Err(http.StatusNotFound, "The requested resource was not found", f, args...)
}

// Forbidden returns a Result containing an HTTP-403 response.
func Forbidden(internalMsg ...interface{}) Result {
	f, args := internalFormat("forbidden", internalMsg)
	return Err(http.StatusForbidden, "You don't have permission to do that", f, args...)
}

// Unauthorized returns a Result containing an HTTP-401 response along with the
// proper WWW-Authenticate header. If userMsg is empty a generic one is used.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("unauthorized", internalMsg)

	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, f, args...).
		WithHeader("WWW-Authenticate", `Bearer realm="TunaCon server", charset="utf-8"`)
}

// InternalServerError returns a Result containing an HTTP-500 response. The
// user only ever sees a generic message.
func InternalServerError(internalMsg ...interface{}) Result {
	f, args := internalFormat("internal server error", internalMsg)
	return Err(http.StatusInternalServerError, "An internal server error occurred", f, args...)
}

// Response creates a successful JSON Result. If status is
// http.StatusNoContent, respObj will not be read and may be nil. Otherwise it
// must not be nil.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// Err creates a JSON error Result.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// Redirection creates a Result that permanently redirects to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: fmt.Sprintf("redirect -> %s", uri),
		redir:       uri,
	}
}

// TextErr is like Err but writes the output as plain text.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

// Result is the outcome of an endpoint. It is written to a client with
// WriteResponse.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string
	hdrs  [][2]string

	// set by calling PrepareMarshaledResponse.
	respJSONBytes []byte
}

// WithHeader returns a copy of r that also sets the given header.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(cp.hdrs, r.hdrs)
	cp.hdrs = append(cp.hdrs, [2]string{name, val})
	return cp
}

// PrepareMarshaledResponse marshals the response body if r needs one. Calling
// it again after it succeeds has no effect.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent && r.redir == "" {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes r to w as the response to req. No body is written for
// HEAD requests. It panics if r was never populated or cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter, req *http.Request) {
	if r.Status == 0 {
		panic("result not populated")
	}

	err := r.PrepareMarshaledResponse()
	if err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte

	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		if r.redir == "" {
			respBytes = r.respJSONBytes
		}
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent && r.redir == "" {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.redir != "" {
		w.Header().Set("Location", r.redir)
	}

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent && req.Method != http.MethodHead {
		w.Write(respBytes)
	}
}
