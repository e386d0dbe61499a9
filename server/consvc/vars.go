package consvc

import (
	"context"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/vars"
	"github.com/dekarrin/tunacon/server/serr"
)

// GetAllVars returns every variable of the console, sorted by name.
func (svc Service) GetAllVars(ctx context.Context) []vars.Var {
	return svc.Env.Vars.All()
}

// GetVar returns the value of the named variable.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such variable.
func (svc Service) GetVar(ctx context.Context, name string) (dynamic.Value, error) {
	v, ok := svc.Env.Vars.Get(name)
	if !ok {
		return dynamic.Value{}, serr.ErrNotFound
	}
	return v, nil
}

// SetVar sets the named variable, creating it if needed.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if name is
// blank.
func (svc Service) SetVar(ctx context.Context, name string, v dynamic.Value) error {
	if err := svc.Env.Vars.Set(name, v); err != nil {
		return serr.New("", err, serr.ErrBadArgument)
	}
	return nil
}

// DeleteVar removes the named variable and returns the value it had.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such variable.
func (svc Service) DeleteVar(ctx context.Context, name string) (dynamic.Value, error) {
	v, ok := svc.Env.Vars.Get(name)
	if !ok || !svc.Env.Vars.Delete(name) {
		return dynamic.Value{}, serr.ErrNotFound
	}
	return v, nil
}
