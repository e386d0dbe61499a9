package consvc

import (
	"context"
	"errors"
	"strings"

	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/internal/builtin"
	"github.com/dekarrin/tunacon/server/serr"
)

// Command is a registered command along with its help text.
type Command struct {
	*command.Command
	Help string
}

// GetAllCommands returns every command of the console, sorted by name.
func (svc Service) GetAllCommands(ctx context.Context) ([]Command, error) {
	repo := svc.Env.Interp.Repository()

	var all []Command
	for _, name := range repo.Names() {
		cmd, ok := repo.Get(name)
		if !ok {
			// removed since Names was called
			continue
		}
		all = append(all, Command{Command: cmd, Help: svc.Env.Help(name)})
	}
	return all, nil
}

// GetCommand returns the command with the given name.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such command.
func (svc Service) GetCommand(ctx context.Context, name string) (Command, error) {
	cmd, ok := svc.Env.Interp.Repository().Get(name)
	if !ok {
		return Command{}, serr.ErrNotFound
	}
	return Command{Command: cmd, Help: svc.Env.Help(name)}, nil
}

// DefineCommand compiles scheme and registers it to run the named action,
// replacing any command with the same name. A blank action is "echo".
//
// The returned error, if non-nil, will match serr.ErrParse if scheme does not
// compile, and serr.ErrBadArgument if scheme is blank or action is not a known
// action. A parse error also matches the *command.SyntaxError it came from.
func (svc Service) DefineCommand(ctx context.Context, scheme, action, help string) (Command, error) {
	if strings.TrimSpace(scheme) == "" {
		return Command{}, serr.New("scheme cannot be blank", serr.ErrBadArgument)
	}

	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		action = "echo"
	}
	if _, ok := builtin.Lookup(action); !ok {
		return Command{}, serr.New("action must be one of "+strings.Join(builtin.ActionNames(), ", "), serr.ErrBadArgument)
	}

	name, err := svc.Env.Define(scheme, action, help)
	if err != nil {
		var synErr *command.SyntaxError
		if errors.As(err, &synErr) {
			return Command{}, serr.New("", synErr, serr.ErrParse)
		}
		return Command{}, serr.New("could not define command", err, serr.ErrBadArgument)
	}

	return svc.GetCommand(ctx, name)
}
