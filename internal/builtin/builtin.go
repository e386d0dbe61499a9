// Package builtin has the actions that console commands run and the commands
// that every console starts with.
package builtin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/internal/util"
	"github.com/dekarrin/tunacon/internal/vars"
)

// DefaultWidth is the width that tables are laid out to when an Env does not
// give one.
const DefaultWidth = 80

// ActionsEnum is the name of the enumeration, defined by Install, whose values
// are the names of all actions.
const ActionsEnum = "actions"

// ErrQuit is returned by the quit action to ask whatever is running the
// console to stop.
var ErrQuit = errors.New("quit requested")

// Action carries out a parsed prompt and returns the text to show for it.
type Action func(env *Env, p command.Prompt) (string, error)

// Builtin is a command that every console starts with.
type Builtin struct {
	Scheme string
	Action string
	Help   string
}

// Commands are the built-in commands added by Install.
var Commands = []Builtin{
	{Scheme: "help cmd:str=none", Action: "help", Help: "Show all commands, or the usage of one command."},
	{Scheme: "define scheme:str {action:enum$actions=echo help:str=\"\"}", Action: "define", Help: "Add a command compiled from a scheme."},
	{Scheme: "set name:str num:num=none text:str=none", Action: "set", Help: "Set a variable to a number or a string."},
	{Scheme: "unset name:str", Action: "unset", Help: "Remove a variable."},
	{Scheme: "vars", Action: "vars", Help: "Show all variables."},
	{Scheme: "enums", Action: "enums", Help: "Show all named enumerations."},
	{Scheme: "quit", Action: "quit", Help: "Leave the console."},
}

var actions map[string]Action

func init() {
	// set in init; defineAction looks itself up through this map
	actions = map[string]Action{
		"echo":   echoAction,
		"help":   helpAction,
		"define": defineAction,
		"set":    setAction,
		"unset":  unsetAction,
		"vars":   varsAction,
		"enums":  enumsAction,
		"quit":   quitAction,
	}
}

// Lookup returns the action with the given name.
func Lookup(name string) (Action, bool) {
	act, ok := actions[name]
	return act, ok
}

// ActionNames returns the names of all actions in sorted order.
func ActionNames() []string {
	return util.OrderedKeys(actions)
}

// Env is what actions are run against.
type Env struct {
	Interp *command.Interpreter
	Vars   *vars.Store

	// Width is the width that tables are laid out to. If 0, DefaultWidth is
	// used.
	Width int

	mtx  sync.RWMutex
	help map[string]string
}

// NewEnv creates an Env for the given Interpreter and variables.
func NewEnv(ip *command.Interpreter, vs *vars.Store) *Env {
	return &Env{
		Interp: ip,
		Vars:   vs,
		help:   map[string]string{},
	}
}

func (env *Env) width() int {
	if env.Width <= 0 {
		return DefaultWidth
	}
	return env.Width
}

// Define compiles scheme and registers it on the Env's Interpreter to run the
// named action. help is shown by the help command. Returns the name of the new
// command.
func (env *Env) Define(scheme, action, help string) (string, error) {
	act, ok := Lookup(action)
	if !ok {
		return "", fmt.Errorf("unknown action %q", action)
	}

	name, err := env.Interp.Register(scheme, act)
	if err != nil {
		return "", err
	}

	env.SetHelp(name, help)
	return name, nil
}

// SetHelp sets the description shown for the named command.
func (env *Env) SetHelp(name, text string) {
	env.mtx.Lock()
	defer env.mtx.Unlock()

	if env.help == nil {
		env.help = map[string]string{}
	}
	env.help[name] = text
}

// Help returns the description of the named command.
func (env *Env) Help(name string) string {
	env.mtx.RLock()
	defer env.mtx.RUnlock()

	return env.help[name]
}

// Install defines the actions enumeration and registers every command in
// Commands.
func Install(env *Env) error {
	if err := env.Interp.DefineEnum(ActionsEnum, ActionNames()); err != nil {
		return fmt.Errorf("define %s enumeration: %w", ActionsEnum, err)
	}

	for _, b := range Commands {
		if _, err := env.Define(b.Scheme, b.Action, b.Help); err != nil {
			return fmt.Errorf("built-in %q: %w", b.Scheme, err)
		}
	}
	return nil
}

// Run calls the Action that p's command was registered with.
func Run(env *Env, p command.Prompt) (string, error) {
	act, ok := p.Executor().(Action)
	if !ok || act == nil {
		return "", fmt.Errorf("command %q has no action", p.Command.Name)
	}
	return act(env, p)
}
