package consvc

import (
	"context"
	"errors"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/internal/builtin"
	"github.com/dekarrin/tunacon/internal/tcerrors"
	"github.com/dekarrin/tunacon/server/dao"
	"github.com/dekarrin/tunacon/server/serr"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// RunPrompt parses text as entered by the given user, runs the action of the
// command it invokes, and records the result in the prompt history. The quit
// action has no effect on the server and gives no output.
//
// The returned error, if non-nil, will match serr.ErrParse if text could not
// be parsed, serr.ErrExecution if the action failed, and serr.ErrDB if the
// prompt could not be recorded. Parse errors also match the
// *command.SyntaxError that caused them, and the text of execution errors is
// the console message of the failure.
func (svc Service) RunPrompt(ctx context.Context, userID uuid.UUID, text string) (dao.Prompt, error) {
	text = norm.NFC.String(text)

	p, err := svc.Env.Interp.Parse(text)
	if err != nil {
		return dao.Prompt{}, serr.New("", err, serr.ErrParse)
	}

	output, err := builtin.Run(svc.Env, p)
	if err != nil {
		if !errors.Is(err, builtin.ErrQuit) {
			return dao.Prompt{}, serr.New("", errors.New(tcerrors.ConsoleMessage(err)), serr.ErrExecution, err)
		}
		output = ""
	}

	entry := dao.Prompt{
		UserID:  userID,
		Text:    text,
		Command: p.Command.Name,
		Args:    dynamic.NewListValue(p.Args),
		Kwargs:  dynamic.NewMapValue(p.Kwargs),
		Output:  output,
	}

	entry, err = svc.DB.Prompts().Create(ctx, entry)
	if err != nil {
		return dao.Prompt{}, serr.WrapDB("could not record prompt", err)
	}

	return entry, nil
}

// GetPrompts returns the prompt history visible to the given user, oldest
// first. Admins see every prompt; everyone else sees only their own.
func (svc Service) GetPrompts(ctx context.Context, requester dao.User) ([]dao.Prompt, error) {
	var all []dao.Prompt
	var err error
	if requester.Role == dao.Admin {
		all, err = svc.DB.Prompts().GetAll(ctx)
	} else {
		all, err = svc.DB.Prompts().GetAllByUser(ctx, requester.ID)
	}
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return all, nil
}

// GetPrompt returns the prompt history entry with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such entry and serr.ErrBadArgument if id is not a UUID.
func (svc Service) GetPrompt(ctx context.Context, id string) (dao.Prompt, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Prompt{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	p, err := svc.DB.Prompts().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Prompt{}, serr.ErrNotFound
		}
		return dao.Prompt{}, serr.WrapDB("could not get prompt", err)
	}
	return p, nil
}
