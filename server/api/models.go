package api

import (
	"time"

	"github.com/dekarrin/tunacon/command"
	"github.com/dekarrin/tunacon/dynamic"
	"github.com/dekarrin/tunacon/server/consvc"
	"github.com/dekarrin/tunacon/server/dao"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		TunaCon string `json:"tunacon"`
	} `json:"version"`
	Commands int      `json:"commands"`
	Vars     int      `json:"vars"`
	Enums    []string `json:"enums"`
	Actions  []string `json:"actions"`

	// Authenticated is whether the client that asked was logged in.
	Authenticated bool `json:"authenticated"`
}

type LoginRequest struct {
	Username string `json:"user"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`

	// Expires is when Token stops being accepted, in RFC 3339 format.
	Expires string `json:"expires"`
}

type UserModel struct {
	URI            string `json:"uri"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username,omitempty"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

type UserUpdateRequest struct {
	ID       UpdateString `json:"id,omitempty"`
	Username UpdateString `json:"username,omitempty"`
	Password UpdateString `json:"password,omitempty"`
	Email    UpdateString `json:"email,omitempty"`
	Role     UpdateString `json:"role,omitempty"`
}

type UpdateString struct {
	Update bool   `json:"u,omitempty"`
	Value  string `json:"v,omitempty"`
}

type ArgumentModel struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Optional bool          `json:"optional"`
	Default  dynamic.Value `json:"default"`
	Origin   dynamic.Value `json:"origin"`
	Enum     []string      `json:"enum,omitempty"`
	EnumName string        `json:"enum_name,omitempty"`
	Scheme   string        `json:"scheme"`
}

type CommandModel struct {
	URI    string          `json:"uri"`
	Name   string          `json:"name"`
	Usage  string          `json:"usage"`
	Help   string          `json:"help,omitempty"`
	Args   []ArgumentModel `json:"args"`
	Kwargs []ArgumentModel `json:"kwargs"`
}

type CommandDefineRequest struct {
	Scheme string `json:"scheme"`
	Action string `json:"action"`
	Help   string `json:"help"`
}

type PromptRequest struct {
	Text string `json:"text"`
}

type PromptModel struct {
	URI     string        `json:"uri"`
	ID      string        `json:"id"`
	UserID  string        `json:"user_id"`
	Text    string        `json:"text"`
	Command string        `json:"command"`
	Args    dynamic.Value `json:"args"`
	Kwargs  dynamic.Value `json:"kwargs"`
	Output  string        `json:"output"`
	Created string        `json:"created"`
}

type VarModel struct {
	URI   string        `json:"uri"`
	Name  string        `json:"name"`
	Type  string        `json:"type"`
	Value dynamic.Value `json:"value"`
}

type VarSetRequest struct {
	Value *dynamic.Value `json:"value"`
}

func userModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  u.LastLoginTime.Format(time.RFC3339),
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

func argumentModel(arg command.Argument) ArgumentModel {
	m := ArgumentModel{
		Name:     arg.Name,
		Type:     arg.Type.Keyword(),
		Optional: arg.Optional,
		Default:  arg.Default,
		Origin:   arg.Origin,
		Scheme:   arg.Scheme(),
	}
	if arg.NamedEnum() {
		m.EnumName = arg.Enum
	} else {
		m.Enum = arg.EnumValues()
	}
	return m
}

func commandModel(cmd consvc.Command) CommandModel {
	m := CommandModel{
		URI:    PathPrefix + "/commands/" + cmd.Name,
		Name:   cmd.Name,
		Usage:  cmd.Usage(),
		Help:   cmd.Help,
		Args:   []ArgumentModel{},
		Kwargs: []ArgumentModel{},
	}
	for _, arg := range cmd.Args {
		m.Args = append(m.Args, argumentModel(arg))
	}
	for _, name := range cmd.KeywordNames() {
		kw, _ := cmd.Keyword(name)
		m.Kwargs = append(m.Kwargs, argumentModel(*kw))
	}
	return m
}

func promptModel(p dao.Prompt) PromptModel {
	return PromptModel{
		URI:     PathPrefix + "/prompts/" + p.ID.String(),
		ID:      p.ID.String(),
		UserID:  p.UserID.String(),
		Text:    p.Text,
		Command: p.Command,
		Args:    p.Args,
		Kwargs:  p.Kwargs,
		Output:  p.Output,
		Created: p.Created.Format(time.RFC3339),
	}
}

func varModel(name string, v dynamic.Value) VarModel {
	return VarModel{
		URI:   PathPrefix + "/vars/" + name,
		Name:  name,
		Type:  dynamic.TypeName(v),
		Value: v,
	}
}
