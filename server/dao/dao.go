// Package dao provides data access objects for use in the TunaCon server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/tunacon/dynamic"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Prompts() PromptRepository
	Close() error
}

// UserRepository is persistence for the accounts that may use the server.
type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// PromptRepository is persistence for the history of prompts that were parsed
// by the server.
type PromptRepository interface {
	// Create creates a new Prompt. All attributes except for auto-generated
	// fields are taken from the provided Prompt.
	Create(ctx context.Context, p Prompt) (Prompt, error)
	GetByID(ctx context.Context, id uuid.UUID) (Prompt, error)

	// GetAll returns all prompts, oldest first.
	GetAll(ctx context.Context) ([]Prompt, error)

	// GetAllByUser returns all prompts entered by the given user, oldest
	// first.
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) (Prompt, error)
	Close() error
}

// Role is the level of access a User has.
type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

// ParseRole parses the name of a Role, ignoring case.
func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

// User is an account on the server.
type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Prompt is a line of input that was parsed against a command, along with the
// values it bound and what running it produced.
type Prompt struct {
	ID     uuid.UUID
	UserID uuid.UUID

	// Text is the line as it was entered.
	Text string

	// Command is the name of the command the line invoked.
	Command string

	// Args is a List of the bound positional values.
	Args dynamic.Value

	// Kwargs is a Map of the given keyword values.
	Kwargs dynamic.Value

	// Output is what the command's action returned.
	Output string

	Created time.Time
}
