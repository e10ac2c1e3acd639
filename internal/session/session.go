// Package session gates access to the task list behind an OAuth sign-in and
// keeps the resulting session marker in the key-value store.
package session

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"gtodo/internal/kvstore"
)

// TokenKey is the key the session marker is stored under.
const TokenKey = "userToken"

// Messages shown on the sign-in screen.
const (
	MessageAuthFailed = "Authentication failed."
	MessageSaveFailed = "Failed to save token."
)

// Kind is the outcome of one interactive authorization.
type Kind int

const (
	Success Kind = iota
	Failure
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result is what a Provider reports, exactly once per Authorize call.
// Token is set only for Success, Err only for Failure.
type Result struct {
	Kind  Kind
	Token string
	Err   error
}

// Provider runs an interactive OAuth flow.
type Provider interface {
	Authorize(ctx context.Context) Result
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) Result

// Authorize implements Provider.
func (f ProviderFunc) Authorize(ctx context.Context) Result { return f(ctx) }

// Outcome is the result of SignIn as presented to the user.
type Outcome struct {
	Kind Kind
	// Message is shown inline on the sign-in screen; empty for success and
	// cancellation.
	Message string
	// Err is the underlying cause of a failure, for logs.
	Err error
}

// Granted reports whether the user may proceed to the task list.
func (o Outcome) Granted() bool { return o.Kind == Success }

// State is whether a session marker is present.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Gate decides whether the user may reach the task list.
type Gate struct {
	kv       kvstore.Store
	provider Provider
	log      *log.Logger
}

// NewGate creates a gate. provider may be nil if SignIn is never called.
func NewGate(kv kvstore.Store, provider Provider, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gate{kv: kv, provider: provider, log: logger}
}

var errNoProvider = errors.New("no sign-in provider configured")

var errEmptyToken = errors.New("provider returned no access token")

// SignIn runs the provider's flow and records the session marker on success.
func (g *Gate) SignIn(ctx context.Context) Outcome {
	if g.provider == nil {
		return Outcome{Kind: Failure, Message: MessageAuthFailed, Err: errNoProvider}
	}

	res := g.provider.Authorize(ctx)
	switch res.Kind {
	case Success:
		if res.Token == "" {
			g.log.Warn("sign-in failed", "err", errEmptyToken)
			return Outcome{Kind: Failure, Message: MessageAuthFailed, Err: errEmptyToken}
		}
		if err := g.kv.Set(ctx, TokenKey, res.Token); err != nil {
			g.log.Warn("saving session failed", "err", err)
			return Outcome{Kind: Failure, Message: MessageSaveFailed, Err: err}
		}
		g.log.Debug("signed in")
		return Outcome{Kind: Success}
	case Cancelled:
		g.log.Debug("sign-in cancelled")
		return Outcome{Kind: Cancelled}
	default:
		g.log.Warn("sign-in failed", "err", res.Err)
		return Outcome{Kind: Failure, Message: MessageAuthFailed, Err: res.Err}
	}
}

// SignOut removes the session marker. Storage errors are logged and ignored;
// the caller always ends up signed out.
func (g *Gate) SignOut(ctx context.Context) {
	if err := g.kv.Remove(ctx, TokenKey); err != nil {
		g.log.Warn("removing session failed", "err", err)
		return
	}
	g.log.Debug("signed out")
}

// State reports whether a session marker is present. A storage error counts
// as unauthenticated.
func (g *Gate) State(ctx context.Context) State {
	if _, ok := g.Token(ctx); ok {
		return Authenticated
	}
	return Unauthenticated
}

// Token returns the stored session marker.
func (g *Gate) Token(ctx context.Context) (string, bool) {
	token, ok, err := g.kv.Get(ctx, TokenKey)
	if err != nil {
		g.log.Warn("reading session failed", "err", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
