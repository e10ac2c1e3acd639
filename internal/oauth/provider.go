// Package oauth implements sign-in with Google using the installed-app
// loopback flow with PKCE.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gtodo/internal/config"
	"gtodo/internal/session"
)

const (
	// CallbackPath is where the provider redirects back to.
	CallbackPath = "/callback"

	// DefaultStartPort is the first port tried for the callback server.
	DefaultStartPort = 8085

	// Max port attempts
	maxPortAttempts = 5

	// errorAccessDenied is the OAuth error code sent when the user declines.
	errorAccessDenied = "access_denied"
)

// Scopes requested at sign-in.
var Scopes = []string{"openid", "email", "profile"}

// ErrNoClient means neither oauth_client.json nor a client ID setting exists.
var ErrNoClient = errors.New("no OAuth client configured")

// ClientConfig builds the OAuth client configuration.
// oauth_client.json takes precedence over the per-platform client IDs in
// config.toml.
func ClientConfig(cfg *config.Config) (*oauth2.Config, error) {
	if cfg.HasOAuthClient() {
		clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
		}
		oc, err := google.ConfigFromJSON(clientJSON, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
		}
		return oc, nil
	}

	clientID := cfg.Settings.OAuth.ClientID()
	if clientID == "" {
		return nil, ErrNoClient
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: cfg.Settings.OAuth.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
	}, nil
}

// Provider runs the interactive flow and implements session.Provider.
type Provider struct {
	// Config is the OAuth client configuration. RedirectURL is overwritten.
	Config *oauth2.Config

	// Announce presents the authorization URL to the user.
	// Defaults to printing it to Out.
	Announce func(authURL string) error

	// Out receives the default announcement.
	Out io.Writer

	// StartPort is the first loopback port tried; 0 picks any free port.
	StartPort int

	Log *log.Logger
}

var _ session.Provider = (*Provider)(nil)

// NewProvider creates a provider that prints the authorization URL to out.
func NewProvider(oc *oauth2.Config, out io.Writer, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Provider{
		Config:    oc,
		Out:       out,
		StartPort: DefaultStartPort,
		Log:       logger,
	}
}

// callback is what the redirect handler saw.
type callback struct {
	code      string
	cancelled bool
	err       error
}

// Authorize implements session.Provider. It returns once, after the
// browser is redirected back or ctx is cancelled. There is no timeout.
func (p *Provider) Authorize(ctx context.Context) session.Result {
	port, listener, err := findAvailablePort(p.StartPort)
	if err != nil {
		return failure(fmt.Errorf("could not bind to local port for OAuth callback: %w", err))
	}
	defer listener.Close()

	conf := *p.Config
	conf.RedirectURL = fmt.Sprintf("http://localhost:%d%s", port, CallbackPath)

	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	authURL := conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	results := make(chan callback, 1)
	server := &http.Server{Handler: newCallbackRouter(state, results)}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			deliver(results, callback{err: err})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := p.announce(authURL); err != nil {
		return failure(err)
	}
	p.logger().Debug("waiting for OAuth callback", "port", port)

	var cb callback
	select {
	case cb = <-results:
	case <-ctx.Done():
		return session.Result{Kind: session.Cancelled}
	}

	switch {
	case cb.cancelled:
		return session.Result{Kind: session.Cancelled}
	case cb.err != nil:
		return failure(cb.err)
	}

	token, err := conf.Exchange(ctx, cb.code, oauth2.VerifierOption(verifier))
	if err != nil {
		if ctx.Err() != nil {
			return session.Result{Kind: session.Cancelled}
		}
		return failure(fmt.Errorf("failed to exchange code for token: %w", err))
	}
	if token.AccessToken == "" {
		return failure(errors.New("token response has no access token"))
	}
	return session.Result{Kind: session.Success, Token: token.AccessToken}
}

func (p *Provider) announce(authURL string) error {
	if p.Announce != nil {
		return p.Announce(authURL)
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintln(out, "Open this URL in your browser:")
	fmt.Fprintln(out, authURL)
	return nil
}

func (p *Provider) logger() *log.Logger {
	if p.Log == nil {
		return log.New(io.Discard)
	}
	return p.Log
}

func failure(err error) session.Result {
	return session.Result{Kind: session.Failure, Err: err}
}

// deliver records the first callback only.
func deliver(results chan<- callback, cb callback) {
	select {
	case results <- cb:
	default:
	}
}

func newCallbackRouter(state string, results chan<- callback) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(CallbackPath, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()

		if q.Get("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			deliver(results, callback{err: errors.New("state mismatch in callback")})
			return
		}

		if e := q.Get("error"); e != "" {
			if e == errorAccessDenied {
				writePage(w, "Sign-in cancelled", "You may close this window.")
				deliver(results, callback{cancelled: true})
				return
			}
			writePage(w, "Authentication failed", "You may close this window.")
			deliver(results, callback{err: fmt.Errorf("provider returned error: %s", e)})
			return
		}

		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			deliver(results, callback{err: errors.New("no code in callback")})
			return
		}
		writePage(w, "Authentication successful", "You may close this window.")
		deliver(results, callback{code: code})
	}).Methods(http.MethodGet)
	return r
}

func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, "<html><body><h1>%s</h1><p>%s</p></body></html>", title, body)
}

// findAvailablePort tries ports starting from start. start 0 binds any free
// port.
func findAvailablePort(start int) (int, net.Listener, error) {
	if start == 0 {
		listener, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			return 0, nil, err
		}
		return listener.Addr().(*net.TCPAddr).Port, listener, nil
	}
	for i := 0; i < maxPortAttempts; i++ {
		port := start + i
		addr := fmt.Sprintf("localhost:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}
