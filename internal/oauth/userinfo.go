package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Account describes the signed-in Google account.
type Account struct {
	Email string
	Name  string
}

// Userinfo looks up the account the access token belongs to.
// The token is used as is: it is never refreshed.
func Userinfo(ctx context.Context, accessToken string, opts ...option.ClientOption) (Account, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)

	svc, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		return Account{}, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Account{}, wrapError(err)
	}
	return Account{Email: info.Email, Name: info.Name}, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: gtodo login)")
		}
	}
	return err
}
