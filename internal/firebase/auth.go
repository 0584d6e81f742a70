package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/madspace-uw/madspace/internal/types"
)

// recentSignIn bounds how old a sign-in may be before we refuse to mint a
// session cookie from its ID token.
const recentSignIn = 5 * time.Minute

var ErrStaleSignIn = errors.New("sign-in is too old, please sign in again")

// Auth exchanges Firebase ID tokens for session cookies and verifies them.
// Sign-in itself happens in the browser with the Firebase client SDK.
type Auth struct {
	client *auth.Client
}

// NewAuth creates an Auth client from a Firebase app
func NewAuth(ctx context.Context, app *firebase.App) (*Auth, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Auth client: %w", err)
	}
	return &Auth{client: client}, nil
}

// CreateSession mints a session cookie valid for ttl.
func (a *Auth) CreateSession(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("invalid ID token: %w", err)
	}

	if time.Since(time.Unix(token.AuthTime, 0)) > recentSignIn {
		return "", ErrStaleSignIn
	}

	cookie, err := a.client.SessionCookie(ctx, idToken, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to create session cookie: %w", err)
	}
	return cookie, nil
}

// VerifySession checks a session cookie, including revocation, and returns
// the signed-in user.
func (a *Auth) VerifySession(ctx context.Context, cookie string) (*types.User, error) {
	token, err := a.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	user := &types.User{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		user.Name = name
	}
	return user, nil
}

// RevokeSessions signs the user out everywhere.
func (a *Auth) RevokeSessions(ctx context.Context, uid string) error {
	if err := a.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}
