package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/ImpactDevelopment/impact-cli/internal/auth"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// Profile is the server-defined user record. Fields are opaque to this
// client except for email, which classifies accounts as full vs
// provisional.
type Profile map[string]any

// Email returns the profile's email field, or "" when absent.
func (p Profile) Email() string {
	if p == nil {
		return ""
	}
	if email, ok := p["email"].(string); ok {
		return email
	}
	return ""
}

// Account exposes the account operations of the Impact API.
//
// It holds a single-slot "current user" snapshot, overwritten on every
// successful profile fetch and never merged. Like the credential itself
// the snapshot is last-writer-wins shared state.
type Account struct {
	client *Client
	auth   *auth.Manager
	user   Profile
}

// NewAccount creates an account client on top of the dispatcher.
func NewAccount(client *Client, authMgr *auth.Manager) *Account {
	return &Account{client: client, auth: authMgr}
}

// CurrentUser returns the last successfully fetched profile, or nil.
func (a *Account) CurrentUser() Profile {
	return a.user
}

// IsLoggedIn reports whether a credential is stored. No network call.
func (a *Account) IsLoggedIn() bool {
	return a.auth.IsLoggedIn()
}

// IsFullAccount reports whether the given profile has a non-empty
// email. A nil profile falls back to the current-user snapshot; false
// when neither exists.
func (a *Account) IsFullAccount(user Profile) bool {
	if user == nil {
		user = a.user
	}
	return user.Email() != ""
}

// Me fetches the authenticated user's profile from GET /user/me and
// updates the current-user snapshot.
func (a *Account) Me(ctx context.Context) (Profile, error) {
	resp, err := a.client.Get(ctx, "/user/me")
	if err != nil {
		return nil, err
	}
	return a.storeUser(resp)
}

// UpdateMe patches the authenticated user's profile and updates the
// current-user snapshot with the server's response.
//
// The body is always JSON: the backend's form binder does not reliably
// decode booleans, so form encoding must not be used for this endpoint.
func (a *Account) UpdateMe(ctx context.Context, patch map[string]any) (Profile, error) {
	resp, err := a.client.Patch(ctx, "/user/me", patch)
	if err != nil {
		return nil, err
	}
	return a.storeUser(resp)
}

func (a *Account) storeUser(resp *Response) (Profile, error) {
	var user Profile
	if err := resp.UnmarshalData(&user); err != nil {
		return nil, output.ErrAPI(resp.StatusCode, "malformed profile response")
	}
	a.user = user
	return user, nil
}

// LoginWithPassword authenticates with email and password via POST
// /login/password and stores the returned token.
func (a *Account) LoginWithPassword(ctx context.Context, email, password string) error {
	fields := url.Values{}
	fields.Set("email", email)
	fields.Set("password", password)
	return a.login(ctx, "/login/password", fields)
}

// LoginWithDiscord authenticates with a Discord OAuth token via POST
// /login/discord and stores the returned token.
func (a *Account) LoginWithDiscord(ctx context.Context, discordToken string) error {
	fields := url.Values{}
	fields.Set("access_token", discordToken)
	return a.login(ctx, "/login/discord", fields)
}

func (a *Account) login(ctx context.Context, path string, fields url.Values) error {
	resp, err := a.client.Post(ctx, path, fields, AsForm(), WithoutAuth())
	if err != nil {
		return err
	}

	token := resp.Text()
	if token == "" {
		return output.ErrAPI(resp.StatusCode, "login succeeded but no token was returned")
	}
	return a.auth.SetToken(token)
}

// Logout clears the stored credential.
func (a *Account) Logout() error {
	a.user = nil
	return a.auth.Clear()
}

// Register submits registration fields to POST /register/token and
// stores the returned token. When a credential is already stored the
// submission carries it, upgrading the anonymous or partial session;
// otherwise it goes out unauthenticated.
func (a *Account) Register(ctx context.Context, fields url.Values) error {
	opts := []RequestOption{AsForm()}
	if !a.auth.IsLoggedIn() {
		opts = append(opts, WithoutAuth())
	}

	resp, err := a.client.Post(ctx, "/register/token", fields, opts...)
	if err != nil {
		return err
	}

	token := resp.Text()
	if token == "" {
		return output.ErrAPI(resp.StatusCode, "registration succeeded but no token was returned")
	}
	return a.auth.SetToken(token)
}

// RequestPasswordReset asks the server to email a reset link. The
// verification argument is the human-verification (CAPTCHA) response
// the server requires alongside the email. Unauthenticated.
func (a *Account) RequestPasswordReset(ctx context.Context, email, verification string) (string, error) {
	fields := url.Values{}
	fields.Set("email", email)
	fields.Set("g-recaptcha-response", verification)

	resp, err := a.client.Post(ctx, "/password/reset", fields, AsForm(), WithoutAuth())
	if err != nil {
		return "", err
	}
	return messageOrBody(resp), nil
}

// ChangePassword sets a new password for the logged-in user via an
// authenticated PUT /password/me. Use ResetPassword instead when
// holding an emailed reset token rather than a live session.
func (a *Account) ChangePassword(ctx context.Context, newPassword string) (string, error) {
	fields := url.Values{}
	fields.Set("password", newPassword)

	resp, err := a.client.Put(ctx, "/password/me", fields, AsForm())
	if err != nil {
		return "", err
	}
	return messageOrBody(resp), nil
}

// ResetPassword sets a new password using an emailed reset token via an
// unauthenticated PUT /password/{token}.
func (a *Account) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	fields := url.Values{}
	fields.Set("token", token)
	fields.Set("password", newPassword)

	resp, err := a.client.Put(ctx, "/password/"+url.PathEscape(token), fields, AsForm(), WithoutAuth())
	if err != nil {
		return "", err
	}
	return messageOrBody(resp), nil
}

// TokenInfo fetches metadata about a registration token from GET
// /checktoken. Unauthenticated.
func (a *Account) TokenInfo(ctx context.Context, token string) (json.RawMessage, error) {
	resp, err := a.client.Get(ctx, "/checktoken?token="+url.QueryEscape(token), WithoutAuth())
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// messageOrBody resolves a response's message field when present,
// otherwise the whole body as text.
func messageOrBody(resp *Response) string {
	return MessageFromBody(resp.StatusCode, resp.Data)
}
