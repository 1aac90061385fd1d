package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ImpactDevelopment/impact-cli/internal/config"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
	"github.com/ImpactDevelopment/impact-cli/internal/version"
)

// MinecraftProfile is the resolved result of a Minecraft lookup.
type MinecraftProfile struct {
	ID   string `json:"id"` // canonical hyphenated UUID
	Name string `json:"name"`
}

// ErrNoUser is the business failure for a name or id no provider could
// resolve. Distinct from transport failures, which keep their network
// error code.
var ErrNoUser = &output.Error{
	Code:    output.CodeNotFound,
	Message: "No user found",
}

// provider is one profile endpoint. Both known providers return name
// and id JSON properties and accept either a name or a UUID as input.
type provider struct {
	name    string
	baseURL string
}

// MinecraftResolver resolves Minecraft profiles against an ordered list
// of providers, trying each in sequence and stopping at first success.
type MinecraftResolver struct {
	httpClient *http.Client
	providers  []provider
	verbose    int
}

// NewMinecraftResolver creates a resolver with the primary and fallback
// providers from config.
func NewMinecraftResolver(cfg *config.Config) *MinecraftResolver {
	return &MinecraftResolver{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		providers: []provider{
			{name: "MineTools", baseURL: cfg.MinecraftAPIURL},
			{name: "MC Heads", baseURL: cfg.MinecraftFallback},
		},
	}
}

// SetHTTPClient replaces the underlying HTTP client (used in tests).
func (r *MinecraftResolver) SetHTTPClient(hc *http.Client) {
	r.httpClient = hc
}

// SetVerbose sets the logging level; any level above 0 enables
// fallback warnings on stderr.
func (r *MinecraftResolver) SetVerbose(level int) {
	r.verbose = level
}

// Lookup resolves a profile by username or UUID.
//
// Providers are tried strictly in order, never concurrently; a
// provider's failure is observed but not surfaced unless every provider
// fails. When the final provider answered but its body did not identify
// a user, the result is ErrNoUser; when it never answered, the
// transport error is surfaced instead so infrastructure failures stay
// distinguishable from business ones.
func (r *MinecraftResolver) Lookup(ctx context.Context, nameOrID string) (*MinecraftProfile, error) {
	query := strings.TrimSpace(nameOrID)
	if query == "" {
		return nil, output.ErrUsage("a username or UUID is required")
	}

	var lastErr error
	for i, p := range r.providers {
		profile, err := r.lookupOne(ctx, p, query)
		if err == nil {
			return profile, nil
		}
		if ctx.Err() != nil {
			return nil, output.ErrNetwork(ctx.Err())
		}

		lastErr = err
		if r.verbose >= 1 && i < len(r.providers)-1 {
			fmt.Fprintf(os.Stderr, "warning: %s lookup failed, falling back to %s\n",
				p.name, r.providers[i+1].name)
		}
	}

	return nil, lastErr
}

// lookupOne queries a single provider and applies the shared failure
// predicate: transport error, malformed body, a status field present
// and not "ok", or an id that is missing or the literal "null".
func (r *MinecraftResolver) lookupOne(ctx context.Context, p provider, query string) (*MinecraftProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+url.PathEscape(query), nil)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, output.ErrAPI(resp.StatusCode, MessageSnippet(body, resp.StatusCode))
	}

	var raw struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status any    `json:"status"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrNoUser
	}

	// MineTools reports errors in-band via a status field on a 200.
	if raw.Status != nil && !strings.EqualFold(fmt.Sprint(raw.Status), "ok") {
		return nil, ErrNoUser
	}
	if raw.ID == "" || raw.ID == "null" {
		return nil, ErrNoUser
	}

	id, err := NormalizeUUID(raw.ID)
	if err != nil {
		return nil, ErrNoUser
	}

	return &MinecraftProfile{ID: id, Name: raw.Name}, nil
}

// NormalizeUUID canonicalizes a Minecraft UUID into hyphenated
// 8-4-4-4-12 form. All hyphens are stripped first, so the function is
// idempotent whether the input had no hyphens, the right hyphens, or
// hyphens in the wrong places.
func NormalizeUUID(id string) (string, error) {
	stripped := strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if len(stripped) != 32 {
		return "", fmt.Errorf("invalid UUID %q: expected 32 hex characters, got %d", id, len(stripped))
	}

	dashed := stripped[0:8] + "-" + stripped[8:12] + "-" + stripped[12:16] + "-" + stripped[16:20] + "-" + stripped[20:]
	if _, err := uuid.Parse(dashed); err != nil {
		return "", fmt.Errorf("invalid UUID %q: %w", id, err)
	}
	return dashed, nil
}

// MessageSnippet extracts a short message from a provider error body.
func MessageSnippet(body []byte, status int) string {
	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}
	return fmt.Sprintf("profile request failed (HTTP %d)", status)
}
