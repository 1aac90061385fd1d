// Package identity resolves third-party identities (Discord, Minecraft).
//
// These lookups talk to third-party services directly and never carry
// the application credential. The Discord lookup authenticates with the
// caller's own Discord token; the Minecraft lookups are anonymous.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ImpactDevelopment/impact-cli/internal/config"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
	"github.com/ImpactDevelopment/impact-cli/internal/version"
)

// DiscordUser is the shaped result of a Discord profile lookup.
type DiscordUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Tag           string `json:"tag"`
	AvatarURL     string `json:"avatar"`
	Nitro         bool   `json:"nitro"`
}

// DiscordClient looks up Discord profiles.
type DiscordClient struct {
	httpClient *http.Client
	apiURL     string
	cdnURL     string
	tagStyle   string
}

// NewDiscordClient creates a Discord profile client from config.
func NewDiscordClient(cfg *config.Config) *DiscordClient {
	return &DiscordClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiURL:     strings.TrimRight(cfg.DiscordAPIURL, "/"),
		cdnURL:     strings.TrimRight(cfg.DiscordCDNURL, "/"),
		tagStyle:   cfg.TagStyle,
	}
}

// SetHTTPClient replaces the underlying HTTP client (used in tests).
func (c *DiscordClient) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// CurrentUser fetches the profile behind the given Discord bearer
// token. The token is the user's own, distinct from the application
// credential, and is required.
func (c *DiscordClient) CurrentUser(ctx context.Context, token string) (*DiscordUser, error) {
	if token == "" {
		return nil, output.ErrUsage("a Discord token is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, output.ErrAPI(resp.StatusCode, discordErrorMessage(resp.StatusCode, body))
	}

	var raw struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Username      string `json:"username"`
		Discriminator string `json:"discriminator"`
		Avatar        string `json:"avatar"`
		PremiumType   int    `json:"premium_type"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, output.ErrAPI(resp.StatusCode, "malformed Discord response")
	}

	return &DiscordUser{
		ID:            raw.ID,
		Email:         raw.Email,
		Username:      raw.Username,
		Discriminator: raw.Discriminator,
		Tag:           c.tag(raw.Username, raw.Discriminator),
		AvatarURL:     c.avatarURL(raw.ID, raw.Avatar, raw.Discriminator),
		Nitro:         raw.PremiumType > 0,
	}, nil
}

// tag formats the user's tag. Style "hash" yields username#1234; style
// "plain" yields the raw discriminator, matching the older revision of
// this client.
func (c *DiscordClient) tag(username, discriminator string) string {
	if c.tagStyle == "plain" {
		return discriminator
	}
	if username == "" || discriminator == "" {
		return discriminator
	}
	return username + "#" + discriminator
}

// avatarURL builds the CDN avatar URL: GIF when the hash is flagged
// animated (a_ prefix), PNG otherwise. Users without an avatar hash get
// one of the five default avatars, selected by discriminator mod 5.
// https://discordapp.com/developers/docs/reference#image-formatting
func (c *DiscordClient) avatarURL(id, hash, discriminator string) string {
	if hash != "" && id != "" {
		ext := ".png"
		if strings.HasPrefix(hash, "a_") {
			ext = ".gif"
		}
		return fmt.Sprintf("%s/avatars/%s/%s%s", c.cdnURL, id, hash, ext)
	}

	if discriminator != "" {
		n, err := strconv.Atoi(discriminator)
		if err != nil {
			n = 0
		}
		return fmt.Sprintf("%s/embed/avatars/%d.png", c.cdnURL, n%5)
	}

	return ""
}

func discordErrorMessage(status int, body []byte) string {
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}
	return fmt.Sprintf("Discord request failed (HTTP %d)", status)
}
