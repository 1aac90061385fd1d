// Package appctx provides application context helpers.
package appctx

import (
	"context"

	"github.com/ImpactDevelopment/impact-cli/internal/api"
	"github.com/ImpactDevelopment/impact-cli/internal/auth"
	"github.com/ImpactDevelopment/impact-cli/internal/config"
	"github.com/ImpactDevelopment/impact-cli/internal/identity"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config    *config.Config
	Auth      *auth.Manager
	API       *api.Client
	Account   *api.Account
	Discord   *identity.DiscordClient
	Minecraft *identity.MinecraftResolver
	Output    *output.Writer

	// Flags holds the global flag values
	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	Verbose int // count flag: -v, -vv
	BaseURL string
	Format  string
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config) *App {
	authMgr := auth.NewManager(cfg, nil)
	client := api.NewClient(cfg, authMgr)

	return &App{
		Config:    cfg,
		Auth:      authMgr,
		API:       client,
		Account:   api.NewAccount(client, authMgr),
		Discord:   identity.NewDiscordClient(cfg),
		Minecraft: identity.NewMinecraftResolver(cfg),
	}
}

// ApplyFlags resolves output format and verbosity from flags and config.
func (a *App) ApplyFlags() {
	format := output.FormatAuto
	switch {
	case a.Flags.Quiet:
		format = output.FormatQuiet
	case a.Flags.JSON:
		format = output.FormatJSON
	default:
		switch a.Config.Format {
		case "json":
			format = output.FormatJSON
		case "text":
			format = output.FormatText
		case "quiet":
			format = output.FormatQuiet
		}
	}
	a.Output = output.New(output.Options{Format: format})

	verbosity := a.Flags.Verbose
	if verbosity == 0 && a.Config.Verbose != nil {
		verbosity = *a.Config.Verbose
	}
	a.API.SetVerbose(verbosity)
	a.Minecraft.SetVerbose(verbosity)
}

// OK writes a success response via the configured output writer.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	return a.Output.OK(data, opts...)
}

// Err writes an error response via the configured output writer.
func (a *App) Err(err error) error {
	return a.Output.Err(err)
}

// WithApp returns a context carrying the app.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext extracts the app from a context, or nil.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
