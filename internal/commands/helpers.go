// Package commands implements the CLI commands.
package commands

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ImpactDevelopment/impact-cli/internal/appctx"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// app extracts the application context set up by the root command.
func app(cmd *cobra.Command) (*appctx.App, error) {
	a := appctx.FromContext(cmd.Context())
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}

// addVerificationFlag registers the shared CAPTCHA-response flag used by
// every endpoint that requires human verification.
func addVerificationFlag(fs *pflag.FlagSet, p *string) {
	fs.StringVar(p, "verification", "", "Human-verification (CAPTCHA) response token")
}

// parseFields converts key=value arguments into form values.
func parseFields(args []string) (url.Values, error) {
	fields := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, output.ErrUsage(fmt.Sprintf("invalid field %q, expected key=value", arg))
		}
		fields.Set(key, value)
	}
	return fields, nil
}

// parseTypedFields converts key=value arguments into a JSON-ready map,
// recognizing booleans and numbers so PATCH bodies round-trip with the
// server's types.
func parseTypedFields(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, output.ErrUsage(fmt.Sprintf("invalid field %q, expected key=value", arg))
		}

		switch {
		case value == "true":
			patch[key] = true
		case value == "false":
			patch[key] = false
		default:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				patch[key] = n
			} else {
				patch[key] = value
			}
		}
	}
	return patch, nil
}
