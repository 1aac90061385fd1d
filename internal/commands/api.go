package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/ImpactDevelopment/impact-cli/internal/api"
	"github.com/ImpactDevelopment/impact-cli/internal/appctx"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// NewAPICmd creates the api command for raw API access.
func NewAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api <verb> <path>",
		Short: "Raw API access",
		Long:  "Make raw requests to any Impact API endpoint. Useful for operations not covered by dedicated commands.",
	}

	cmd.AddCommand(
		newAPIVerbCmd("get", http.MethodGet, false),
		newAPIVerbCmd("post", http.MethodPost, true),
		newAPIVerbCmd("put", http.MethodPut, true),
		newAPIVerbCmd("patch", http.MethodPatch, true),
	)

	return cmd
}

func newAPIVerbCmd(use, method string, hasBody bool) *cobra.Command {
	var data string
	var filter string
	var noAuth bool

	cmd := &cobra.Command{
		Use:   use + " <path>",
		Short: strings.ToUpper(use) + " request to the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app(cmd)
			if err != nil {
				return err
			}

			var body any
			if hasBody && data != "" {
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return output.ErrUsageHint(
						"Invalid JSON data",
						fmt.Sprintf("JSON parse error: %v", err),
					)
				}
			}

			var opts []api.RequestOption
			if noAuth {
				opts = append(opts, api.WithoutAuth())
			}

			resp, err := a.API.Do(cmd.Context(), method, parsePath(args[0]), body, opts...)
			if err != nil {
				return err
			}

			if filter != "" {
				return runFilter(a, filter, resp.Data)
			}
			return a.OK(resp.Data)
		},
	}

	if hasBody {
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	}
	cmd.Flags().StringVar(&filter, "filter", "", "jq expression applied to the response")
	cmd.Flags().BoolVar(&noAuth, "no-auth", false, "Send the request without the stored credential")

	return cmd
}

// runFilter applies a jq expression to the response body and prints
// each result.
func runFilter(a *appctx.App, filter string, data json.RawMessage) error {
	query, err := gojq.Parse(filter)
	if err != nil {
		return output.ErrUsageHint("Invalid jq filter", err.Error())
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return output.ErrAPI(0, "response is not JSON, cannot filter")
	}

	iter := query.Run(value)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return output.ErrUsageHint("jq filter failed", err.Error())
		}
		if err := a.OK(v); err != nil {
			return err
		}
	}
	return nil
}

// parsePath normalizes a user-supplied API path.
func parsePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
