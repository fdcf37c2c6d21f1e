package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	infrahttp "modelstash.io/cli/internal/infrastructure/http"
)

// newAPICommand creates the api subcommand for raw authenticated requests.
func newAPICommand(container *Container) *cobra.Command {
	var data string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "api METHOD PATH",
		Short: "Issue an authenticated API request",
		Long: `Send a raw request to the Modelstash API through the authenticated
pipeline. Expired sessions are refreshed and rate-limited calls are retried
automatically.`,
		Example: `  stash api GET /collections
  stash api POST /models --data '{"name":"dragon","tags":["fantasy"]}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			path := args[1]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			var body io.Reader
			if data != "" {
				body = strings.NewReader(data)
			}

			req, err := http.NewRequestWithContext(ctx, method, container.Config.APIEndpoint+path, body)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			if data != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := container.Pipeline.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}

			if err := infrahttp.CheckResponse(resp); err != nil {
				return err
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			fmt.Println(strings.TrimSpace(string(respBody)))
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON request body")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	return cmd
}
