package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"modelstash.io/cli/internal/auth"
	infraauth "modelstash.io/cli/internal/infrastructure/auth"
	"modelstash.io/cli/internal/infrastructure/config"
	infrahttp "modelstash.io/cli/internal/infrastructure/http"
	"modelstash.io/cli/internal/infrastructure/session"
)

var (
	Version = "dev" // Overridden by ldflags
)

// Container holds the dependencies shared by CLI commands.
type Container struct {
	Config     *config.Config
	Store      auth.CredentialStore
	AuthClient *infraauth.AuthClient
	Guard      *session.Guard
	Pipeline   *infrahttp.Pipeline
}

// NewContainer wires the client layer for CLI use.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := infraauth.NewFileCredentialStore("")
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	container := &Container{
		Config: cfg,
		Store:  store,
	}
	container.rewire()
	return container, nil
}

// rewire rebuilds the endpoint-bound pieces; called at startup and again
// when a flag overrides the API endpoint.
func (c *Container) rewire() {
	c.AuthClient = infraauth.NewAuthClient(c.Config.APIEndpoint)
	c.Guard = session.NewGuard(c.Store, newTerminalNavigator(c.Config.APIEndpoint))
	coordinator := infraauth.NewRefreshCoordinator(c.Store, c.AuthClient)
	c.Pipeline = infrahttp.NewPipeline(c.Store, coordinator, c.Guard)
}

// NewRootCommand builds the base command.
func NewRootCommand(container *Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stash",
		Short: "Modelstash CLI - manage your model collections from the terminal",
		Long: `Modelstash CLI talks to the Modelstash API with automatic session
handling: access tokens are attached to every request, expired sessions are
refreshed transparently, and rate-limited calls back off and retry.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" && cmd.Flags().Changed("api-url") {
				container.Config.APIEndpoint = strings.TrimRight(apiURL, "/")
				container.rewire()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("api-url", "", "API endpoint URL (overrides config)")

	rootCmd.AddCommand(newAuthCommand(container))
	rootCmd.AddCommand(newAPICommand(container))
	rootCmd.AddCommand(newWatchCommand(container))

	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	container, err := NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := NewRootCommand(container).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
