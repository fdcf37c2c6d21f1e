package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"modelstash.io/cli/internal/core/domain"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// newAuthCommand creates the auth subcommand
func newAuthCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage your Modelstash session",
		Long:  `Sign in and out of Modelstash and inspect the current session.`,
	}

	cmd.AddCommand(newAuthLoginCommand(container))
	cmd.AddCommand(newAuthStatusCommand(container))
	cmd.AddCommand(newAuthLogoutCommand(container))

	return cmd
}

// newAuthLoginCommand creates the auth login subcommand
func newAuthLoginCommand(container *Container) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Modelstash",
		Long:  `Exchange your Modelstash credentials for a session token pair.`,
		Example: `  stash auth login --email you@example.com
  stash auth login --email you@example.com --password s3cret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("email is required")
			}

			if password == "" {
				fmt.Print("Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			ctx := context.Background()
			pair, err := container.AuthClient.Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := container.Store.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			container.Guard.Reset()

			fmt.Println(okStyle.Render("Signed in successfully"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	cmd.MarkFlagRequired("email")

	return cmd
}

// newAuthStatusCommand creates the auth status subcommand
func newAuthStatusCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			accessToken, err := container.Store.AccessToken()
			if err != nil {
				return fmt.Errorf("failed to read session: %w", err)
			}

			fmt.Printf("%s %s\n", labelStyle.Render("API endpoint:"), container.Config.APIEndpoint)

			if accessToken == "" {
				fmt.Println(warnStyle.Render("Not signed in"))
				fmt.Println("Run 'stash auth login' to sign in")
				return nil
			}

			fmt.Printf("%s %s\n", labelStyle.Render("Access token:"), domain.MaskToken(accessToken))
			fmt.Println(okStyle.Render("Signed in"))
			return nil
		},
	}
}

// newAuthLogoutCommand creates the auth logout subcommand
func newAuthLogoutCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Store.Clear(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}

			fmt.Println(okStyle.Render("Signed out"))
			return nil
		},
	}
}
