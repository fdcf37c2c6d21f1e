package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var expiredStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("203")).
	Bold(true)

// terminalNavigator is the CLI stand-in for a browser redirect: it prints
// the login entry point instead of navigating a window.
type terminalNavigator struct {
	apiEndpoint string
}

func newTerminalNavigator(apiEndpoint string) *terminalNavigator {
	return &terminalNavigator{apiEndpoint: apiEndpoint}
}

func (n *terminalNavigator) Navigate(dest string) {
	fmt.Println(expiredStyle.Render("Session expired."))
	fmt.Printf("Sign in again: %s%s\n", n.apiEndpoint, dest)
	fmt.Println("Or run: stash auth login")
}

func (n *terminalNavigator) CurrentPath() string {
	// A terminal has no login surface to already be on.
	return ""
}
