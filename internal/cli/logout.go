package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLogoutCmd creates the logout command.
func (cli *CLI) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the session and remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := cli.sessionManager()
			if err := mgr.Logout(); err != nil {
				return fmt.Errorf("failed to remove stored token: %w", err)
			}

			fmt.Println("Logged out. Stored token removed.")
			return nil
		},
	}
}
