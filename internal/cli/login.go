package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newLoginCmd creates the login command.
func (cli *CLI) newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and securely store the session token",
		Long: `Authenticate against the portal backend with your email and password.

On success the bearer token is stored in your system's credential store
(Keychain on macOS, Credential Manager on Windows, Secret Service on Linux)
and used for all subsequent commands.

The password is prompted interactively, or read from the EWAN_PASSWORD
environment variable for scripted use.

Examples:
  # Interactive login
  ewan login

  # Email via flag, password prompted
  ewan login --email sara@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Tokens.IsAvailable(); err != nil {
				return fmt.Errorf("cannot store token: %w", err)
			}

			reader := bufio.NewReader(os.Stdin)

			if email == "" {
				fmt.Print("Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}

			password := os.Getenv("EWAN_PASSWORD")
			if password == "" {
				fmt.Print("Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			mgr := cli.sessionManager()
			sess, err := mgr.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Println("Success! You are now authenticated.")
			fmt.Printf("Signed in as %s (%s).\n", sess.Profile.FullName(), sess.Role)
			fmt.Println("Token stored securely in your system's credential store.")

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")

	return cmd
}
