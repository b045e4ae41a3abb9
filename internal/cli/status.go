package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/session"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/tokenstore"
)

// StatusOutput represents status information for JSON output.
type StatusOutput struct {
	Endpoint *EndpointStatusInfo `json:"endpoint"`
	Keyring  *KeyringStatus      `json:"keyring"`
	Session  *SessionStatusInfo  `json:"session"`
}

// EndpointStatusInfo represents endpoint information in status output.
type EndpointStatusInfo struct {
	Name     string `json:"name,omitempty"`
	Address  string `json:"address"`
	Override bool   `json:"override"`
}

// KeyringStatus represents keyring availability status.
type KeyringStatus struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// SessionStatusInfo represents session information in status output.
type SessionStatusInfo struct {
	State       string `json:"state"`
	TokenStored bool   `json:"token_stored"`
	Role        string `json:"role,omitempty"`
	UserID      int    `json:"user_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Error       string `json:"error,omitempty"`
}

// newStatusCmd creates the status command.
func (cli *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current session and endpoint status",
		Long: `Display the current session status, including:
- Active endpoint and whether it is an override
- Credential store availability
- Session state and, when authenticated, the signed-in user and role

Examples:
  # Show status
  ewan status

  # Show status in JSON format
  ewan status -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			output := NewOutputWriter(format)
			status := &StatusOutput{
				Endpoint: &EndpointStatusInfo{
					Name:     cli.Config.Current,
					Address:  cli.Config.BaseURL(),
					Override: cli.Config.Override != "",
				},
				Keyring: &KeyringStatus{},
				Session: &SessionStatusInfo{},
			}
			if status.Endpoint.Override {
				status.Endpoint.Name = ""
			}

			if keyringErr := cli.Tokens.IsAvailable(); keyringErr != nil {
				status.Keyring.Available = false
				status.Keyring.Error = keyringErr.Error()
				status.Session.State = session.StateUnauthenticated.String()

				return output.Write(status, func() {
					printEndpointLine(status.Endpoint)
					fmt.Println()
					fmt.Printf("Keyring:     unavailable (%v)\n", keyringErr)
				})
			}
			status.Keyring.Available = true

			if _, err := cli.Tokens.Get(); err == nil {
				status.Session.TokenStored = true
			} else if !errors.Is(err, tokenstore.ErrTokenNotFound) {
				status.Keyring.Error = err.Error()
			}

			mgr := cli.sessionManager()
			state := mgr.Bootstrap(cmd.Context())
			status.Session.State = state.String()
			if cause := mgr.Err(); cause != nil {
				status.Session.Error = cause.Error()
			}

			if sess := mgr.Session(); sess != nil {
				status.Session.Role = string(sess.Role)
				status.Session.UserID = sess.Profile.ID
				status.Session.Name = sess.Profile.FullName()
				status.Session.Email = sess.Profile.Email
			}

			return output.Write(status, func() {
				printEndpointLine(status.Endpoint)
				fmt.Println()
				fmt.Printf("Keyring:     available\n")

				switch state {
				case session.StateAuthenticated:
					fmt.Printf("Session:     authenticated\n")
					fmt.Printf("User:        %s <%s>\n", status.Session.Name, status.Session.Email)
					fmt.Printf("Role:        %s\n", status.Session.Role)
				case session.StateConnectionError:
					fmt.Printf("Session:     connection error\n")
					fmt.Printf("Error:       %v\n", mgr.Err())
					fmt.Println()
					fmt.Println("The stored token was kept. Retry, or switch endpoints with 'ewan endpoint use'.")
				default:
					fmt.Printf("Session:     not logged in\n")
					if status.Session.Error != "" {
						fmt.Printf("Reason:      %s\n", status.Session.Error)
					}
					fmt.Println()
					fmt.Println("Run 'ewan login' to authenticate.")
				}
			})
		},
	}
}

func printEndpointLine(info *EndpointStatusInfo) {
	if info.Override {
		fmt.Printf("Endpoint:    %s (override)\n", info.Address)
		return
	}
	fmt.Printf("Endpoint:    %s (%s)\n", info.Address, info.Name)
}
