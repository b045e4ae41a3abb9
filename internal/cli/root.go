// Package cli provides the command-line interface for the Ewan client.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/config"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/logger"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/notify"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/session"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/tokenstore"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Config  *config.Config
	Tokens  tokenstore.TokenStore
	rootCmd *cobra.Command

	// Flags
	endpointFlag string
	verboseFlag  bool
	outputFlag   string
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		Tokens: tokenstore.NewTokenStore(),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "ewan [command]",
		Short: "Ewan - tutoring marketplace client",
		Long: `Ewan is the command-line client for the Ewan Geniuses tutoring
marketplace. It authenticates against the portal backend, keeps your bearer
token in the system credential store (Keychain on macOS, Credential Manager
on Windows, Secret Service on Linux), and exposes the student, teacher and
admin APIs as commands.

The backend is reachable through more than one address (a stable production
portal and a development tunnel). Use 'ewan endpoint' to switch between them
when the default is unreachable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	cli.rootCmd.PersistentFlags().StringVarP(&cli.endpointFlag, "endpoint", "e", "", "Backend address for this invocation only (not persisted)")
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "text", "Output format (text, json)")

	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newVersionCmd(),
		cli.newLoginCmd(),
		cli.newLogoutCmd(),
		cli.newRegisterCmd(),
		cli.newStatusCmd(),
		cli.newProfileCmd(),
		cli.newEndpointCmd(),
		cli.newSubjectsCmd(),
		cli.newTeacherCmd(),
		cli.newStudentCmd(),
		cli.newDoctorCmd(),
	)
}

// initialize loads configuration and sets up the CLI.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.Config = cfg

	// One-shot endpoint override from the flag; never persisted.
	if cli.endpointFlag != "" {
		if err := cli.Config.SetOverride(cli.endpointFlag); err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
	}

	level := cli.Config.LogLevel
	if cli.verboseFlag {
		level = "debug"
	}
	logger.Init(logger.Options{Level: level, Pretty: true})

	return nil
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// apiClient builds an API client for the active endpoint. The base address
// is captured at construction: endpoint changes require a new client, which
// every command gets by re-running this.
func (cli *CLI) apiClient() *api.Client {
	return api.New(cli.Config.BaseURL(), cli.Tokens, api.WithLogger(logger.Get()))
}

// sessionManager builds a session manager bound to the active endpoint.
func (cli *CLI) sessionManager() *session.Manager {
	return session.NewManager(cli.apiClient(), cli.Tokens)
}

// notifier builds the desktop notifier from config.
func (cli *CLI) notifier() notify.Notifier {
	return notify.New(cli.Config.Notifications)
}

// requireSession bootstraps the session and fails unless it settles in
// StateAuthenticated with one of the allowed roles (any role when none are
// given). Connectivity failures surface the retry/switch affordances
// instead of demanding a re-login.
func (cli *CLI) requireSession(ctx context.Context, roles ...session.Role) (*session.Manager, *session.Session, error) {
	mgr := cli.sessionManager()

	switch mgr.Bootstrap(ctx) {
	case session.StateAuthenticated:
		sess := mgr.Session()
		if len(roles) == 0 {
			return mgr, sess, nil
		}
		for _, role := range roles {
			if sess.Role == role {
				return mgr, sess, nil
			}
		}
		return nil, nil, fmt.Errorf("this command requires the %s role (you are signed in as %s)", rolesLabel(roles), sess.Role)

	case session.StateConnectionError:
		if err := cli.notifier().NotifyConnectionIssue(mgr.Client().BaseURL(), mgr.Err()); err != nil {
			log := logger.Get()
			log.Debug().Err(err).Msg("notification failed")
		}
		return nil, nil, connectionAdvice(mgr.Err(), mgr.Client().BaseURL())

	default:
		if cause := mgr.Err(); cause != nil {
			if api.IsKind(cause, api.KindUnauthorized) || api.IsKind(cause, api.KindUnauthorizedRole) {
				if err := cli.notifier().NotifySessionExpired(); err != nil {
					log := logger.Get()
					log.Debug().Err(err).Msg("notification failed")
				}
			}
			return nil, nil, fmt.Errorf("session is no longer valid (%v): run 'ewan login' to sign in again", cause)
		}
		return nil, nil, errors.New("not logged in: run 'ewan login' to sign in")
	}
}

// connectionAdvice turns a connectivity failure into an actionable message.
func connectionAdvice(cause error, address string) error {
	if api.IsKind(cause, api.KindTunnelVerificationRequired) {
		return fmt.Errorf(`the endpoint is behind a tunnel verification page.

  1. Open %s in a browser and complete the verification.
  2. Re-run this command.

Your stored session has been kept`, address)
	}
	return fmt.Errorf(`unable to connect to %s.

Check your connection and retry, or switch endpoints:

  ewan endpoint show
  ewan endpoint use <name>

Your stored session has been kept (%v)`, address, cause)
}

func rolesLabel(roles []session.Role) string {
	out := ""
	for i, role := range roles {
		if i > 0 {
			out += " or "
		}
		out += string(role)
	}
	return out
}
