package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// endpointOutput represents endpoint listing output for JSON.
type endpointOutput struct {
	Active    string           `json:"active"`
	Override  string           `json:"override,omitempty"`
	Endpoints []endpointDetail `json:"endpoints"`
}

// endpointDetail represents one endpoint preset for JSON.
type endpointDetail struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Current bool   `json:"current"`
}

// newEndpointCmd creates the endpoint command group.
func (cli *CLI) newEndpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Manage the backend endpoint",
		Long: `Manage which backend address the client talks to.

The portal is reachable through more than one address: the stable production
portal ('live') and a development tunnel ('tunnel') that may serve a one-time
verification page. A free-text address can be set for operator use.

Changing the endpoint takes effect on the next command: every command builds
its client from the saved configuration, so no request ever mixes addresses.`,
	}

	cmd.AddCommand(
		cli.newEndpointShowCmd(),
		cli.newEndpointUseCmd(),
		cli.newEndpointSetCmd(),
		cli.newEndpointResetCmd(),
	)

	return cmd
}

// newEndpointShowCmd creates the endpoint show command.
func (cli *CLI) newEndpointShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active endpoint and available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			out := endpointOutput{
				Active:   cli.Config.BaseURL(),
				Override: cli.Config.Override,
			}
			for _, ep := range cli.Config.Endpoints {
				out.Endpoints = append(out.Endpoints, endpointDetail{
					Name:    ep.Name,
					Address: ep.Address,
					Current: cli.Config.Override == "" && ep.Name == cli.Config.Current,
				})
			}

			return NewOutputWriter(format).Write(out, func() {
				fmt.Printf("Active: %s\n", out.Active)
				if out.Override != "" {
					fmt.Println("        (free-text override; 'ewan endpoint reset' to clear)")
				}
				fmt.Println()
				fmt.Println("Presets:")
				for _, ep := range out.Endpoints {
					marker := " "
					if ep.Current {
						marker = "*"
					}
					fmt.Printf("  %s %-8s %s\n", marker, ep.Name, ep.Address)
				}
			})
		},
	}
}

// newEndpointUseCmd creates the endpoint use command.
func (cli *CLI) newEndpointUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Switch to a named endpoint preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Config.SetCurrent(args[0]); err != nil {
				return err
			}
			if err := cli.Config.Save(); err != nil {
				return err
			}

			fmt.Printf("Endpoint switched to %q (%s).\n", args[0], cli.Config.BaseURL())
			fmt.Println("All subsequent commands use the new address.")
			return nil
		},
	}
}

// newEndpointSetCmd creates the endpoint set command.
func (cli *CLI) newEndpointSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <address>",
		Short: "Set a free-text backend address",
		Long: `Set a free-text backend address that takes precedence over the presets.

The address must be a full http(s) URL including the API path prefix, e.g.
https://portal.example.com/api.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.Config.SetOverride(args[0]); err != nil {
				return err
			}
			if err := cli.Config.Save(); err != nil {
				return err
			}

			fmt.Printf("Endpoint override set to %s.\n", args[0])
			fmt.Println("All subsequent commands use the new address.")
			return nil
		},
	}
}

// newEndpointResetCmd creates the endpoint reset command.
func (cli *CLI) newEndpointResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear any override and return to the default endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.Config.ResetEndpoint()
			if err := cli.Config.Save(); err != nil {
				return err
			}

			fmt.Printf("Endpoint reset to %q (%s).\n", cli.Config.Current, cli.Config.BaseURL())
			return nil
		},
	}
}
