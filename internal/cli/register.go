package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
)

// newRegisterCmd creates the register command.
func (cli *CLI) newRegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long: `Create a new account on the portal backend.

Fields not supplied via flags are prompted interactively. Validation
failures are reported per field, both for local checks and for rejections
returned by the backend.

Examples:
  ewan register --first-name Sara --last-name Ali --email sara@example.com \
    --phone +966500000000 --gender female --nationality SA`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			prompt := func(label string, dst *string) error {
				if *dst != "" {
					return nil
				}
				fmt.Printf("%s: ", label)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
				}
				*dst = strings.TrimSpace(line)
				return nil
			}

			for _, field := range []struct {
				label string
				dst   *string
			}{
				{"First name", &req.FirstName},
				{"Last name", &req.LastName},
				{"Gender (male/female)", &req.Gender},
				{"Email", &req.Email},
				{"Phone number", &req.PhoneNumber},
				{"Nationality", &req.Nationality},
				{"Password", &req.Password},
				{"Confirm password", &req.PasswordConfirmation},
			} {
				if err := prompt(field.label, field.dst); err != nil {
					return err
				}
			}

			if err := cli.apiClient().Register(cmd.Context(), req); err != nil {
				printFieldErrors(err)
				return err
			}

			fmt.Println()
			fmt.Println("Account created. Run 'ewan login' to sign in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Gender, "gender", "", "Gender (male or female)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.Nationality, "nationality", "", "Nationality")

	return cmd
}

// printFieldErrors prints the field-level messages of a validation failure
// so the user can correct their input inline.
func printFieldErrors(err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || len(apiErr.Fields) == 0 {
		return
	}

	names := make([]string, 0, len(apiErr.Fields))
	for name := range apiErr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "Validation failed:")
	for _, name := range names {
		for _, msg := range apiErr.Fields[name] {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", name, msg)
		}
	}
}
