package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newProfileCmd creates the profile command group.
func (cli *CLI) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit your profile",
	}

	cmd.AddCommand(
		cli.newProfileShowCmd(),
		cli.newProfileUpdateCmd(),
		cli.newProfileDeleteCmd(),
	)

	return cmd
}

// newProfileShowCmd creates the profile show command.
func (cli *CLI) newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			_, sess, err := cli.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			profile := sess.Profile
			return NewOutputWriter(format).Write(profile, func() {
				fmt.Printf("Name:        %s\n", profile.FullName())
				fmt.Printf("Email:       %s\n", profile.Email)
				fmt.Printf("Phone:       %s\n", profile.PhoneNumber)
				fmt.Printf("Role:        %s\n", sess.Role)
				if profile.Nationality != "" {
					fmt.Printf("Nationality: %s\n", profile.Nationality)
				}
				if profile.Gender != "" {
					fmt.Printf("Gender:      %s\n", profile.Gender)
				}
			})
		},
	}
}

// newProfileUpdateCmd creates the profile update command.
func (cli *CLI) newProfileUpdateCmd() *cobra.Command {
	var imagePath string
	var set []string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Long: `Update profile fields, optionally uploading a new profile image.

Fields are given as key=value pairs via --set and sent as a form; the image
is attached as a file part.

Examples:
  ewan profile update --set first_name=Sara --set bio="Math tutor"
  ewan profile update --image ./photo.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(set) == 0 && imagePath == "" {
				return fmt.Errorf("nothing to update: pass --set or --image")
			}

			fields := make(map[string]string, len(set))
			for _, kv := range set {
				key, value, found := strings.Cut(kv, "=")
				if !found || key == "" {
					return fmt.Errorf("invalid --set value %q: expected key=value", kv)
				}
				fields[key] = value
			}

			mgr, _, err := cli.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			if err := mgr.Client().UpdateProfile(cmd.Context(), fields, imagePath); err != nil {
				printFieldErrors(err)
				return err
			}

			fmt.Println("Profile updated.")
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Field to update, as key=value (repeatable)")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to a profile image to upload")

	return cmd
}

// newProfileDeleteCmd creates the profile delete command.
func (cli *CLI) newProfileDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, sess, err := cli.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("This permanently deletes the account %s. Type the account email to confirm: ", sess.Profile.Email)
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if strings.TrimSpace(line) != sess.Profile.Email {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := mgr.Client().DeleteAccount(cmd.Context()); err != nil {
				return err
			}

			if err := mgr.Logout(); err != nil {
				return fmt.Errorf("account deleted, but failed to remove stored token: %w", err)
			}

			fmt.Println("Account deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
