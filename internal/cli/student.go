package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/session"
)

// newStudentCmd creates the student command group. Every subcommand
// requires a session with the student role.
func (cli *CLI) newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Student dashboard: services and teachers",
	}

	cmd.AddCommand(
		cli.newStudentServicesCmd(),
		cli.newStudentTeachersCmd(),
	)

	return cmd
}

// newStudentServicesCmd creates the student services command.
func (cli *CLI) newStudentServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List bookable services",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleStudent, session.RoleAdmin)
			if err != nil {
				return err
			}

			services, err := mgr.Client().StudentServices(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(services, func() {
				if len(services) == 0 {
					fmt.Println("No services available.")
					return
				}
				for _, s := range services {
					fmt.Printf("  %4d  %s\n", s.ID, s.NameEN)
				}
			})
		},
	}
}

// newStudentTeachersCmd creates the student teachers command.
func (cli *CLI) newStudentTeachersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teachers",
		Short: "List available teachers",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleStudent, session.RoleAdmin)
			if err != nil {
				return err
			}

			teachers, err := mgr.Client().StudentTeachers(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(teachers, func() {
				if len(teachers) == 0 {
					fmt.Println("No teachers available.")
					return
				}
				for _, t := range teachers {
					fmt.Printf("  %4d  %s %s\n", t.ID, t.FirstName, t.LastName)
				}
			})
		},
	}
}
