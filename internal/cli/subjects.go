package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
)

// newSubjectsCmd creates the subjects command group over the reference data
// endpoints.
func (cli *CLI) newSubjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "Browse education levels, classes and subjects",
	}

	cmd.AddCommand(
		cli.newSubjectsLevelsCmd(),
		cli.newSubjectsClassesCmd(),
		cli.newSubjectsListCmd(),
	)

	return cmd
}

// newSubjectsLevelsCmd creates the subjects levels command.
func (cli *CLI) newSubjectsLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List education levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			if _, _, err := cli.requireSession(cmd.Context()); err != nil {
				return err
			}

			levels, err := cli.apiClient().EducationLevels(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(levels, func() {
				printReferenceItems(levels)
			})
		},
	}
}

// newSubjectsClassesCmd creates the subjects classes command.
func (cli *CLI) newSubjectsClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes <level-id>",
		Short: "List the classes of an education level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			levelID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid level id %q", args[0])
			}

			if _, _, err := cli.requireSession(cmd.Context()); err != nil {
				return err
			}

			classes, err := cli.apiClient().Classes(cmd.Context(), levelID)
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(classes, func() {
				printReferenceItems(classes)
			})
		},
	}
}

// newSubjectsListCmd creates the subjects list command.
func (cli *CLI) newSubjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <class-id>",
		Short: "List the subjects of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			classID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid class id %q", args[0])
			}

			if _, _, err := cli.requireSession(cmd.Context()); err != nil {
				return err
			}

			subjects, err := cli.apiClient().Subjects(cmd.Context(), classID)
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(subjects, func() {
				printReferenceItems(subjects)
			})
		},
	}
}

func printReferenceItems(items []api.ReferenceItem) {
	if len(items) == 0 {
		fmt.Println("(none)")
		return
	}
	for _, item := range items {
		fmt.Printf("  %4d  %s\n", item.ID, item.DisplayName())
	}
}
