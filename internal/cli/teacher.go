package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/session"
)

// newTeacherCmd creates the teacher command group. Every subcommand
// requires a session with the teacher role.
func (cli *CLI) newTeacherCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teacher",
		Short: "Teacher dashboard: subjects, courses, orders, wallet and payouts",
	}

	cmd.AddCommand(
		cli.newTeacherSubjectsCmd(),
		cli.newTeacherCoursesCmd(),
		cli.newTeacherOrdersCmd(),
		cli.newTeacherWalletCmd(),
		cli.newTeacherPaymentMethodsCmd(),
		cli.newTeacherInfoCmd(),
	)

	return cmd
}

// newTeacherSubjectsCmd creates the teacher subjects command.
func (cli *CLI) newTeacherSubjectsCmd() *cobra.Command {
	var add []int

	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List or assign your teaching subjects",
		Long: `List the subjects assigned to your teacher account, or assign new ones.

Examples:
  ewan teacher subjects
  ewan teacher subjects --add 12 --add 14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleTeacher, session.RoleAdmin)
			if err != nil {
				return err
			}

			if len(add) > 0 {
				if err := mgr.Client().AddTeacherSubjects(cmd.Context(), add); err != nil {
					printFieldErrors(err)
					return err
				}
				fmt.Printf("Assigned %d subject(s).\n", len(add))
			}

			subjects, err := mgr.Client().TeacherSubjects(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(subjects, func() {
				if len(subjects) == 0 {
					fmt.Println("No subjects assigned.")
					return
				}
				for _, s := range subjects {
					fmt.Printf("  %4d  %s\n", s.ID, s.NameEN)
				}
			})
		},
	}

	cmd.Flags().IntSliceVar(&add, "add", nil, "Subject id to assign (repeatable)")

	return cmd
}

// newTeacherCoursesCmd creates the teacher courses command.
func (cli *CLI) newTeacherCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List your courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleTeacher, session.RoleAdmin)
			if err != nil {
				return err
			}

			courses, err := mgr.Client().TeacherCourses(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(courses, func() {
				if len(courses) == 0 {
					fmt.Println("No courses.")
					return
				}
				for _, c := range courses {
					fmt.Printf("  %4d  %-40s %.2f\n", c.ID, c.Title, c.Price)
				}
			})
		},
	}
}

// newTeacherOrdersCmd creates the teacher orders command.
func (cli *CLI) newTeacherOrdersCmd() *cobra.Command {
	var apply int

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Browse open lesson requests, or apply to one",
		Long: `Browse open student lesson requests.

Examples:
  ewan teacher orders
  ewan teacher orders --apply 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleTeacher, session.RoleAdmin)
			if err != nil {
				return err
			}

			if apply != 0 {
				if err := mgr.Client().ApplyToOrder(cmd.Context(), apply); err != nil {
					return err
				}
				fmt.Printf("Applied to order %d.\n", apply)
				return nil
			}

			orders, err := mgr.Client().TeacherOrders(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(orders, func() {
				if len(orders) == 0 {
					fmt.Println("No open orders.")
					return
				}
				for _, o := range orders {
					fmt.Printf("  %4d  %-12s %s %s - %s\n", o.ID, o.Status,
						o.Student.FirstName, o.Student.LastName, o.Subject.NameEN)
				}
			})
		},
	}

	cmd.Flags().IntVar(&apply, "apply", 0, "Apply to the order with this id")

	return cmd
}

// newTeacherWalletCmd creates the teacher wallet command.
func (cli *CLI) newTeacherWalletCmd() *cobra.Command {
	var withdrawAmount float64
	var withdrawMethod int

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Show your balance, or request a payout",
		Long: `Show your wallet balance.

Examples:
  ewan teacher wallet
  ewan teacher wallet --withdraw 250 --method 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleTeacher, session.RoleAdmin)
			if err != nil {
				return err
			}

			if withdrawAmount > 0 {
				if withdrawMethod == 0 {
					return fmt.Errorf("--withdraw requires --method <payment-method-id>")
				}
				if err := mgr.Client().Withdraw(cmd.Context(), withdrawAmount, withdrawMethod); err != nil {
					printFieldErrors(err)
					return err
				}
				fmt.Printf("Withdrawal of %.2f requested.\n", withdrawAmount)
				return nil
			}

			wallet, err := mgr.Client().TeacherWallet(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(wallet, func() {
				fmt.Printf("Current balance: %.2f\n", wallet.CurrentBalance)
				if wallet.PendingBalance > 0 {
					fmt.Printf("Pending:         %.2f\n", wallet.PendingBalance)
				}
				if wallet.TotalEarnings > 0 {
					fmt.Printf("Total earnings:  %.2f\n", wallet.TotalEarnings)
				}
			})
		},
	}

	cmd.Flags().Float64Var(&withdrawAmount, "withdraw", 0, "Amount to withdraw")
	cmd.Flags().IntVar(&withdrawMethod, "method", 0, "Payment method id to withdraw to")

	return cmd
}

// newTeacherPaymentMethodsCmd creates the teacher payment-methods command.
func (cli *CLI) newTeacherPaymentMethodsCmd() *cobra.Command {
	var addReq api.AddPaymentMethodRequest
	var setDefault, remove string

	cmd := &cobra.Command{
		Use:   "payment-methods",
		Short: "Manage your payout destinations",
		Long: `List, add, and manage saved payout destinations.

Examples:
  ewan teacher payment-methods
  ewan teacher payment-methods --add-bank 2 --account 1234 --holder "Sara Ali" --iban SA000...
  ewan teacher payment-methods --set-default 7
  ewan teacher payment-methods --remove 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleTeacher, session.RoleAdmin)
			if err != nil {
				return err
			}

			switch {
			case addReq.BankID != 0:
				if err := mgr.Client().AddPaymentMethod(cmd.Context(), addReq); err != nil {
					printFieldErrors(err)
					return err
				}
				fmt.Println("Payment method added.")
				return nil

			case setDefault != "":
				id, err := strconv.Atoi(setDefault)
				if err != nil {
					return fmt.Errorf("invalid payment method id %q", setDefault)
				}
				if err := mgr.Client().SetDefaultPaymentMethod(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Printf("Payment method %d set as default.\n", id)
				return nil

			case remove != "":
				id, err := strconv.Atoi(remove)
				if err != nil {
					return fmt.Errorf("invalid payment method id %q", remove)
				}
				if err := mgr.Client().DeletePaymentMethod(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Printf("Payment method %d removed.\n", id)
				return nil
			}

			methods, err := mgr.Client().PaymentMethods(cmd.Context())
			if err != nil {
				return err
			}

			return NewOutputWriter(format).Write(methods, func() {
				if len(methods) == 0 {
					fmt.Println("No payment methods saved.")
					return
				}
				for _, m := range methods {
					marker := " "
					if m.IsDefault {
						marker = "*"
					}
					bank := ""
					if m.Bank != nil {
						bank = m.Bank.NameEN
					}
					fmt.Printf("  %s %4d  %-20s %s (%s)\n", marker, m.ID, bank, m.IBAN, m.AccountHolderName)
				}
			})
		},
	}

	cmd.Flags().IntVar(&addReq.BankID, "add-bank", 0, "Add a payment method at this bank id")
	cmd.Flags().StringVar(&addReq.AccountNumber, "account", "", "Account number for --add-bank")
	cmd.Flags().StringVar(&addReq.AccountHolderName, "holder", "", "Account holder name for --add-bank")
	cmd.Flags().StringVar(&addReq.IBAN, "iban", "", "IBAN for --add-bank")
	cmd.Flags().StringVar(&addReq.SwiftCode, "swift", "", "SWIFT code for --add-bank")
	cmd.Flags().StringVar(&setDefault, "set-default", "", "Mark the payment method with this id as default")
	cmd.Flags().StringVar(&remove, "remove", "", "Remove the payment method with this id")

	return cmd
}

// newTeacherInfoCmd creates the teacher info command.
func (cli *CLI) newTeacherInfoCmd() *cobra.Command {
	var set []string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Update your public teacher info",
		Long: `Update the public fields of your teacher card.

Fields are given as key=value pairs via --set.

Examples:
  ewan teacher info --set bio="Math tutor, 10 years" --set hourly_rate=80`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(set) == 0 {
				return fmt.Errorf("nothing to update: pass --set")
			}

			fields := make(map[string]any, len(set))
			for _, kv := range set {
				key, value, found := strings.Cut(kv, "=")
				if !found || key == "" {
					return fmt.Errorf("invalid --set value %q: expected key=value", kv)
				}
				fields[key] = value
			}

			mgr, _, err := cli.requireSession(cmd.Context(), session.RoleTeacher, session.RoleAdmin)
			if err != nil {
				return err
			}

			if err := mgr.Client().UpdateTeacherInfo(cmd.Context(), fields); err != nil {
				printFieldErrors(err)
				return err
			}

			fmt.Println("Teacher info updated.")
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&set, "set", nil, "Field to update, as key=value (repeatable)")

	return cmd
}
