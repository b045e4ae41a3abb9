package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/api"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/config"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/session"
	"github.com/MeidoSUD/Ewan-Geniuses-Portal/internal/tokenstore"
)

// CheckResult represents the result of a diagnostic check.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Fix     string      `json:"fix,omitempty"`
}

// CheckStatus represents the status of a diagnostic check.
type CheckStatus int

const (
	// CheckOK indicates the check passed.
	CheckOK CheckStatus = iota
	// CheckWarning indicates a non-critical issue.
	CheckWarning
	// CheckError indicates a critical failure.
	CheckError
	// CheckSkipped indicates the check was skipped.
	CheckSkipped
)

// String returns the status name.
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckWarning:
		return "WARN"
	case CheckError:
		return "ERROR"
	case CheckSkipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Icon returns the status icon for display.
func (s CheckStatus) Icon() string {
	switch s {
	case CheckOK:
		return "[OK]"
	case CheckWarning:
		return "[!!]"
	case CheckError:
		return "[XX]"
	case CheckSkipped:
		return "[--]"
	default:
		return "[??]"
	}
}

// MarshalJSON implements json.Marshaler.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// DoctorOutput represents the doctor command output for JSON.
type DoctorOutput struct {
	Checks      []CheckResult `json:"checks"`
	HasErrors   bool          `json:"has_errors"`
	HasWarnings bool          `json:"has_warnings"`
}

// newDoctorCmd creates the doctor command.
func (cli *CLI) newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks to identify and troubleshoot common issues.

The doctor command checks:
  - Configuration file validity
  - Credential store availability
  - Endpoint address validity
  - Backend connectivity (including tunnel interstitial detection)
  - Stored token and role resolution

Examples:
  # Run diagnostics
  ewan doctor

  # Output as JSON
  ewan doctor -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			results := cli.runDiagnostics(ctx)

			hasErrors := false
			hasWarnings := false
			for _, r := range results {
				if r.Status == CheckError {
					hasErrors = true
				}
				if r.Status == CheckWarning {
					hasWarnings = true
				}
			}

			output := DoctorOutput{
				Checks:      results,
				HasErrors:   hasErrors,
				HasWarnings: hasWarnings,
			}

			writer := NewOutputWriter(format)
			writeErr := writer.Write(output, func() {
				fmt.Println("Ewan Diagnostics")
				fmt.Println("================")
				fmt.Println()
				for _, r := range results {
					fmt.Printf("%s %s: %s\n", r.Status.Icon(), r.Name, r.Message)
					if r.Fix != "" {
						fmt.Printf("     fix: %s\n", r.Fix)
					}
				}
				fmt.Println()
				if hasErrors {
					fmt.Println("Some checks failed.")
				} else if hasWarnings {
					fmt.Println("All critical checks passed, with warnings.")
				} else {
					fmt.Println("All checks passed.")
				}
			})
			if writeErr != nil {
				return writeErr
			}

			if hasErrors {
				os.Exit(1)
			}
			return nil
		},
	}

	return cmd
}

// runDiagnostics runs all checks in order.
func (cli *CLI) runDiagnostics(ctx context.Context) []CheckResult {
	results := []CheckResult{
		cli.checkConfig(),
		cli.checkKeyring(),
		cli.checkEndpoint(),
	}
	results = append(results, cli.checkConnectivity(ctx))
	results = append(results, cli.checkSession(ctx))
	return results
}

func (cli *CLI) checkConfig() CheckResult {
	result := CheckResult{Name: "Configuration"}

	if _, err := os.Stat(cli.Config.FilePath()); os.IsNotExist(err) {
		result.Status = CheckOK
		result.Message = "no config file, using defaults"
		return result
	}

	result.Status = CheckOK
	result.Message = fmt.Sprintf("loaded from %s", cli.Config.FilePath())
	return result
}

func (cli *CLI) checkKeyring() CheckResult {
	result := CheckResult{Name: "Credential store"}

	if err := cli.Tokens.IsAvailable(); err != nil {
		result.Status = CheckError
		result.Message = err.Error()
		result.Fix = "install/unlock your OS keyring (Secret Service on Linux, Keychain on macOS)"
		return result
	}

	result.Status = CheckOK
	result.Message = "available"
	return result
}

func (cli *CLI) checkEndpoint() CheckResult {
	result := CheckResult{Name: "Endpoint"}

	address := cli.Config.BaseURL()
	if err := config.ValidateAddress(address); err != nil {
		result.Status = CheckError
		result.Message = err.Error()
		result.Fix = "set a valid address with 'ewan endpoint set <url>' or 'ewan endpoint reset'"
		return result
	}

	result.Status = CheckOK
	result.Message = address
	return result
}

func (cli *CLI) checkConnectivity(ctx context.Context) CheckResult {
	result := CheckResult{Name: "Connectivity"}

	err := cli.apiClient().Ping(ctx)
	switch {
	case err == nil:
		result.Status = CheckOK
		result.Message = "backend reachable"
	case api.IsKind(err, api.KindTunnelVerificationRequired):
		result.Status = CheckWarning
		result.Message = "tunnel verification page detected"
		result.Fix = fmt.Sprintf("open %s in a browser and complete the verification, then retry", cli.Config.BaseURL())
	default:
		result.Status = CheckError
		result.Message = err.Error()
		result.Fix = "check your connection, or switch endpoints with 'ewan endpoint use'"
	}
	return result
}

func (cli *CLI) checkSession(ctx context.Context) CheckResult {
	result := CheckResult{Name: "Session"}

	if _, err := cli.Tokens.Get(); err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			result.Status = CheckSkipped
			result.Message = "no stored token"
			result.Fix = "run 'ewan login' to authenticate"
			return result
		}
		result.Status = CheckWarning
		result.Message = fmt.Sprintf("token unreadable: %v", err)
		return result
	}

	mgr := cli.sessionManager()
	switch mgr.Bootstrap(ctx) {
	case session.StateAuthenticated:
		sess := mgr.Session()
		result.Status = CheckOK
		result.Message = fmt.Sprintf("valid, signed in as %s (%s)", sess.Profile.FullName(), sess.Role)
	case session.StateConnectionError:
		result.Status = CheckWarning
		result.Message = fmt.Sprintf("could not validate token: %v", mgr.Err())
	default:
		result.Status = CheckWarning
		result.Message = fmt.Sprintf("stored token rejected: %v", mgr.Err())
		result.Fix = "run 'ewan login' to re-authenticate"
	}
	return result
}
