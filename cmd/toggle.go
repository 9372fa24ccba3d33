package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle [on|off]",
	Short: "Enable or disable record submission",
	Long: `Toggle the submission preference. While disabled, submit calls are
rejected locally without any network request. The setting persists across
runs and is independent of authentication.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc, cleanup, err := newService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	enabled := !svc.SubmissionEnabled()
	if len(args) == 1 {
		switch args[0] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
		}
	}

	svc.SetSubmissionEnabled(enabled)
	if err := svc.Save(ctx); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	if enabled {
		fmt.Println("Submission enabled.")
	} else {
		fmt.Println("Submission disabled.")
	}
	return nil
}
