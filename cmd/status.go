package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session and quota status",
	Long: `Show the current authentication state, submission toggle, and
quota usage for the trailing 24-hour window.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	if !svc.Authenticated() {
		fmt.Println("Not authenticated. Run 'scrobblekit auth' to log in.")
		return nil
	}

	quota := svc.Quota()
	quota.Refresh(ctx)

	fmt.Printf("Account:            %s\n", svc.AccountID())
	fmt.Printf("Submission enabled: %v\n", svc.SubmissionEnabled())
	fmt.Printf("Quota:              %d / %d (last 24h)\n", quota.CurrentCount(), quota.Limit())
	if quota.HasReachedLimit() {
		fmt.Println("Submission limit reached; new submissions will be rejected.")
	}
	return nil
}
