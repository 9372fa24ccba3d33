package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored Last.fm session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
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

	svc.Logout()
	if err := svc.Save(ctx); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	fmt.Println("Logged out.")
	return nil
}
