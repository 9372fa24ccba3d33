package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var loveCmd = &cobra.Command{
	Use:   "love",
	Short: "Love or unlove a track",
	Long: `Love a track for the authenticated account, or remove the love
with --remove. Without --remove and with --show, the current loved state
and play count are printed instead.`,
	RunE: runLove,
}

func init() {
	rootCmd.AddCommand(loveCmd)

	loveCmd.Flags().String("artist", "", "Artist name (required)")
	loveCmd.Flags().String("track", "", "Track name (required)")
	loveCmd.Flags().Bool("remove", false, "Unlove instead of love")
	loveCmd.Flags().Bool("show", false, "Show loved state and play count without changing it")
	_ = loveCmd.MarkFlagRequired("artist")
	_ = loveCmd.MarkFlagRequired("track")
}

func runLove(cmd *cobra.Command, args []string) error {
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

	artist, _ := cmd.Flags().GetString("artist")
	track, _ := cmd.Flags().GetString("track")
	remove, _ := cmd.Flags().GetBool("remove")
	show, _ := cmd.Flags().GetBool("show")

	if show {
		loved, err := svc.Loved(ctx, artist, track)
		if err != nil {
			return fmt.Errorf("failed to get loved state: %s", err)
		}
		count, err := svc.PlayCount(ctx, artist, track)
		if err != nil {
			return fmt.Errorf("failed to get play count: %s", err)
		}
		fmt.Printf("%s - %s: loved=%v plays=%d\n", artist, track, loved, count)
		return nil
	}

	if err := svc.SetLoved(ctx, artist, track, !remove); err != nil {
		return fmt.Errorf("failed to update loved state: %s", err)
	}

	if remove {
		fmt.Printf("Unloved %s - %s\n", artist, track)
	} else {
		fmt.Printf("Loved %s - %s\n", artist, track)
	}
	return nil
}
