package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpriess/scrobblekit/internal/scrobbler"
)

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Update the now-playing status on Last.fm",
	Long: `Report a track as currently playing. This does not count as a
submission and does not affect play counts or the quota.`,
	RunE: runNowPlaying,
}

func init() {
	rootCmd.AddCommand(nowCmd)

	nowCmd.Flags().String("artist", "", "Artist name (required)")
	nowCmd.Flags().String("track", "", "Track name (required)")
	nowCmd.Flags().String("album", "", "Album name")
	nowCmd.Flags().String("album-artist", "", "Album artist, if different")
	_ = nowCmd.MarkFlagRequired("artist")
	_ = nowCmd.MarkFlagRequired("track")
}

func runNowPlaying(cmd *cobra.Command, args []string) error {
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
	album, _ := cmd.Flags().GetString("album")
	albumArtist, _ := cmd.Flags().GetString("album-artist")

	record := scrobbler.Record{
		Artist:      artist,
		Track:       track,
		Album:       album,
		AlbumArtist: albumArtist,
		Timestamp:   time.Now(),
	}

	if err := svc.UpdateNowPlaying(ctx, record); err != nil {
		return fmt.Errorf("failed to update now playing: %s", err)
	}

	fmt.Printf("Now playing: %s - %s\n", artist, track)
	return nil
}
