package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show top tags for an artist, album, or track",
	Long: `Look up the top tags for an artist, an album, or a track.

Examples:
  scrobblekit tags --artist "Boards of Canada"
  scrobblekit tags --artist "Boards of Canada" --album "Geogaddi"
  scrobblekit tags --artist "Boards of Canada" --track "Roygbiv"`,
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)

	tagsCmd.Flags().String("artist", "", "Artist name (required)")
	tagsCmd.Flags().String("album", "", "Album name")
	tagsCmd.Flags().String("track", "", "Track name")
	_ = tagsCmd.MarkFlagRequired("artist")
}

func runTags(cmd *cobra.Command, args []string) error {
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
	album, _ := cmd.Flags().GetString("album")
	track, _ := cmd.Flags().GetString("track")

	var tags []string
	switch {
	case track != "":
		tags, err = svc.TrackTags(ctx, artist, track)
	case album != "":
		tags, err = svc.AlbumTags(ctx, artist, album)
	default:
		tags, err = svc.ArtistTags(ctx, artist)
	}
	if err != nil {
		return fmt.Errorf("failed to get tags: %s", err)
	}

	if len(tags) == 0 {
		fmt.Println("No tags found.")
		return nil
	}
	fmt.Println(strings.Join(tags, ", "))
	return nil
}
