package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mpriess/scrobblekit/internal/scrobbler"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a Last.fm page in the browser",
	Long: `Open the Last.fm page for an artist, album, track, or tag.

Examples:
  scrobblekit open --artist "Radiohead"
  scrobblekit open --artist "Radiohead" --album "OK Computer"
  scrobblekit open --artist "Radiohead" --track "Airbag"
  scrobblekit open --tag "shoegaze"`,
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().String("artist", "", "Artist name")
	openCmd.Flags().String("album", "", "Album name")
	openCmd.Flags().String("track", "", "Track name")
	openCmd.Flags().String("tag", "", "Tag name")
}

// browserOpener launches URLs in the default browser.
type browserOpener struct{}

var _ scrobbler.LinkOpener = browserOpener{}

func (browserOpener) OpenLink(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func runOpen(cmd *cobra.Command, args []string) error {
	artist, _ := cmd.Flags().GetString("artist")
	album, _ := cmd.Flags().GetString("album")
	track, _ := cmd.Flags().GetString("track")
	tag, _ := cmd.Flags().GetString("tag")

	var (
		u   string
		err error
	)
	switch {
	case tag != "":
		u, err = scrobbler.TagURL(tag)
	case track != "":
		u, err = scrobbler.TrackURL(artist, album, track)
	case album != "":
		u, err = scrobbler.AlbumURL(artist, album)
	case artist != "":
		u, err = scrobbler.ArtistURL(artist)
	default:
		return fmt.Errorf("one of --artist, --album, --track, or --tag is required")
	}
	if err != nil {
		return err
	}

	fmt.Println(u)
	return browserOpener{}.OpenLink(u)
}
