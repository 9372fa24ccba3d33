/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpriess/scrobblekit/internal/scrobbler"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit play records to Last.fm",
	Long: `Submit one or more play records (scrobbles) to Last.fm.

A single record is given with --artist and --track; multiple records are
read from a tab-separated file with one record per line:

  artist<TAB>track<TAB>unix-timestamp[<TAB>album[<TAB>album-artist]]

Records are submitted in batches of 50. If a batch fails, earlier batches
stay accepted; the output reports how many records landed so they can be
trimmed before resubmitting.`,
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().String("artist", "", "Artist name")
	submitCmd.Flags().String("track", "", "Track name")
	submitCmd.Flags().String("album", "", "Album name")
	submitCmd.Flags().String("album-artist", "", "Album artist, if different")
	submitCmd.Flags().Int64("timestamp", 0, "Unix timestamp of the play (default: now)")
	submitCmd.Flags().StringP("file", "f", "", "Tab-separated file of records to submit")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	records, err := collectRecords(cmd)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("nothing to submit; use --artist/--track or --file")
	}

	svc, cleanup, err := newService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	result := svc.SubmitWithProgress(ctx, records, func(batch, total int) {
		if total > 1 {
			fmt.Printf("Submitting batch %d/%d...\n", batch, total)
		}
	})

	if !result.Success {
		if result.RecordsAccepted > 0 {
			fmt.Printf("%d of %d records were accepted before the failure.\n",
				result.RecordsAccepted, len(records))
		}
		return fmt.Errorf("submission failed: %s", result.ErrorMessage)
	}

	fmt.Printf("Submitted %d record(s) in %d batch(es).\n",
		result.RecordsAccepted, result.BatchesAccepted)
	return nil
}

// collectRecords builds the record list from flags or the record file.
func collectRecords(cmd *cobra.Command) ([]scrobbler.Record, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		return readRecordFile(file)
	}

	artist, _ := cmd.Flags().GetString("artist")
	track, _ := cmd.Flags().GetString("track")
	if artist == "" || track == "" {
		return nil, nil
	}

	album, _ := cmd.Flags().GetString("album")
	albumArtist, _ := cmd.Flags().GetString("album-artist")
	ts, _ := cmd.Flags().GetInt64("timestamp")

	timestamp := time.Now()
	if ts > 0 {
		timestamp = time.Unix(ts, 0)
	}

	return []scrobbler.Record{{
		Artist:      artist,
		Track:       track,
		Album:       album,
		AlbumArtist: albumArtist,
		Timestamp:   timestamp,
	}}, nil
}

// readRecordFile parses a tab-separated record file.
func readRecordFile(path string) ([]scrobbler.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()

	var records []scrobbler.Record
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected at least artist, track, timestamp", line)
		}

		ts, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q", line, fields[2])
		}

		record := scrobbler.Record{
			Artist:    fields[0],
			Track:     fields[1],
			Timestamp: time.Unix(ts, 0),
		}
		if len(fields) > 3 {
			record.Album = fields[3]
		}
		if len(fields) > 4 {
			record.AlbumArtist = fields[4]
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	return records, nil
}
