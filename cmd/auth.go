package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpriess/scrobblekit/internal/config"
	"github.com/mpriess/scrobblekit/internal/lastfm"
	"github.com/mpriess/scrobblekit/internal/scrobbler"
	"github.com/mpriess/scrobblekit/internal/store"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Last.fm",
	Long: `Authenticate with Last.fm to enable record submission.

This command will guide you through the Last.fm authentication process:
1. You'll be prompted to enter your Last.fm API key and secret
2. A browser URL will be provided for you to authorize the application
3. After authorization, the session is saved to the credential store

You can get API credentials from: https://www.last.fm/api/account/create`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

// consoleAuthFlow drives the desktop authorization flow on the terminal:
// request a token, send the user to the authorize URL, then exchange the
// token for a session key.
type consoleAuthFlow struct {
	client *lastfm.Client
	in     *bufio.Reader
	out    io.Writer
}

func (f *consoleAuthFlow) Authenticate(ctx context.Context) (accountID, sessionKey string, err error) {
	token, err := f.client.AuthToken(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to get auth token: %w", err)
	}

	authURL := f.client.AuthURL(token)
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Please visit the following URL to authorize this application:")
	fmt.Fprintln(f.out)
	fmt.Fprintf(f.out, "  %s\n", authURL)
	fmt.Fprintln(f.out)

	if err := (browserOpener{}).OpenLink(authURL); err == nil {
		fmt.Fprintln(f.out, "(opened in your browser)")
	}

	fmt.Fprint(f.out, "Press Enter after you have authorized the application... ")
	if _, err := f.in.ReadString('\n'); err != nil && err != io.EOF {
		return "", "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	return f.client.SessionFromToken(ctx, token)
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	reader := bufio.NewReader(os.Stdin)

	// Load existing config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Last.fm Authentication")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("You can get API credentials from: https://www.last.fm/api/account/create")
	fmt.Println()

	// Check if we already have credentials
	useExisting := false
	if cfg.LastFM.APIKey != "" && cfg.LastFM.APISecret != "" {
		fmt.Printf("Found existing API credentials.\n")
		fmt.Printf("API Key: %s\n", cfg.LastFM.APIKey)
		fmt.Print("\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		useExisting = response == "" || response == "y" || response == "yes"
	}

	if !useExisting {
		fmt.Print("API Key: ")
		apiKey, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		fmt.Print("API Secret: ")
		apiSecret, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API secret: %w", err)
		}

		cfg.LastFM.APIKey = strings.TrimSpace(apiKey)
		cfg.LastFM.APISecret = strings.TrimSpace(apiSecret)
		if cfg.LastFM.APIKey == "" || cfg.LastFM.APISecret == "" {
			return fmt.Errorf("API key and secret are required")
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	logLevel := cfg.LogLevel
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		logLevel = flag
	}
	logger := setupLogger(logLevel)

	authClient, err := lastfm.New(lastfm.Config{
		APIKey:    cfg.LastFM.APIKey,
		APISecret: cfg.LastFM.APISecret,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	st, err := store.Open(cfg.StorePath, cfg.PluginName)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	svc, err := scrobbler.New(scrobbler.Config{
		APIKey:     cfg.LastFM.APIKey,
		APISecret:  cfg.LastFM.APISecret,
		PluginName: cfg.PluginName,
		Logger:     logger,
		AuthFlow:   &consoleAuthFlow{client: authClient, in: reader, out: os.Stdout},
	}, st, st)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := svc.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if err := svc.Authenticate(ctx); err != nil {
		return err
	}

	if err := svc.Save(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println()
	fmt.Printf("Authenticated as %s. Session saved.\n", svc.AccountID())
	return nil
}
