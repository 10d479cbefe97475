// Command fraudlens assesses whether a social media account is fraudulent.
//
// Usage:
//
//	fraudlens suspicious_account
//	fraudlens -image pic.jpg -corpus ./known-images suspicious_account
//	fraudlens -config fraudlens.yaml @suspicious_account
//
// Credentials and session tokens are read from the environment (or a .env
// file): INSTAGRAM_USERNAME, INSTAGRAM_PASSWORD, INSTAGRAM_SESSIONID,
// INSTAGRAM_CSRFTOKEN.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fraudlens/fraudlens"
	"github.com/fraudlens/fraudlens/config"
	"github.com/fraudlens/fraudlens/httpcache"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("v", false, "verbose logging (same as -debug)")
	configPath := flag.String("config", "", "path to YAML config file")
	imagePath := flag.String("image", "", "profile picture to check for reuse")
	corpusDir := flag.String("corpus", "", "directory of known images to compare against")
	modelURL := flag.String("model-url", "", "fraud model endpoint (overrides config)")
	noBrowser := flag.Bool("no-browser", false, "disable reading cookies from browser stores")
	noCache := flag.Bool("no-cache", false, "disable HTTP caching")
	cacheTTL := flag.Duration("cache-ttl", 20*time.Minute, "cache time-to-live")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fraudlens [options] <username>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nFetch strategies, in order:")
		fmt.Fprintln(os.Stderr, "  1. authenticated client (needs session token or credentials)")
		fmt.Fprintln(os.Stderr, "  2. structured web API (no auth)")
		fmt.Fprintln(os.Stderr, "  3. legacy JSON endpoint (no auth)")
		fmt.Fprintln(os.Stderr, "  4. plain document (no auth)")
		fmt.Fprintln(os.Stderr, "  5. headless browser (needs Chrome or Chromium)")
		fmt.Fprintln(os.Stderr, "  6. third-party library (opt-in via config)")
		os.Exit(1)
	}

	username := flag.Arg(0)

	// A .env file is optional; a missing one is not an error.
	_ = godotenv.Load() //nolint:errcheck // intentional

	logLevel := slog.LevelInfo
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *corpusDir != "" {
		cfg.Image.CorpusDir = *corpusDir
	}
	if *modelURL != "" {
		cfg.Model.URL = *modelURL
	}
	if cfg.Model.URL == "" {
		fmt.Fprint(os.Stderr, "Error: no model endpoint; set -model-url or model.url in the config\n")
		os.Exit(1)
	}

	opts := []fraudlens.Option{
		fraudlens.WithConfig(cfg),
		fraudlens.WithLogger(logger),
	}
	if !*noBrowser {
		opts = append(opts, fraudlens.WithBrowserCookies())
	}
	if *noCache || cfg.Cache.Disabled {
		opts = append(opts, fraudlens.WithHTTPCache(httpcache.NewNull()))
	} else {
		httpCache, err := httpcache.New(*cacheTTL)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
			opts = append(opts, fraudlens.WithHTTPCache(httpcache.NewNull()))
		} else {
			defer func() {
				if err := httpCache.Close(); err != nil {
					logger.Warn("failed to close cache", "error", err)
				}
			}()
			logger.Debug("HTTP cache initialized", "ttl", cacheTTL.String())
			opts = append(opts, fraudlens.WithHTTPCache(httpCache))
		}
	}

	ctx := context.Background()

	report, err := fraudlens.Assess(ctx, fraudlens.Input{
		Username:  username,
		ImagePath: *imagePath,
	}, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	if err := outputJSON(report); err != nil {
		fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		os.Exit(1)
	}
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
