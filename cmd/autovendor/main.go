// Package main is the autovendor CLI: it uploads one contract PDF to the
// Contract Flags API and prints the flags it gets back.
//
// Usage:
//
//	autovendor [-api URL] [-timeout 2m] [-v] contract.pdf
//
// The API base URL comes from API_BASE_URL (a .env file is honoured) unless
// -api is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/autovendor/contract-flags/internal/config"
	"github.com/autovendor/contract-flags/internal/logging"
	"github.com/autovendor/contract-flags/internal/uploader"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process exit, so it can be tested.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("autovendor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", "", "API base URL (overrides API_BASE_URL)")
	timeout := fs.Duration("timeout", 0, "give up on the upload after this long (0 = wait)")
	verbose := fs.Bool("v", false, "debug logging to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: autovendor [-api URL] [-timeout D] [-v] contract.pdf")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	mode := "release"
	if *verbose {
		mode = "debug"
	}
	logger, err := logging.New(mode)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return exitFail
	}
	defer logger.Sync()

	baseURL := *apiURL
	if baseURL == "" {
		cfg, err := config.LoadClient()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		baseURL = cfg.APIBaseURL
	}

	client, err := uploader.NewClient(uploader.Options{BaseURL: baseURL})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	form := uploader.NewForm(client)
	form.OnChange(func(st uploader.State) {
		logger.Debug("form state changed", zap.Stringer("phase", st.Phase))
		if err := form.Render(stdout); err != nil {
			logger.Warn("render failed", zap.Error(err))
		}
	})

	file := uploader.LocalFile{Path: fs.Arg(0)}
	if st := form.SelectFile(file); st.Phase == uploader.PhaseInvalid {
		return exitFail
	}

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	logger.Debug("uploading contract",
		zap.String("file", file.Name()),
		zap.String("url", client.URL()))

	start := time.Now()
	st := form.Upload(ctx)
	logger.Debug("upload settled",
		zap.Stringer("phase", st.Phase),
		zap.Duration("elapsed", time.Since(start)))

	if st.Phase != uploader.PhaseSuccess {
		return exitFail
	}
	return exitOK
}
