// Command post-pager browses a remote post collection page by page in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Sternrassler/post-pager/pkg/browser"
	"github.com/Sternrassler/post-pager/pkg/cache"
	"github.com/Sternrassler/post-pager/pkg/client"
	"github.com/Sternrassler/post-pager/pkg/logging"
	"github.com/Sternrassler/post-pager/pkg/metrics"
	"github.com/Sternrassler/post-pager/pkg/pagecache"
	"github.com/Sternrassler/post-pager/pkg/posts"
	"github.com/Sternrassler/post-pager/pkg/view"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	CatchCtrlC(cancel)

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		PrintError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	cmd := &cobra.Command{
		Use:           "post-pager",
		Short:         "Browse posts page by page",
		Long:          "post-pager fetches a post collection, splits it into pages and lets you page through it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Define run func in order to enable cobra's default help functionality
		Run: func(cmd *cobra.Command, args []string) {},
	}
	cmd.SetOut(out)

	var help, version bool
	cmd.Flags().BoolVarP(&version, "version", "v", false, "Print version of post-pager")
	cmd.Flags().BoolVarP(&help, "help", "h", false, "Print usage information")

	loggerFlags := newLoggerFlags(cmd.Flags())
	upstreamFlags := newUpstreamFlags(cmd.Flags())
	cacheFlags := newCacheFlags(cmd.Flags())
	browserFlags := newBrowserFlags(cmd.Flags())

	if err := LoadEnvFile(DefaultEnvFile); err != nil {
		return err
	}
	if err := SetFlagsFromEnvVariables(cmd.Flags()); err != nil {
		return err
	}
	if err := cmd.ParseFlags(args); err != nil {
		return err
	}

	if help {
		return cmd.Help()
	}
	if version {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		return nil
	}

	if err := upstreamFlags.validate(); err != nil {
		return err
	}
	if err := browserFlags.validate(); err != nil {
		return err
	}
	if browserFlags.noColor {
		color.NoColor = true
	}

	logCfg, err := loggerFlags.config(browserFlags.noColor)
	if err != nil {
		return err
	}
	logging.Setup(logCfg)
	logger := logging.NewLogger(logging.ComponentCLI)

	// Setup response store
	var store cache.Store
	if upstreamFlags.redisURL != "" {
		store, err = cache.OpenRedisStore(ctx, upstreamFlags.redisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info().Msg("Using redis response store")
	} else {
		store, err = cache.NewMemoryStore(cache.DefaultMemoryConfig())
		if err != nil {
			return fmt.Errorf("creating memory store: %w", err)
		}
	}

	clientCfg := upstreamFlags.client
	clientCfg.UserAgent = "post-pager/" + Version
	clientCfg.Store = store
	upstream, err := client.New(clientCfg)
	if err != nil {
		store.Close()
		return err
	}
	defer upstream.Close()

	cacheCfg := cacheFlags.cache
	cacheCfg.Retry.MaxBackoff = retryBackoffCap(cacheCfg.Retry.InitialBackoff)
	pages, err := pagecache.New(posts.NewFetcher(upstream, upstreamFlags.pageSize), cacheCfg)
	if err != nil {
		return err
	}
	defer pages.Close()

	logger.Info().
		Str("base_url", clientCfg.BaseURL).
		Int("page_size", upstreamFlags.pageSize).
		Dur("fresh_for", cacheCfg.FreshFor).
		Dur("retain_for", cacheCfg.RetainFor).
		Msg("Starting post-pager")

	// Group the browser loop and its helpers; quitting the loop stops them all
	g, gctx := errgroup.WithContext(ctx)
	gctx, stop := context.WithCancel(gctx)
	defer stop()

	pages.Start(gctx)

	if browserFlags.metricsAddr != "" {
		g.Go(func() error { return metrics.Serve(gctx, browserFlags.metricsAddr) })
	}

	if cacheFlags.warm > 0 {
		g.Go(func() error {
			if err := pages.Warm(gctx, 1, cacheFlags.warm); err != nil {
				logger.Warn().Err(err).Msg("Warm-up failed")
			}
			return nil
		})
	}

	g.Go(func() error {
		defer stop()
		r := &repl{
			browser: browser.New(pages, browserFlags.browser, logging.NewLogger(logging.ComponentBrowser)),
			in:      in,
			out:     out,
			opts:    view.Options{NoColor: color.NoColor},
		}
		return r.run(gctx)
	})

	return g.Wait()
}
