package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/argmap/internal/server"
	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/diagram"
	"github.com/matzehuels/argmap/pkg/session"
)

const (
	cleanupInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	allowAll bool
	noCache  bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive diagram sessions over HTTP",
		Long: `Serve starts an HTTP API where each POSTed payload becomes a diagram
session. Clients drive the viewport, hover, selection and expansion of their
session and fetch the current picture as SVG.

Idle sessions expire after the configured session TTL.`,
		Example: `  argmap serve
  argmap serve --addr :9090 --cors-allow-all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr != "" {
				c.cfg.Server.Addr = opts.addr
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.allowAll, "cors-allow-all", false, "allow requests from any origin")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	ch, err := c.openCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	fetcher, release, err := c.openSource(ctx, ch)
	if err != nil {
		return err
	}
	defer release()

	engine := c.newEngine(ch)
	factory := func(ctx context.Context, p argument.Payload) (*diagram.Diagram, error) {
		lctx, cancel := c.layoutContext(ctx)
		defer cancel()
		return diagram.New(lctx, p, c.diagramOptions(engine, fetcher))
	}

	sc := c.cfg.Server
	store := session.NewStore(sc.SessionTTL.Duration, session.WithMaxSessions(sc.MaxSessions))
	defer store.Close()

	srv := server.New(server.Config{
		Addr:           sc.Addr,
		RequestTimeout: sc.RequestTimeout.Duration,
		AllowAll:       opts.allowAll,
	}, store, factory, c.Logger)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go store.Run(janitorCtx, cleanupInterval)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	printInfo("Listening on %s", StyleHighlight.Render(sc.Addr))
	printDetail("source: %s · cache: %s · session ttl: %s", c.cfg.Source.Kind, c.cacheBackend(opts.noCache), sc.SessionTTL.Duration)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down", "sessions", store.Len())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (c *CLI) cacheBackend(noCache bool) string {
	if noCache {
		return "none"
	}
	return c.cfg.Cache.Backend
}
