package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/relayout/pkg/cache"
	"github.com/matzehuels/relayout/pkg/pipeline"
	"github.com/matzehuels/relayout/pkg/server"
	"github.com/matzehuels/relayout/pkg/store"
)

// serverKeyPrefix keeps server cache entries apart from CLI entries when
// both share a Redis instance.
const serverKeyPrefix = "serve:"

type serveOpts struct {
	addr    string
	store   string
	dsn     string
	noCache bool
	maxBody int64
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Routes:
  POST /v1/solve            solve a posted document
  POST /v1/render           render a posted document (?format=svg|json|txt|dot)
  POST /v1/graph            constraint graph in DOT format
  GET  /v1/live             websocket: one document in, one solution out
  /v1/layouts[/{id}]        stored documents`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.store, "store", "", "document store: memory, sqlite, mongo")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "store location: sqlite path or mongo URI")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	cfg := c.Config

	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.store != "" {
		cfg.Store.Backend = opts.store
	}
	if opts.dsn != "" {
		cfg.Store.DSN = opts.dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.Logger.Debug("opening cache", "backend", cfg.Cache.Backend, "disabled", opts.noCache)
	cch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cch, cache.NewScopedKeyer(nil, serverKeyPrefix), c.Logger)
	defer runner.Close()

	c.Logger.Debug("opening store", "backend", cfg.Store.Backend)
	st, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(server.Config{
		Runner:       runner,
		Store:        st,
		Logger:       c.Logger,
		MaxBodyBytes: opts.maxBody,
	})

	printSuccess(c.out, "Listening on %s", cfg.Server.Addr)
	printDetail(c.out, "Store: %s", cfg.Store.Backend)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
