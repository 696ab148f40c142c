package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/heatgrid/pkg/cache"
	"github.com/matzehuels/heatgrid/pkg/pipeline"
	"github.com/matzehuels/heatgrid/pkg/server"
)

type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	maxBody       int64
	noCache       bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", maxBody: server.DefaultMaxBodySize}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		Long: `Serve figure rendering over HTTP.

POST a figure document (TOML, YAML or JSON, chosen by Content-Type) to
/v1/render or /v1/layout. Artifacts are cached in Redis when --redis-addr is
set and in the local cache directory otherwise.`,
		Example: `  heatgrid serve --addr :8080
  heatgrid serve --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for a shared cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body in bytes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	var (
		cc  cache.Cache
		err error
	)
	switch {
	case opts.redisAddr != "" && !opts.noCache:
		cc, err = cache.NewRedisCache(cmd.Context(), cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
			Prefix:   "heatgrid:",
		})
		if err != nil {
			return err
		}
		c.Logger.Info("using redis cache", "addr", opts.redisAddr)
	default:
		if cc, err = newCache(opts.noCache); err != nil {
			return err
		}
		if opts.noCache {
			printWarning(cmd.ErrOrStderr(), "Caching disabled: every request renders from scratch")
		}
	}

	runner := pipeline.NewRunner(cc, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner,
		server.WithLogger(c.Logger),
		server.WithMaxBodySize(opts.maxBody),
	)
	return srv.ListenAndServe(cmd.Context(), opts.addr)
}
