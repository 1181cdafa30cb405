package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/osduviz/schemagraph/internal/server"
	"github.com/osduviz/schemagraph/pkg/cache"
	"github.com/osduviz/schemagraph/pkg/config"
	"github.com/osduviz/schemagraph/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		schemaDir  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph extraction HTTP API",
		Long: `Serve the graph extraction HTTP API.

The server loads the schema index once at startup and exposes:

  GET  /health          liveness and index size
  GET  /v1/schemas      indexed schema paths
  POST /v1/graph        schema document body -> extracted graph
  POST /v1/graphs       save a graph (requires the Mongo store)
  GET  /v1/graphs/{id}  fetch a saved graph

Configuration comes from schemagraph.toml plus environment overrides;
flags take highest precedence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr, schemaDir)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "schemagraph.toml", "config file path")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&schemaDir, "schemas", "s", "", "schema directory (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, configPath, addr, schemaDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if schemaDir != "" {
		cfg.Schemas.Dir = schemaDir
	}

	ix, err := c.loadIndex(cfg.Schemas.Dir)
	if err != nil {
		return err
	}
	c.Logger.Info("loaded schema index", "schemas", ix.Len())

	serverCache, err := c.serverCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer serverCache.Close()

	var store *server.GraphStore
	if cfg.Store.MongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		store, err = server.NewGraphStore(connectCtx, cfg.Store.MongoURI, cfg.Store.Database)
		cancel()
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		c.Logger.Info("connected graph store", "database", cfg.Store.Database)
	}

	runner := pipeline.NewRunner(serverCache, c.Logger)
	return server.New(runner, ix, store, c.Logger).ListenAndServe(cfg.Server.Addr)
}

// serverCache builds the cache backend selected by config.
func (c *CLI) serverCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}
