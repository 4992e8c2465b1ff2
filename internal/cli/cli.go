package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mlopsdiagrams/internal/config"
	"github.com/matzehuels/mlopsdiagrams/pkg/buildinfo"
	"github.com/matzehuels/mlopsdiagrams/pkg/cache"
	"github.com/matzehuels/mlopsdiagrams/pkg/pipeline"
	"github.com/matzehuels/mlopsdiagrams/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mlopsdiagrams"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var flags renderFlags

	root := &cobra.Command{
		Use:   appName,
		Short: "Render the MLOps platform architecture diagrams",
		Long: `mlopsdiagrams renders the architecture diagrams of the MLOps platform
documentation: the overall architecture and the use cases A to G.

Every diagram is declared in code and written to
images/component_reference/ under the output directory. Run without a
command, every diagram is rendered in registry order, as "render" does.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			return c.runRender(cmd.Context(), cfg, nil, flags)
		},
	}
	flags.register(root)

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the file named by --config, or the default file when
// present.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		c.Logger.Debug("loaded config", "path", cfg.Source)
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use. The returned function
// releases the render cache and must be called when done.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, logger *log.Logger, noCache bool) (*pipeline.Runner, func() error, error) {
	store, err := c.newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, nil, err
	}
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	// Entries are scoped to the running version.
	opts := []render.Option{
		render.WithCache(store, ttl),
		render.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")),
		render.WithLogger(logger),
	}
	if cfg.Icons != "" {
		icons, err := render.NewIconSet(cfg.Icons)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		opts = append(opts, render.WithIcons(icons))
	}

	return pipeline.NewRunner(render.NewGraphviz(opts...), logger), store.Close, nil
}

// newCache picks the render cache: none, Redis when a URL is configured,
// otherwise the file cache. An unusable cache directory degrades to no
// cache.
func (c *CLI) newCache(ctx context.Context, cc config.Cache, noCache bool) (cache.Cache, error) {
	if noCache || cc.Disabled {
		return cache.NewNullCache(), nil
	}
	if cc.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL, cc.Prefix)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis render cache", "prefix", cc.Prefix)
		return rc, nil
	}
	fc, err := cache.NewFileCache(cc.Dir)
	if err != nil {
		c.Logger.Warn("render cache unavailable, continuing without", "dir", cc.Dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags are the flags shared by render and pick.
type renderFlags struct {
	outDir    string
	format    string
	icons     string
	keepGoing bool
	noCache   bool
	dryRun    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", pipeline.DefaultOutDir, "directory the diagram paths are resolved against")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "force an output format for every diagram (png, svg, jpg, pdf, dot, mmd)")
	cmd.Flags().StringVar(&f.icons, "icons", "", "directory with category icons (default: coloured shapes)")
	cmd.Flags().BoolVarP(&f.keepGoing, "keep-going", "k", false, "render the remaining diagrams after a failure")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "build and validate without rendering")
}

// apply layers explicitly set flags over cfg.
func (f *renderFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("out-dir") {
		cfg.OutDir = f.outDir
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("icons") {
		cfg.Icons = f.icons
	}
	if flags.Changed("keep-going") {
		cfg.KeepGoing = f.keepGoing
	}
}
