package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/litescript/tpb-search/internal/config"
	"github.com/litescript/tpb-search/internal/scraper"
	"github.com/litescript/tpb-search/internal/version"
)

// errUsage is returned after usage help was printed for an empty invocation.
var errUsage = errors.New("no action requested")

type options struct {
	info       bool
	search     string
	category   string
	page       int
	minSeeds   int
	maxSize    string
	tui        bool
	debug      bool
	configPath string
	writeCfg   bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "tpb-search",
		Short:         scraper.DisplayName + " Search Plugin",
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, out, opts)
		},
	}
	cmd.SetOut(out)

	f := cmd.Flags()
	f.BoolVar(&opts.info, "info", false, "Return plugin information")
	f.StringVar(&opts.search, "search", "", "Search query")
	f.StringVar(&opts.category, "category", string(scraper.CategoryAll), "Search category")
	f.IntVar(&opts.page, "page", 1, "Page number")
	f.IntVar(&opts.minSeeds, "min-seeds", 0, "Drop results with fewer seeders")
	f.StringVar(&opts.maxSize, "max-size", "", "Drop results larger than this size (e.g. 4 GiB)")
	f.BoolVar(&opts.tui, "tui", false, "Browse results interactively")
	f.BoolVar(&opts.debug, "debug", false, "Verbose logging")
	f.StringVar(&opts.configPath, "config", "", "Config file path (default "+config.ConfigPath()+")")
	f.BoolVar(&opts.writeCfg, "write-config", false, "Write the effective config to the config file")

	return cmd
}

func run(cmd *cobra.Command, out io.Writer, opts options) error {
	if opts.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil && !(opts.writeCfg && errors.Is(err, fs.ErrNotExist)) {
		log.Warn().Err(err).Msg("failed to load config, using defaults")
	}

	pluginOpts := scraper.Options{
		BaseURL:   cfg.Site.BaseURL,
		UserAgent: cfg.Site.UserAgent,
		Timeout:   cfg.Site.Timeout(),
	}

	switch {
	case opts.info:
		return writeJSON(out, scraper.NewTPB(pluginOpts).Info())
	case opts.search != "":
		var maxSize int64
		if opts.maxSize != "" {
			size, ok := scraper.ParseSize(opts.maxSize)
			if !ok {
				return fmt.Errorf("invalid --max-size %q", opts.maxSize)
			}
			maxSize = size
		}
		results := scraper.NewTPB(pluginOpts).Search(cmd.Context(), opts.search, opts.category, opts.page)
		return writeJSON(out, scraper.Filter(results, opts.minSeeds, maxSize))
	case opts.writeCfg:
		path := opts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	case opts.tui:
		// Log output would corrupt the alternate screen
		nop := zerolog.Nop()
		pluginOpts.Logger = &nop
		return runTUI(cfg, scraper.NewTPB(pluginOpts))
	}

	if err := cmd.Usage(); err != nil {
		return err
	}
	return errUsage
}

// writeJSON prints v indented by two spaces, leaving non-ASCII and HTML
// characters unescaped.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
