package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ddoc/internal/config"
	"github.com/standardbeagle/ddoc/internal/generate"
	"github.com/standardbeagle/ddoc/internal/pipeline"
	"github.com/standardbeagle/ddoc/internal/version"
	"github.com/standardbeagle/ddoc/internal/watch"
	"github.com/standardbeagle/ddoc/pkg/pathutil"
)

func main() {
	app := &cli.App{
		Name:                   "ddoc",
		Usage:                  "Keep machine-generated design documents in sync with a source tree",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: <root>/" + config.ConfigFileName + ")",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only consider files matching glob patterns (e.g., --include 'src/**/*.py')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Additionally exclude files matching glob patterns",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "sweep",
				Usage:  "Process every eligible file and rebuild the orientation document",
				Action: runSweep,
			},
			{
				Name:      "update",
				Usage:     "Process an explicit list of files",
				ArgsUsage: "FILE...",
				Action:    runUpdate,
			},
			{
				Name:      "check",
				Usage:     "Classify files without writing anything",
				ArgsUsage: "[FILE...]",
				Action:    runCheck,
			},
			{
				Name:   "watch",
				Usage:  "Watch the tree and update documents as files change",
				Action: runWatch,
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", c.String("root"), err)
	}

	var cfg *config.Config
	if configPath := c.String("config"); configPath != "" {
		cfg, err = config.LoadFile(root, configPath)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Discovery.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Discovery.Exclude = append(cfg.Discovery.Exclude, excludeFlags...)
	}
	return cfg, nil
}

func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	gen := generate.NewClient(generate.Options{
		Endpoint:          cfg.Generation.Endpoint,
		APIKey:            cfg.Generation.APIKey,
		Model:             cfg.Generation.Model,
		RequestsPerMinute: cfg.Generation.RequestsPerMinute,
	})
	regen := &generate.IndexRegenerator{ProjectName: cfg.Project.Name}
	return pipeline.New(cfg, gen, regen)
}

func runSweep(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	stats, err := newPipeline(cfg).Sweep(ctx)
	if err != nil {
		return err
	}

	fmt.Println(stats.Summary())
	return nil
}

func runUpdate(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("update requires at least one file argument")
	}
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	stats, err := newPipeline(cfg).Update(ctx, c.Args().Slice())
	if err != nil {
		return err
	}

	fmt.Println(stats.Summary())
	return nil
}

func runCheck(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	p := newPipeline(cfg)

	files := c.Args().Slice()
	if len(files) == 0 {
		files, err = p.Discover()
		if err != nil {
			return err
		}
	}

	for _, path := range files {
		rel := pathutil.ToRelative(path, cfg.Project.Root)

		level, err := p.Classify(rel)
		if err != nil {
			fmt.Printf("%-18s %s (%v)\n", "ERROR", rel, err)
			continue
		}
		fmt.Printf("%-18s %s\n", level, rel)
	}
	return nil
}

func runWatch(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	p := newPipeline(cfg)
	fmt.Printf("Watching %s (debounce %dms). Ctrl-C to stop.\n",
		cfg.Project.Root, cfg.Watch.DebounceMs)

	err = watch.New(cfg, p).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
