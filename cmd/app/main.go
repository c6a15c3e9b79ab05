package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/core"
	"github.com/caratcompare/caratreel/internal/diamond"
	"github.com/caratcompare/caratreel/internal/logger"
	"github.com/caratcompare/caratreel/internal/progress"
	"github.com/caratcompare/caratreel/internal/sizing"
	"github.com/caratcompare/caratreel/internal/tui"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

var app = cli.NewApp()
var log = logger.Log

// cancelled on SIGINT and SIGTERM
var rootCtx context.Context

func init() {
	app.Name = "caratreel"
	app.Usage = "Diamond size comparison shorts generator"
	app.UsageText = "caratreel [--config file] command [arguments]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "yaml config file (default " + config.PathConfigFile + " when present)",
		},
		cli.StringFlag{
			Name:  "table, t",
			Usage: "diamond size table json, overrides sizes.table",
		},
		cli.BoolFlag{
			Name:  "tui",
			Usage: "full screen progress ui, logs go to " + filepath.Join("tmp", "caratreel.log"),
		},
	}
	renderFlags := []cli.Flag{
		cli.StringFlag{Name: "layout, l", Usage: "vertical or sideways"},
		cli.StringFlag{Name: "narrator, n", Usage: "elevenlabs, gtts or none"},
		cli.StringFlag{Name: "output, o", Usage: "output dir"},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Aliases:   []string{"r"},
			Usage:     "Render one comparison video",
			ArgsUsage: "<carat1> <shape1> <carat2> <shape2>",
			Flags:     renderFlags,
			Action: func(c *cli.Context) error {
				cmp, err := diamond.ParseArgs(c.Args())
				if err != nil {
					_ = cli.ShowCommandHelp(c, "render")
					return cli.NewExitError(err.Error(), 1)
				}
				return run(c, func(cr *core.Core) (string, error) {
					out, err := cr.Render(cmp)
					return "Saved " + out, err
				})
			},
		},
		{
			Name:    "batch",
			Aliases: []string{"b"},
			Usage:   "Render the configured comparison list, skipping existing videos",
			Flags:   renderFlags,
			Action: func(c *cli.Context) error {
				return run(c, func(cr *core.Core) (string, error) {
					list, err := cr.Comparisons()
					if err != nil {
						return "", err
					}
					res, err := cr.Batch(list)
					for slug, ferr := range res.Failed {
						log.Errorf("%s: %v", slug, ferr)
					}
					return fmt.Sprintf("Batch done: %d rendered, %d skipped, %d failed",
						len(res.Rendered), len(res.Skipped), len(res.Failed)), err
				})
			},
		},
		{
			Name:      "upload",
			Aliases:   []string{"u"},
			Usage:     "Upload every video of the output dir, or only the named one",
			ArgsUsage: "[name]",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "output, o", Usage: "output dir"},
			},
			Action: func(c *cli.Context) error {
				// the oauth consent flow needs the terminal
				return runConsole(c, func(cr *core.Core) (string, error) {
					if name := c.Args().First(); name != "" {
						entry, err := cr.UploadOne(name)
						return "Uploaded " + entry.URL, err
					}
					sum, err := cr.UploadAll()
					return fmt.Sprintf("Upload complete! %d videos uploaded", sum.Uploaded), err
				})
			},
		},
		{
			Name:      "size",
			Aliases:   []string{"s"},
			Usage:     "Look up a diamond size and its frame pixels",
			ArgsUsage: "<carat> <shape>",
			Action: func(c *cli.Context) error {
				if len(c.Args()) != 2 {
					_ = cli.ShowCommandHelp(c, "size")
					return cli.NewExitError("expected <carat> <shape>", 1)
				}
				d, err := diamond.Parse(c.Args()[0], c.Args()[1])
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				cfg, table, err := setup(c)
				if err != nil {
					return err
				}
				info := core.NewCore(rootCtx, nil, cfg, table).Size(d)
				fmt.Fprintf(c.App.Writer, "%s: %.2f x %.2f mm, %d x %d px\n",
					info.Diamond, info.Dims.Width, info.Dims.Height, info.WidthPx, info.HeightPx)
				return nil
			},
		},
		{
			Name:  "convert-svgs",
			Usage: "Rasterize the svg artwork dir to png",
			Action: func(c *cli.Context) error {
				return runConsole(c, func(cr *core.Core) (string, error) {
					n, err := cr.ConvertSVGs()
					return fmt.Sprintf("Converted %d SVG files to %s", n, cr.Config().Assets.PNGDir), err
				})
			},
		},
	}
}

// setup loads the config, applies flag overrides and the size table
func setup(c *cli.Context) (config.Config, sizing.SizeTable, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return cfg, nil, err
	}
	if v := c.String("layout"); v != "" {
		cfg.Output.Layout = v
	}
	if v := c.String("narrator"); v != "" {
		cfg.Narration.Provider = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output.Dir = v
	}
	if v := c.GlobalString("table"); v != "" {
		cfg.Sizes.Table = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	table, err := sizing.LoadTable(cfg.Sizes.Table)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, table, nil
}

func runConsole(c *cli.Context, fn func(*core.Core) (string, error)) error {
	return execute(c, false, fn)
}

func run(c *cli.Context, fn func(*core.Core) (string, error)) error {
	return execute(c, c.GlobalBool("tui"), fn)
}

// execute runs fn with a ui consuming the core events
func execute(c *cli.Context, fullscreen bool, fn func(*core.Core) (string, error)) error {
	cfg, table, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(rootCtx)
	defer cancel()
	eventsCh := make(chan tui.Event, 64)

	wg := sync.WaitGroup{}
	wg.Add(1)
	if fullscreen {
		closeLog, err := logToFile(filepath.Join("tmp", "caratreel.log"))
		if err != nil {
			return err
		}
		defer closeLog()
		go func() {
			defer wg.Done()
			if err := tui.New(ctx, eventsCh).Run(); errors.Is(err, tui.ErrInterrupted) {
				cancel()
			}
		}()
	} else {
		go func() {
			defer wg.Done()
			progress.NewConsole(os.Stderr).Run(ctx, eventsCh)
		}()
	}

	msg, err := fn(core.NewCore(ctx, eventsCh, cfg, table))
	if err != nil {
		cancel()
	} else {
		select {
		case eventsCh <- tui.NewEventDone(msg):
		case <-ctx.Done():
		}
	}
	wg.Wait()
	return err
}

func logToFile(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	out := log.Out
	log.SetOutput(f)
	return func() {
		log.SetOutput(out)
		f.Close()
	}, nil
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	rootCtx = ctx

	err := app.Run(os.Args)
	if err != nil {
		stop()
		log.Fatal(err)
	}
}
