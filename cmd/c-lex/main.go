package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/fwessels/c-lex/internal/config"
	"github.com/fwessels/c-lex/internal/diagnostics"
	"github.com/fwessels/c-lex/internal/lexer"
)

// errReported means the failure has already been printed as a diagnostic.
var errReported = errors.New("tokenizing failed")

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "c-lex"
	app.Usage = "Tokenize a C source file, expanding #define macros"
	app.ArgsUsage = "<filename.c>"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.HideHelpCommand = true
	app.DisableSliceFlagSeparator = true

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   config.DefaultPath,
			Usage:   "YAML configuration file",
		},
		&cli.StringSliceFlag{
			Name:    "define",
			Aliases: []string{"D"},
			Usage:   "Define NAME[=VALUE] before tokenizing, VALUE defaults to 1",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text or json",
		},
		&cli.StringFlag{
			Name:  "color",
			Usage: "Color diagnostics: auto, always or never",
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "Maximum nesting of macro expansions",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Tokenize again whenever the file changes",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Trace macro definitions and expansions",
		},
	}
	app.Action = runLex
	return app
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.IsSet("config") {
		cfg, err = config.Load(c.String("config"))
	} else {
		cfg, err = config.LoadOptional(c.String("config"))
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("color") {
		cfg.Color = c.String("color")
	}
	if c.IsSet("max-depth") {
		cfg.MaxExpansionDepth = c.Int("max-depth")
	}
	if err := cfg.AddDefines(c.StringSlice("define")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLex(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("Usage: c-lex [options] <filename.c>")
	}
	path := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(c.App.ErrWriter)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if c.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	emitter := diagnostics.NewEmitter(c.App.ErrWriter, cfg.ColorMode())

	lexOnce := func() error {
		err := lexFile(path, cfg, log, emitter, c.App.Writer)
		if err == nil {
			return nil
		}
		if _, ok := diagnostics.As(err); ok {
			emitter.EmitError(err)
			return errReported
		}
		return err
	}

	if !c.Bool("watch") {
		return lexOnce()
	}

	if err := lexOnce(); err != nil && err != errReported {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch(ctx, path, log, func() {
		if err := lexOnce(); err != nil && err != errReported {
			log.WithError(err).Error("tokenizing")
		}
	})
}

type jsonToken struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
}

// lexFile streams the tokens of path to w in the configured format.
func lexFile(path string, cfg *config.Config, log logrus.FieldLogger, emitter *diagnostics.Emitter, w io.Writer) error {
	opts := cfg.LexerOptions()
	opts.Logger = log.WithField("file", path)
	opts.Warn = emitter.Emit

	tz, err := lexer.Open(path, opts)
	if err != nil {
		return err
	}
	defer tz.Close()

	out := bufio.NewWriter(w)
	defer out.Flush()

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	enc := json.NewEncoder(out)
	for {
		tok, err := tz.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if cfg.Format == config.FormatJSON {
			err = enc.Encode(jsonToken{
				File:   tok.File,
				Line:   tok.Line,
				Column: tok.Column,
				Kind:   tok.Kind.String(),
				Text:   tok.Text.String(),
			})
		} else {
			_, err = fmt.Fprintln(out, tok)
		}
		if err != nil {
			return errors.Wrap(err, "writing tokens")
		}
	}
}

// watch calls run every time path is written or replaced, until ctx is
// done. The directory is watched so that editors that replace the file
// on save are noticed too.
func watch(ctx context.Context, path string, log logrus.FieldLogger, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watching %s", path)
	}
	target := filepath.Clean(path)
	log.WithField("file", path).Debug("watching for changes")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.WithField("event", event.Op.String()).Debug("file changed")
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Error("watching")
		case <-ctx.Done():
			return nil
		}
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		if err != errReported {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
