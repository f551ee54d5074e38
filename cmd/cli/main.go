package main

import (
	"fmt"
	"os"

	"github.com/oarkflow/log"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/cmdlang/interpreter"
	"github.com/oarkflow/cmdlang/pkg/config"
	"github.com/oarkflow/cmdlang/pkg/journal"
	"github.com/oarkflow/cmdlang/pkg/runner"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:      "cmdlang",
		Usage:     "Run programs written in the cmdlang command language",
		Version:   version,
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a configuration file (YAML, JSON or BCL)",
				EnvVars: []string{"CMDLANG_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: trace, debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "pow-mode",
				Usage: "POW semantics: exact or float",
			},
			&cli.BoolFlag{
				Name:  "strict-commas",
				Usage: "Require exactly one comma between arithmetic operands",
			},
			&cli.StringFlag{
				Name:  "journal",
				Usage: "Append a record of every run to this JSON file",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.ShowAppHelp(c)
			}
			return runFile(c)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Execute a program file",
				ArgsUsage: "<file>",
				Action:    runFile,
			},
			{
				Name:      "check",
				Usage:     "Parse a program file and report syntax errors",
				ArgsUsage: "<file>",
				Action:    checkFile,
			},
			{
				Name:      "dump",
				Usage:     "Print the parsed statements of a program file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the statements as JSON",
					},
				},
				Action: dumpFile,
			},
			{
				Name:   "repl",
				Usage:  "Execute statements interactively against one store",
				Action: startREPL,
			},
			{
				Name:  "serve",
				Usage: "Serve programs over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Address to listen on (overrides server.addr)",
					},
				},
				Action: startServer,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session is the state every command builds from the config file and the
// global flags.
type session struct {
	cfg     *config.Config
	logger  *log.Logger
	runner  *runner.Runner
	journal *journal.Journal
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	mode, err := interpreter.ParsePowMode(cfg.PowMode)
	if err != nil {
		return nil, err
	}
	logger := &log.Logger{
		Level:  log.ParseLevel(cfg.LogLevel),
		Writer: &log.IOWriter{Writer: os.Stderr},
	}
	s := &session{cfg: cfg, logger: logger}
	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithPowMode(mode),
		runner.WithStrictCommas(cfg.StrictCommas),
		runner.WithCacheSize(cfg.CacheSize),
	}
	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		s.journal = j
		opts = append(opts, runner.WithJournal(j))
	}
	r, err := runner.New(opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.runner = r
	return s, nil
}

func (s *session) Close() {
	if s.runner != nil {
		s.runner.Close()
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Error().Err(err).Msg("failed to close journal")
		}
	}
}

// loadConfig reads the config file, if any, then applies flags that were
// set explicitly.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("pow-mode") {
		cfg.PowMode = c.String("pow-mode")
	}
	if c.IsSet("strict-commas") {
		cfg.StrictCommas = c.Bool("strict-commas")
	}
	if c.IsSet("journal") {
		cfg.Journal = c.String("journal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readSource(c *cli.Context) (string, string, error) {
	if c.NArg() != 1 {
		return "", "", cli.Exit("Usage: cmdlang [run|check|dump] <file>", 1)
	}
	path := c.Args().First()
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", cli.Exit("Error: Could not open file.", 1)
	}
	return path, string(content), nil
}
