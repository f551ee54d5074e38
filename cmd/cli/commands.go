package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/oarkflow/json"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/cmdlang"
	"github.com/oarkflow/cmdlang/interpreter"
	"github.com/oarkflow/cmdlang/pkg/runner"
	"github.com/oarkflow/cmdlang/pkg/server"
)

func runFile(c *cli.Context) error {
	path, source, err := readSource(c)
	if err != nil {
		return err
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err = s.runner.Run(ctx, runner.Request{
		Origin: path,
		Source: source,
		Input:  os.Stdin,
		Output: os.Stdout,
	})
	if err != nil {
		return cli.Exit(cmdlang.Describe(err), 1)
	}
	return nil
}

func checkFile(c *cli.Context) error {
	path, source, err := readSource(c)
	if err != nil {
		return err
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	program, err := s.runner.Check(source)
	if err != nil {
		return cli.Exit(cmdlang.Describe(err), 1)
	}
	fmt.Printf("%s: %d statements OK\n", path, len(program.Statements))
	return nil
}

type dumpedStatement struct {
	Kind      string            `json:"kind"`
	Statement cmdlang.Statement `json:"statement"`
	Source    string            `json:"source"`
}

func dumpFile(c *cli.Context) error {
	_, source, err := readSource(c)
	if err != nil {
		return err
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	program, err := s.runner.Check(source)
	if err != nil {
		return cli.Exit(cmdlang.Describe(err), 1)
	}
	if !c.Bool("json") {
		fmt.Println(program.String())
		return nil
	}
	out := make([]dumpedStatement, 0, len(program.Statements))
	for _, stmt := range program.Statements {
		out = append(out, dumpedStatement{Kind: stmt.Keyword(), Statement: stmt, Source: stmt.String()})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// startREPL executes one line at a time. IN statements read from the same
// buffered stdin as the prompt loop.
func startREPL(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	stdin := bufio.NewReader(os.Stdin)
	env := interpreter.NewEnvironment()
	for {
		fmt.Print(">>> ")
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		_, runErr := s.runner.Run(c.Context, runner.Request{
			Origin: "repl",
			Source: line,
			Input:  stdin,
			Output: os.Stdout,
			Env:    env,
		})
		if runErr != nil {
			fmt.Fprintln(os.Stderr, cmdlang.Describe(runErr))
		}
	}
}

func startServer(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := s.cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	srv := server.NewServer(server.FromAppConfig(s.cfg, version), s.runner, s.logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(addr)
	}()

	select {
	case err := <-serverErr:
		return err
	case sig := <-sigChan:
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		if err := srv.Shutdown(); err != nil {
			return err
		}
		select {
		case err := <-serverErr:
			return err
		case <-time.After(30 * time.Second):
			return cli.Exit("shutdown timed out", 1)
		}
	}
}
