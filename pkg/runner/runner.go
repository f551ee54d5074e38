package runner

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"

	"github.com/oarkflow/cmdlang"
	"github.com/oarkflow/cmdlang/interpreter"
	"github.com/oarkflow/cmdlang/pkg/journal"
)

type Option func(*Runner)

func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithPowMode(mode interpreter.PowMode) Option {
	return func(r *Runner) {
		r.powMode = mode
	}
}

func WithStrictCommas(strict bool) Option {
	return func(r *Runner) {
		r.strictCommas = strict
	}
}

func WithCacheSize(size int64) Option {
	return func(r *Runner) {
		r.cacheSize = size
	}
}

// WithJournal records every run in j. The runner does not close it.
func WithJournal(j *journal.Journal) Option {
	return func(r *Runner) {
		r.journal = j
	}
}

// Runner parses programs through a shared cache and executes each request
// against its own store, or the store supplied in the request.
type Runner struct {
	cache        *interpreter.Cache
	logger       *log.Logger
	journal      *journal.Journal
	powMode      interpreter.PowMode
	strictCommas bool
	cacheSize    int64
}

type Request struct {
	// Origin names where the source came from (a path, "repl", "http").
	Origin string
	Source string
	Input  io.Reader
	Output io.Writer
	// NoPrompt suppresses the IN prompt, for callers that supply input
	// up front.
	NoPrompt bool
	// Env is reused when set, so successive requests share variables.
	Env *interpreter.Environment
}

type Result struct {
	ID          string
	Env         *interpreter.Environment
	OutputLines int
	Duration    time.Duration
}

func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		logger:    &log.DefaultLogger,
		cacheSize: 1024,
	}
	for _, opt := range opts {
		opt(r)
	}
	cache, err := interpreter.NewCache(r.cacheSize, cmdlang.WithStrictCommas(r.strictCommas))
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

// Check parses source without running it.
func (r *Runner) Check(source string) (*cmdlang.Program, error) {
	return r.cache.Parse(source)
}

// Run parses and executes req. The returned Result is always non-nil; the
// error is the program's syntax or execution error.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{ID: xid.New().String(), Env: req.Env}
	if res.Env == nil {
		res.Env = interpreter.NewEnvironment()
	}
	input := req.Input
	if input == nil {
		input = bytes.NewReader(nil)
	}
	output := &lineCounter{w: req.Output}
	if output.w == nil {
		output.w = io.Discard
	}

	start := time.Now()
	program, err := r.cache.Parse(req.Source)
	if err == nil {
		in := interpreter.New(
			interpreter.WithEnvironment(res.Env),
			interpreter.WithInput(input),
			interpreter.WithOutput(output),
			interpreter.WithLogger(r.logger),
			interpreter.WithPowMode(r.powMode),
			interpreter.WithPrompt(!req.NoPrompt),
		)
		err = in.Run(ctx, program)
	}
	res.Duration = time.Since(start)
	res.OutputLines = output.lines

	r.record(req, res, start, err)
	return res, err
}

func (r *Runner) record(req Request, res *Result, start time.Time, runErr error) {
	if runErr != nil {
		r.logger.Debug().Err(runErr).Str("run_id", res.ID).Str("origin", req.Origin).Msg("run failed")
	}
	if r.journal == nil {
		return
	}
	rec := journal.Record{
		ID:          res.ID,
		Source:      req.Origin,
		Status:      journal.StatusOK,
		OutputLines: res.OutputLines,
		StartedAt:   start.UTC(),
		DurationMs:  res.Duration.Milliseconds(),
	}
	if runErr != nil {
		rec.Status = journal.StatusFailed
		rec.Error = cmdlang.Describe(runErr)
	}
	if err := r.journal.Append(rec); err != nil {
		r.logger.Error().Err(err).Str("run_id", res.ID).Msg("failed to append journal record")
	}
}

func (r *Runner) Close() {
	r.cache.Close()
}

type lineCounter struct {
	w     io.Writer
	lines int
}

func (c *lineCounter) Write(p []byte) (int, error) {
	c.lines += bytes.Count(p, []byte{'\n'})
	return c.w.Write(p)
}
