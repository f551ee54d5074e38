package server

import (
	sterrors "errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/oarkflow/json"
	"github.com/oarkflow/log"

	"github.com/oarkflow/cmdlang"
	"github.com/oarkflow/cmdlang/interpreter"
	"github.com/oarkflow/cmdlang/pkg/config"
	"github.com/oarkflow/cmdlang/pkg/runner"
)

type Config struct {
	Version string
	// MaxInputLines caps the input lines a single run request may supply.
	MaxInputLines int
	BodyLimit     int
	// RequestLog enables the fiber access log middleware.
	RequestLog bool
}

// FromAppConfig builds server settings from the application config.
func FromAppConfig(cfg *config.Config, version string) Config {
	return Config{
		Version:       version,
		MaxInputLines: cfg.Server.MaxInputLines,
		BodyLimit:     cfg.Server.BodyLimit,
		RequestLog:    true,
	}
}

type Server struct {
	app    *fiber.App
	runner *runner.Runner
	logger *log.Logger
	config Config
}

type RunRequest struct {
	Source string   `json:"source"`
	Input  []string `json:"input"`
}

type RunResponse struct {
	ID       string                `json:"id"`
	Output   []string              `json:"output"`
	Vars     []interpreter.Binding `json:"vars"`
	Error    string                `json:"error,omitempty"`
	Kind     string                `json:"kind,omitempty"`
	Duration float64               `json:"duration_ms"`
}

type CheckRequest struct {
	Source string `json:"source"`
}

type CheckResponse struct {
	Valid      bool     `json:"valid"`
	Statements []string `json:"statements,omitempty"`
	Error      string   `json:"error,omitempty"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
}

func NewServer(cfg Config, r *runner.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	fiberCfg := fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder: func(v interface{}) ([]byte, error) {
			return json.Marshal(v)
		},
		JSONDecoder: func(data []byte, v interface{}) error {
			return json.Unmarshal(data, v)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	}
	if cfg.BodyLimit > 0 {
		fiberCfg.BodyLimit = cfg.BodyLimit
	}
	server := &Server{
		app:    fiber.New(fiberCfg),
		runner: r,
		logger: logger,
		config: cfg,
	}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	if s.config.RequestLog {
		s.app.Use(logger.New())
	}
	s.app.Get("/api/health", s.healthHandler)
	s.app.Post("/api/run", s.runHandler)
	s.app.Post("/api/check", s.checkHandler)
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   s.config.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// runHandler executes a program against a fresh store. Program errors are
// reported in the body with status 200; only malformed requests get 400.
func (s *Server) runHandler(c *fiber.Ctx) error {
	var req RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if s.config.MaxInputLines > 0 && len(req.Input) > s.config.MaxInputLines {
		return c.Status(400).JSON(fiber.Map{"error": "Too many input lines"})
	}
	var input strings.Builder
	for _, line := range req.Input {
		input.WriteString(line)
		input.WriteByte('\n')
	}
	var output strings.Builder
	res, err := s.runner.Run(c.UserContext(), runner.Request{
		Origin:   "http",
		Source:   req.Source,
		Input:    strings.NewReader(input.String()),
		Output:   &output,
		NoPrompt: true,
	})
	resp := RunResponse{
		ID:       res.ID,
		Output:   splitLines(output.String()),
		Vars:     res.Env.Snapshot(),
		Duration: float64(res.Duration.Microseconds()) / 1000,
	}
	if err != nil {
		resp.Error = err.Error()
		resp.Kind = errorKind(err)
	}
	return c.JSON(resp)
}

func (s *Server) checkHandler(c *fiber.Ctx) error {
	var req CheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	program, err := s.runner.Check(req.Source)
	if err != nil {
		resp := CheckResponse{Error: cmdlang.Describe(err)}
		var e *cmdlang.Error
		if sterrors.As(err, &e) {
			resp.Line, resp.Column = e.Line, e.Column
		}
		return c.JSON(resp)
	}
	resp := CheckResponse{Valid: true, Statements: make([]string, 0, len(program.Statements))}
	for _, stmt := range program.Statements {
		resp.Statements = append(resp.Statements, stmt.String())
	}
	return c.JSON(resp)
}

func errorKind(err error) string {
	if cmdlang.IsSyntaxError(err) {
		return cmdlang.SyntaxError.String()
	}
	return cmdlang.ExecutionError.String()
}

// splitLines breaks captured output into lines.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("server listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
