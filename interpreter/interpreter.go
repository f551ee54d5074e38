package interpreter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"

	"github.com/oarkflow/cmdlang"
)

type Option func(*Interpreter)

func WithLogger(logger *log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

func WithPowMode(mode PowMode) Option {
	return func(in *Interpreter) {
		in.powMode = mode
	}
}

// WithInput sets the reader IN statements consume. A *bufio.Reader is used
// as is, so callers that also read from it (the REPL) stay in sync.
func WithInput(r io.Reader) Option {
	return func(in *Interpreter) {
		if br, ok := r.(*bufio.Reader); ok {
			in.input = br
			return
		}
		in.input = bufio.NewReader(r)
	}
}

func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.output = w
	}
}

// WithPrompt controls whether IN writes "Enter value for x: " before
// reading. Prompts are on by default.
func WithPrompt(enabled bool) Option {
	return func(in *Interpreter) {
		in.noPrompt = !enabled
	}
}

// WithEnvironment runs statements against an existing store.
func WithEnvironment(env *Environment) Option {
	return func(in *Interpreter) {
		in.env = env
	}
}

// Interpreter executes parsed statements against one Environment.
// It is not safe for concurrent use; give each run its own Interpreter.
type Interpreter struct {
	env     *Environment
	input   *bufio.Reader
	output  io.Writer
	logger  *log.Logger
	powMode PowMode

	noPrompt bool
}

func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		logger:  defaultLogger(),
		powMode: PowExact,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.env == nil {
		in.env = NewEnvironment()
	}
	if in.input == nil {
		in.input = bufio.NewReader(os.Stdin)
	}
	if in.output == nil {
		in.output = os.Stdout
	}
	return in
}

// defaultLogger is the package logger raised to error level, so embedded
// runs stay quiet unless WithLogger says otherwise.
func defaultLogger() *log.Logger {
	logger := log.DefaultLogger
	logger.Level = log.ErrorLevel
	return &logger
}

func (in *Interpreter) Env() *Environment {
	return in.env
}

// Run executes the program statement by statement and stops at the first
// error. ctx is checked between statements; a pending IN read is not
// interrupted.
func (in *Interpreter) Run(ctx context.Context, program *cmdlang.Program) error {
	runID := xid.New().String()
	start := time.Now()
	in.logger.Debug().Str("run_id", runID).Int("statements", len(program.Statements)).Msg("program started")
	for idx, stmt := range program.Statements {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.Execute(stmt); err != nil {
			in.logger.Warn().Err(err).Str("run_id", runID).Int("statement", idx+1).Str("keyword", stmt.Keyword()).Msg("program failed")
			return err
		}
	}
	in.logger.Debug().Str("run_id", runID).Int("variables", in.env.Len()).Dur("duration", time.Since(start)).Msg("program finished")
	return nil
}

func (in *Interpreter) Execute(stmt cmdlang.Statement) error {
	switch node := stmt.(type) {
	case *cmdlang.SetStatement:
		return in.execSet(node)
	case *cmdlang.ArithmeticStatement:
		result, err := fold(node.Op, node.Operands, in.numericOperand, in.powMode)
		if err != nil {
			return err
		}
		in.env.Set(node.Name, &Integer{Value: result})
		return nil
	case *cmdlang.FactorialStatement:
		result, err := factorial(node.Operand)
		if err != nil {
			return err
		}
		in.env.Set(node.Name, &Integer{Value: result})
		return nil
	case *cmdlang.ExprStatement:
		result, err := EvalInfix(node.Source)
		if err != nil {
			return err
		}
		in.env.Set(node.Name, &Integer{Value: result})
		return nil
	case *cmdlang.OutStatement:
		return in.execOut(node)
	case *cmdlang.InStatement:
		return in.execIn(node)
	default:
		return cmdlang.NewExecutionError("unsupported statement %T", stmt)
	}
}

func (in *Interpreter) execSet(node *cmdlang.SetStatement) error {
	switch node.Type {
	case cmdlang.NumberType:
		num, ok := numberLiteral(node.Literal)
		if !ok {
			return cmdlang.NewExecutionError("'%s' is not a valid NUMBER.", node.Literal)
		}
		in.env.Set(node.Name, num)
	case cmdlang.TextType:
		in.env.Set(node.Name, &String{Value: node.Literal})
	default:
		return cmdlang.NewExecutionError("unknown data type for '%s'", node.Name)
	}
	return nil
}

func (in *Interpreter) execOut(node *cmdlang.OutStatement) error {
	obj, err := in.env.Lookup(node.Name)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(in.output, "%s = %s\n", node.Name, obj.Inspect()); err != nil {
		return cmdlang.NewExecutionError("cannot write output: %v", err)
	}
	return nil
}

func (in *Interpreter) execIn(node *cmdlang.InStatement) error {
	if !in.noPrompt {
		if _, err := fmt.Fprintf(in.output, "Enter value for %s: ", node.Name); err != nil {
			return cmdlang.NewExecutionError("cannot write prompt: %v", err)
		}
	}
	line, err := in.readLine()
	if err != nil {
		return err
	}
	switch node.Type {
	case cmdlang.NumberType:
		num, ok := numberLiteral(line)
		if !ok {
			return cmdlang.NewExecutionError("Invalid input. Expected NUMBER but received '%s'.", line)
		}
		in.env.Set(node.Name, num)
	default:
		in.env.Set(node.Name, &String{Value: line})
	}
	return nil
}

// readLine reads one line without its terminator. A final line without a
// newline is accepted; end of input before any character is an error.
func (in *Interpreter) readLine() (string, error) {
	line, err := in.input.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", cmdlang.NewExecutionError("cannot read input: %v", err)
		}
		if line == "" {
			return "", cmdlang.NewExecutionError("EOF when reading a line.")
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// numericOperand resolves an arithmetic operand: a defined variable must
// hold a NUMBER, anything else must be an unsigned integer literal.
func (in *Interpreter) numericOperand(operand string) (*big.Int, error) {
	if obj, ok := in.env.Get(operand); ok {
		num, ok := obj.(*Integer)
		if !ok {
			return nil, cmdlang.NewExecutionError("Variable '%s' is not a NUMBER.", operand)
		}
		return num.Value, nil
	}
	if num, ok := numberLiteral(operand); ok {
		return num.Value, nil
	}
	if cmdlang.IsIdentifier(operand) {
		return nil, cmdlang.NewExecutionError("Variable '%s' is not defined.", operand)
	}
	return nil, cmdlang.NewExecutionError("'%s' is not a valid NUMBER.", operand)
}

func numberLiteral(s string) (*Integer, bool) {
	if !cmdlang.IsDigits(s) {
		return nil, false
	}
	return parseDigits(s)
}
