package interpreter

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/armon/go-metrics"
	"github.com/hashicorp/go-hclog"

	"arlindohall.com/glox/compiler"
	"arlindohall.com/glox/debug"
	"arlindohall.com/glox/memory"
	"arlindohall.com/glox/scanner"
	"arlindohall.com/glox/value"
)

type Options struct {
	// Flags is resolved by the caller and never changes afterwards.
	Flags debug.Flags

	// Stdout receives program output, Diagnostics receives everything the
	// debug flags turn on. They default to os.Stdout and os.Stderr.
	Stdout      io.Writer
	Diagnostics io.Writer

	// JSONLogFormat renders DEBUG_LOG_GC events as JSON lines.
	JSONLogFormat bool

	Logger hclog.Logger

	// Metrics receives GC and VM counters. Nil discards them.
	Metrics *metrics.Metrics
}

// Interpreter wires the scanner, compiler and VM together over one heap.
// Globals persist across calls, which is what the REPL relies on.
type Interpreter struct {
	flags    debug.Flags
	diag     io.Writer
	logger   hclog.Logger
	heap     *memory.Heap
	compiler *compiler.Compiler
	vm       *VM
}

func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if opts.Diagnostics == nil {
		opts.Diagnostics = os.Stderr
	}

	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	diagLogger := hclog.New(&hclog.LoggerOptions{
		Output:      opts.Diagnostics,
		Level:       hclog.Trace,
		DisableTime: true,
		JSONFormat:  opts.JSONLogFormat,
	})

	heap := memory.NewHeap(opts.Flags, diagLogger, opts.Metrics)

	opts.Logger.Debug("interpreter ready", "debug", opts.Flags.String())

	return &Interpreter{
		flags:    opts.Flags,
		diag:     opts.Diagnostics,
		logger:   opts.Logger,
		heap:     heap,
		compiler: compiler.New(heap, opts.Flags, opts.Diagnostics),
		vm:       NewVM(heap, opts.Flags, opts.Stdout, opts.Diagnostics),
	}
}

func (in *Interpreter) Flags() debug.Flags {
	return in.flags
}

func (in *Interpreter) Heap() *memory.Heap {
	return in.heap
}

func (in *Interpreter) Global(name string) value.Value {
	return in.vm.Global(name)
}

func (in *Interpreter) Interpret(reader *bufio.Reader, mode compiler.Mode) (value.Value, error) {
	tokens, err := scanner.New(reader).ScanTokens()
	if err != nil {
		return nil, err
	}

	function, err := in.compiler.Compile(tokens, mode)
	if err != nil {
		return nil, err
	}

	in.logger.Trace("compiled",
		"bytes", len(function.Chunk.Code),
		"constants", len(function.Chunk.Constants),
	)

	return in.vm.Interpret(function)
}

func (in *Interpreter) InterpretString(text string, mode compiler.Mode) (value.Value, error) {
	return in.Interpret(bufio.NewReader(strings.NewReader(text)), mode)
}
