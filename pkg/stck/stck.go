// Package stck is the embedding surface: it wires the tokenizer,
// preprocessor, parser, and evaluator into the handful of calls a host
// program needs to load and run scripts, register hooks, and inspect the
// resulting stack.
package stck

import (
	"path/filepath"

	"github.com/google/uuid"

	"github.com/PedroManse/stt-sub000/internal/ast"
	"github.com/PedroManse/stt-sub000/internal/evaluator"
	"github.com/PedroManse/stt-sub000/internal/lexer"
	"github.com/PedroManse/stt-sub000/internal/manifest"
	"github.com/PedroManse/stt-sub000/internal/parser"
	"github.com/PedroManse/stt-sub000/internal/preprocessor"
	"github.com/PedroManse/stt-sub000/internal/sourcecache"
	"github.com/PedroManse/stt-sub000/internal/token"
)

// Hook is a host-provided native callable registered under a name in a
// runtime context.
type Hook = evaluator.Hook

// RuntimeContext is one interpreter run: an evaluator tagged with a fresh
// run id that correlates its debug dumps and error reports.
type RuntimeContext struct {
	eval  *evaluator.Context
	runID string
}

func NewRuntimeContext() *RuntimeContext {
	ctx := evaluator.New()
	ctx.RunID = uuid.NewString()
	return &RuntimeContext{eval: ctx, runID: ctx.RunID}
}

// RunID returns the context's correlation id.
func (r *RuntimeContext) RunID() string { return r.runID }

// AddHook registers a host callable; it resolves after built-ins,
// arguments, and user functions.
func (r *RuntimeContext) AddHook(name string, hook Hook) {
	r.eval.AddHook(name, hook)
}

// Stack returns a read-only snapshot of the operand stack, bottom first.
func (r *RuntimeContext) Stack() []ast.Value {
	live := r.eval.GetStack()
	snapshot := make([]ast.Value, len(live))
	copy(snapshot, live)
	return snapshot
}

// Evaluator exposes the underlying evaluator context, for hooks that need
// to push and pop values directly.
func (r *RuntimeContext) Evaluator() *evaluator.Context { return r.eval }

// ExecuteEntireCode runs a parsed program in this context.
func (r *RuntimeContext) ExecuteEntireCode(code *ast.Code) (ast.ControlFlow, error) {
	return r.eval.ExecuteEntireCode(code)
}

// GetTokens tokenizes and preprocesses the file at path. The file's
// stck.yaml manifest, when present next to it, pre-seeds the preprocessor.
func GetTokens(path string, cache sourcecache.FileCacher) (*token.Block, error) {
	cont, err := cache.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := lexer.Tokenize(path, cont)
	if err != nil {
		return nil, err
	}
	proc := preprocessor.New(cache)
	m, err := manifest.Load(filepath.Join(filepath.Dir(path), manifest.FileName))
	if err != nil {
		return nil, err
	}
	for _, def := range m.PragmaDefines {
		proc.Define(def)
	}
	for _, root := range m.IncludeRoots {
		proc.AddRoot(filepath.Join(filepath.Dir(path), root))
	}
	return proc.Process(raw)
}

// GetTokensStr tokenizes and preprocesses in-memory source text. Includes
// resolve only against the isolated cache, never the filesystem.
func GetTokensStr(text, sourceName string, isolated *sourcecache.Isolated) (*token.Block, error) {
	raw, err := lexer.Tokenize(sourceName, text)
	if err != nil {
		return nil, err
	}
	return preprocessor.New(isolated).Process(raw)
}

// GetProjectCode loads, preprocesses, and parses the program at path.
func GetProjectCode(path string, cache sourcecache.FileCacher) (*ast.Code, error) {
	block, err := GetTokens(path, cache)
	if err != nil {
		return nil, err
	}
	return parser.Parse(block)
}

// ExecuteFile loads and runs the program at path in a fresh context.
func ExecuteFile(path string, cache sourcecache.FileCacher) (ast.ControlFlow, error) {
	code, err := GetProjectCode(path, cache)
	if err != nil {
		return ast.FlowContinue, err
	}
	return NewRuntimeContext().ExecuteEntireCode(code)
}
