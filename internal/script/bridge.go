// Package script embeds the Lua environment the dashboard is configured
// with. The Bridge owns the interpreter; values cross it only through Push
// and Pull.
package script

import (
	"context"
	"strings"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const (
	DefaultTimeout = 250 * time.Millisecond
	defaultChunk   = "init.lua"
)

// Bridge owns a single Lua environment. It is not safe for concurrent use;
// the logic pass is its only caller.
type Bridge struct {
	L          *lua.LState
	proto      *lua.FunctionProto
	source     string
	chunk      string
	timeout    time.Duration
	compileErr error
	errFactory errors.Factory
}

type Option func(*Bridge)

// WithTimeout bounds each Evaluate call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// WithChunkName sets the name used in script error messages.
func WithChunkName(name string) Option {
	return func(b *Bridge) {
		if name != "" {
			b.chunk = name
		}
	}
}

// New creates a bridge with an empty environment and no program. Evaluate
// fails with ErrNoScript until the first successful Reload.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		chunk:      defaultChunk,
		timeout:    DefaultTimeout,
		errFactory: errors.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.L = newState(b.chunk)

	return b
}

// Reload replaces the program. A source that compiles gets a brand new
// environment; one that does not leaves the current environment in place
// and makes every Evaluate fail until the next Reload.
func (b *Bridge) Reload(source string) error {
	proto, err := compile(source, b.chunk)
	if err != nil {
		b.compileErr = b.errFactory.Wrap(ErrScriptLoad, err)
		return b.compileErr
	}

	if b.L != nil {
		b.L.Close()
	}
	b.L = newState(b.chunk)
	b.proto = proto
	b.source = source
	b.compileErr = nil

	logger.Debug().Str("script", b.chunk).Int("bytes", len(source)).Msg("Script loaded")

	return nil
}

func compile(source, chunk string) (*lua.FunctionProto, error) {
	stmts, err := parse.Parse(strings.NewReader(source), chunk)
	if err != nil {
		return nil, err
	}
	return lua.Compile(stmts, chunk)
}

// Source returns the text of the last program that compiled.
func (b *Bridge) Source() string {
	return b.source
}

// Evaluate runs the program from the top, then calls the entry point when
// the script defines one.
func (b *Bridge) Evaluate(ctx context.Context) error {
	if b.compileErr != nil {
		return b.compileErr
	}
	if b.proto == nil {
		return b.errFactory.New(ErrNoScript)
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	L := b.L
	L.SetContext(ctx)
	defer L.RemoveContext()
	defer L.SetTop(0)

	L.Push(L.NewFunctionFromProto(b.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return b.runtimeErr(ctx, err)
	}
	L.SetTop(0)

	fn, ok := L.GetGlobal(EntryPoint).(*lua.LFunction)
	if !ok {
		return nil
	}
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		return b.runtimeErr(ctx, err)
	}

	return nil
}

func (b *Bridge) runtimeErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return b.errFactory.Wrap(ErrScriptTimeout, err).WithData(b.timeout)
	}
	return b.errFactory.Wrap(ErrScriptRuntime, err)
}

// Close releases the environment.
func (b *Bridge) Close() {
	if b.L != nil {
		b.L.Close()
		b.L = nil
	}
}
