package hookwasm

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/corekit/appcore/app"
	"github.com/corekit/appcore/applog"
	"github.com/corekit/appcore/errors"
)

const owner = "hookwasm.Module"

// Conventional export names bound by Bind.
const (
	ExportRenderInit  = "render_init"
	ExportRenderFrame = "render_frame"
	ExportEventInit   = "event_init"
	ExportEventTick   = "event_tick"
)

// Module wraps an instantiated WebAssembly module whose exported
// nullary functions serve as runtime hooks.
type Module struct {
	ctx     context.Context
	runtime wazero.Runtime
	mod     api.Module
}

// Load instantiates wasmBytes with WASI preview1 available. The
// returned Module owns its wazero runtime; release it with Close.
func Load(ctx context.Context, wasmBytes []byte) (*Module, error) {
	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	mod, err := r.Instantiate(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, errors.Instantiation(errors.PhaseHook, "instantiate wasm module", err)
	}

	return &Module{ctx: ctx, runtime: r, mod: mod}, nil
}

// Hook returns a runtime hook backed by the exported nullary function
// with the given name, or false when the module exports no such
// function. A trapping call is logged at error level and never panics
// the owning loop.
func (m *Module) Hook(name string) (func(), bool) {
	fn := m.mod.ExportedFunction(name)
	if fn == nil {
		return nil, false
	}
	return func() {
		if _, err := fn.Call(m.ctx); err != nil {
			applog.Errorf(owner, "%s: %v", name, err)
		}
	}, true
}

// Bind installs whichever conventional hook exports the module
// provides onto b, and returns how many were bound.
func (m *Module) Bind(b *app.Builder) int {
	bound := 0
	if fn, ok := m.Hook(ExportRenderInit); ok {
		b.OnRenderInit(fn)
		bound++
	}
	if fn, ok := m.Hook(ExportRenderFrame); ok {
		b.OnRenderFrame(fn)
		bound++
	}
	if fn, ok := m.Hook(ExportEventInit); ok {
		b.OnEventInit(fn)
		bound++
	}
	if fn, ok := m.Hook(ExportEventTick); ok {
		b.OnEventTick(fn)
		bound++
	}
	applog.Debugf(owner, "bound %d wasm hooks", bound)
	return bound
}

// Close releases the module and its runtime.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
