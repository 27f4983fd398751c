// Package hookwasm loads runtime hooks from WebAssembly modules.
//
// A module's exported nullary functions become hooks for the render
// and control loops, so frame logic can ship as a wasm plugin instead
// of compiled-in Go:
//
//	mod, err := hookwasm.Load(ctx, wasmBytes)
//	if err != nil {
//		return err
//	}
//	defer mod.Close(ctx)
//
//	b := app.New(800, 600, "plugin demo")
//	mod.Bind(b) // wires render_init/render_frame/event_init/event_tick
//
// Hooks run on whichever loop owns their extension point; a trapping
// call is logged and the loop continues.
package hookwasm
