package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/corekit/appcore/app"
	"github.com/corekit/appcore/applog"
	"github.com/corekit/appcore/backend"
	_ "github.com/corekit/appcore/backend/term"
	"github.com/corekit/appcore/config"
	"github.com/corekit/appcore/hookwasm"
	"github.com/corekit/appcore/registry"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "Path to YAML config file")
		backName = flag.String("backend", "", "Backend name (term, headless)")
		width    = flag.Int("width", 0, "Window width in pixels")
		height   = flag.Int("height", 0, "Window height in pixels")
		title    = flag.String("title", "", "Window title")
		logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		logFile  = flag.String("log-file", "", "Also write logs to this file")
		stallMs  = flag.Float64("stall", 0, "Frame stall threshold in milliseconds")
		wasmFile = flag.String("wasm", "", "WebAssembly hook module to bind")
		frames   = flag.Int("frames", 0, "Exit after this many frames (0 = run until closed)")
	)
	flag.Parse()

	if err := run(*cfgPath, *backName, *width, *height, *title, *logLevel, *logFile, *stallMs, *wasmFile, *frames); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, backName string, width, height int, title, logLevel, logFile string, stallMs float64, wasmFile string, frames int) error {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if backName != "" {
		cfg.Backend = backName
	}
	if width > 0 {
		cfg.Window.Width = width
	}
	if height > 0 {
		cfg.Window.Height = height
	}
	if title != "" {
		cfg.Window.Title = title
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if stallMs > 0 {
		cfg.StallMillis = stallMs
	}
	if err := cfg.Apply(); err != nil {
		return err
	}

	scene := newScene(cfg.Window.Width, cfg.Window.Height)
	if frames > 0 {
		scene.maxFrames = frames
	}
	builder := cfg.Builder().
		OnRenderInit(scene.init).
		OnRenderFrame(scene.frame).
		OnKey(func(key backend.Key, _ int, action backend.Action, _ backend.Mods) {
			if action == backend.Press && key == backend.KeyEscape {
				app.Exit()
			}
		}).
		OnResize(func(w, h int) {
			scene.resize(w, h)
		})

	if wasmFile != "" {
		data, err := os.ReadFile(wasmFile)
		if err != nil {
			return fmt.Errorf("read hook module: %w", err)
		}
		ctx := context.Background()
		mod, err := hookwasm.Load(ctx, data)
		if err != nil {
			return err
		}
		defer mod.Close(ctx)
		bound := mod.Bind(builder)
		applog.Infof("appdemo", "bound %d wasm hooks from %s", bound, wasmFile)
	}

	a, err := builder.Build()
	if err != nil {
		return err
	}
	defer a.Close()

	reportRates(a)
	a.Run()
	return nil
}

// reportRates logs the render and event rates once a second until the
// application exits.
func reportRates(a *app.App) {
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-a.Done():
				return
			case <-tick.C:
				applog.Infof("appdemo", "render %.1f/s event %.1f/s",
					app.RenderRate(), app.EventRate())
			}
		}
	}()
}

// framePresenter is implemented by backends with a pixel surface the
// scene can blit into. Backends without one (headless) skip drawing.
type framePresenter interface {
	SetFrame(img image.Image)
}

// scene is a bouncing ball drawn with a software 2D canvas. frame runs
// on the render goroutine while resize arrives from the control
// goroutine's event dispatch, so all state sits behind one mutex.
// maxFrames is fixed before Build and read-only afterwards.
type scene struct {
	mu        sync.Mutex
	dc        *gg.Context
	x, y      float64
	vx, vy    float64
	radius    float64
	count     int
	maxFrames int
}

func newScene(width, height int) *scene {
	return &scene{
		dc:     gg.NewContext(width, height),
		x:      float64(width) / 2,
		y:      float64(height) / 2,
		vx:     120,
		vy:     80,
		radius: math.Max(4, float64(minInt(width, height))/12),
	}
}

func (s *scene) init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	applog.Infof("appdemo", "scene ready on %dx%d canvas", s.dc.Width(), s.dc.Height())
}

func (s *scene) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.dc.Close()
	s.dc = gg.NewContext(width, height)
	s.x = math.Min(s.x, float64(width))
	s.y = math.Min(s.y, float64(height))
}

func (s *scene) frame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	dt := app.RenderDuration().Seconds()
	if dt <= 0 || dt > 0.25 {
		dt = 1.0 / 60
	}

	w, h := float64(s.dc.Width()), float64(s.dc.Height())
	s.x += s.vx * dt
	s.y += s.vy * dt
	if s.x < s.radius || s.x > w-s.radius {
		s.vx = -s.vx
		s.x = math.Max(s.radius, math.Min(s.x, w-s.radius))
	}
	if s.y < s.radius || s.y > h-s.radius {
		s.vy = -s.vy
		s.y = math.Max(s.radius, math.Min(s.y, h-s.radius))
	}

	s.dc.ClearWithColor(gg.RGB(0.07, 0.07, 0.12))
	s.dc.SetRGB(0.95, 0.55, 0.2)
	s.dc.DrawCircle(s.x, s.y, s.radius)
	if err := s.dc.Fill(); err != nil {
		applog.Warnf("appdemo", "fill: %v", err)
	}

	if win, ok := registry.Get[backend.Window](app.Resources(), app.KeyWindow); ok {
		if p, ok := win.(framePresenter); ok {
			p.SetFrame(s.dc.Image())
		}
	}

	s.count++
	if s.maxFrames > 0 && s.count >= s.maxFrames {
		app.Exit()
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
