package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/spheredrop/ecs"
	"github.com/milk9111/spheredrop/physics/chipmunk"
	"github.com/milk9111/spheredrop/render"
	"github.com/milk9111/spheredrop/scene"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// Config holds the command line settings of a Game.
type Config struct {
	ScenePath string
	// Debug forces debug lines on at startup.
	Debug     bool
	Watch     bool
	Unclamped bool
}

type Game struct {
	ctx    context.Context
	config Config

	sim      *scene.Simulation
	renderer *render.Scene
	watcher  *scene.Watcher
	hud      *ebitenui.UI

	frames  int
	resets  int
	stopped bool
	closed  bool
}

// NewGame loads the scene and builds the first simulation. It blocks until
// the physics engine is ready or ctx is done.
func NewGame(ctx context.Context, config Config) (*Game, error) {
	g := &Game{ctx: ctx, config: config}

	spec, err := scene.LoadSpec(config.ScenePath)
	if err != nil {
		return nil, err
	}
	if err := g.build(spec); err != nil {
		return nil, err
	}

	if config.Watch {
		if config.ScenePath == "" {
			log.Printf("Game: -watch needs -scene, hot reload disabled")
		} else {
			w, err := scene.NewWatcher(config.ScenePath)
			if err != nil {
				log.Printf("Game: failed to watch %s: %v", config.ScenePath, err)
			} else {
				g.watcher = w
			}
		}
	}

	g.hud = NewHUD(g)
	return g, nil
}

// applyOverrides layers the command line settings over a loaded scene.
func (c Config) applyOverrides(spec *scene.Spec) {
	if c.Debug {
		spec.Debug.Enabled = true
	}
}

// build replaces the running simulation. The camera is kept across rebuilds.
func (g *Game) build(spec *scene.Spec) error {
	g.config.applyOverrides(spec)

	var camera *render.ArcRotateCamera
	if g.renderer != nil {
		camera = g.renderer.Camera()
	}
	renderer := newRenderer(spec, camera)
	renderer.Resize(baseWidth, baseHeight)

	engine := chipmunk.NewEngine(chipmunk.Options{
		HeapBytes:  spec.Debug.HeapBytes,
		Iterations: spec.SolverIterations,
	})
	sim, err := scene.Build(g.ctx, engine, renderer, spec, scene.BuildOptions{Unclamped: g.config.Unclamped})
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	if g.sim != nil {
		if err := g.sim.Close(); err != nil {
			log.Printf("Game: close previous scene: %v", err)
		}
	}
	g.sim = sim
	g.renderer = renderer
	return nil
}

func (g *Game) toggleDebug() {
	g.sim.SetDebugEnabled(!g.sim.DebugEnabled())
}

func (g *Game) requestReset() {
	g.sim.RequestReset()
}

// Stop makes the next Update tear down and terminate the game loop.
func (g *Game) Stop() {
	g.stopped = true
}

// Close removes every body and releases the physics world and the watcher.
// It is safe to call more than once.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("Game: close watcher: %v", err)
		}
	}
	if err := g.sim.Close(); err != nil {
		log.Printf("Game: close scene: %v", err)
	}
}

func (g *Game) Update() error {
	if g.stopped || g.ctx.Err() != nil {
		g.Close()
		return ebiten.Termination
	}

	g.frames++
	g.handleInput()
	g.hud.Update()
	g.reload()

	g.sim.Update()
	for _, evt := range g.sim.Events() {
		if evt.Kind != ecs.EventReset {
			continue
		}
		g.resets++
		if forced, _ := evt.Data.(bool); forced {
			log.Printf("Game: forced reset of %s", evt.Entity)
		}
	}
	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.Stop()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.toggleDebug()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.requestReset()
	}
	g.renderer.HandleInput()
}

func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("Game: watcher error: %v", err)
		}
	default:
	}

	changed := false
	for {
		name, ok := g.watcher.Poll()
		if !ok {
			break
		}
		if filepath.Clean(name) == filepath.Clean(g.config.ScenePath) {
			changed = true
		}
	}
	if !changed {
		return
	}

	spec, err := scene.LoadSpec(g.config.ScenePath)
	if err != nil {
		log.Printf("Game: reload %s: %v", g.config.ScenePath, err)
		return
	}
	if err := g.build(spec); err != nil {
		log.Printf("Game: reload %s: %v", g.config.ScenePath, err)
		return
	}
	log.Printf("Game: reloaded %s", g.config.ScenePath)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	g.hud.Draw(screen)

	debug := "off"
	if g.sim.DebugEnabled() {
		debug = "on"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    Resets: %d    Next in: %d    Debug: %s",
		g.frames, ebiten.ActualFPS(), g.resets, g.sim.FramesUntilReset(), debug))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
