// Package chipmunk runs the physics capability interface on Chipmunk2D. Bodies
// live in the XY plane; rotations are reported as quaternions about +Z.
package chipmunk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spheredrop/linmem"
	"github.com/milk9111/spheredrop/physics"
)

const (
	DefaultHeapBytes  = 64 * 1024
	DefaultIterations = 10
)

var (
	ErrNotReady  = errors.New("chipmunk: engine not ready")
	ErrNonPlanar = errors.New("chipmunk: not in the XY plane")
)

// Options configures an Engine.
type Options struct {
	// HeapBytes is the initial size of the linear memory used by debug drawing.
	HeapBytes int
	// Iterations is the solver iteration count of every space.
	Iterations int
}

// Engine instantiates linear memory asynchronously and builds Chipmunk spaces.
type Engine struct {
	opts Options

	once sync.Once
	done chan struct{}
	heap *linmem.Heap
	err  error
}

var _ physics.Engine = (*Engine)(nil)

// NewEngine returns an engine that is not ready until Ready succeeds.
func NewEngine(opts Options) *Engine {
	if opts.HeapBytes == 0 {
		opts.HeapBytes = DefaultHeapBytes
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	return &Engine{opts: opts, done: make(chan struct{})}
}

// Ready starts instantiation on first use and blocks until it finishes or ctx
// is done. Later calls return the first result.
func (e *Engine) Ready(ctx context.Context) error {
	e.once.Do(func() {
		go func() {
			defer close(e.done)
			e.heap, e.err = linmem.NewHeap(e.opts.HeapBytes)
			if e.err == nil {
				log.Printf("chipmunk: engine ready, heap %d bytes", e.heap.Size())
			}
		}()
	})
	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewWorld creates a space with the given gravity, which must have no Z part.
func (e *Engine) NewWorld(gravity mgl32.Vec3) (physics.World, error) {
	select {
	case <-e.done:
	default:
		return nil, ErrNotReady
	}
	if e.err != nil {
		return nil, e.err
	}
	if gravity.Z() != 0 {
		return nil, fmt.Errorf("%w: gravity %v", ErrNonPlanar, gravity)
	}

	space := cp.NewSpace()
	space.Iterations = uint(e.opts.Iterations)
	space.SetGravity(cp.Vector{X: float64(gravity.X()), Y: float64(gravity.Y())})

	return &World{
		space:  space,
		heap:   e.heap,
		bodies: make(map[physics.BodyID]*bodyInfo),
	}, nil
}
