// Package linmem models the linear memory of a foreign physics module: one
// contiguous float32 array addressed by byte offsets.
package linmem

import (
	"errors"
	"fmt"
)

// Ptr is a byte offset into a Heap.
type Ptr uint32

const floatSize = 4

var (
	ErrOutOfBounds = errors.New("linmem: address out of bounds")
	ErrMisaligned  = errors.New("linmem: address not float32 aligned")
	ErrHeapSize    = errors.New("linmem: invalid heap size")
)

// Heap is a growable float32 arena. Growing reallocates the backing array, so
// views returned by HeapF32 are only valid until the next Alloc.
type Heap struct {
	f32 []float32
	top int
}

// NewHeap allocates a heap of size bytes.
func NewHeap(size int) (*Heap, error) {
	if size <= 0 || size%floatSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeapSize, size)
	}
	return &Heap{f32: make([]float32, size/floatSize)}, nil
}

// HeapF32 returns the heap as a float array indexed by ptr/4.
func (h *Heap) HeapF32() []float32 {
	if h == nil {
		return nil
	}
	return h.f32
}

// Size returns the heap size in bytes.
func (h *Heap) Size() int {
	if h == nil {
		return 0
	}
	return len(h.f32) * floatSize
}

// Alloc reserves n consecutive floats and returns the address of the first.
// The heap doubles until the request fits.
func (h *Heap) Alloc(n int) Ptr {
	if n <= 0 {
		return Ptr(h.top * floatSize)
	}
	need := h.top + n
	if need > len(h.f32) {
		size := len(h.f32)
		if size == 0 {
			size = n
		}
		for size < need {
			size *= 2
		}
		grown := make([]float32, size)
		copy(grown, h.f32[:h.top])
		h.f32 = grown
	}
	p := Ptr(h.top * floatSize)
	h.top = need
	return p
}

// Store writes vals starting at p.
func (h *Heap) Store(p Ptr, vals ...float32) error {
	idx, err := index(h.HeapF32(), p, len(vals))
	if err != nil {
		return err
	}
	copy(h.f32[idx:], vals)
	return nil
}

// Mark returns the current allocation top for a later Release.
func (h *Heap) Mark() Ptr {
	return Ptr(h.top * floatSize)
}

// Release frees everything allocated after mark.
func (h *Heap) Release(mark Ptr) {
	idx := int(mark / floatSize)
	if idx < 0 || idx > h.top {
		return
	}
	clear(h.f32[idx:h.top])
	h.top = idx
}
