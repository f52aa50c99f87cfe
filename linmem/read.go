package linmem

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ReadFloat32 reads one float at byte offset p.
func ReadFloat32(view []float32, p Ptr) (float32, error) {
	idx, err := index(view, p, 1)
	if err != nil {
		return 0, err
	}
	return view[idx], nil
}

// ReadVec3 reads three consecutive floats at byte offset p.
func ReadVec3(view []float32, p Ptr) (mgl32.Vec3, error) {
	idx, err := index(view, p, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{view[idx], view[idx+1], view[idx+2]}, nil
}

// ReadColor reads an RGB triple at byte offset p. Alpha is always 1.
func ReadColor(view []float32, p Ptr) (mgl32.Vec4, error) {
	rgb, err := ReadVec3(view, p)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	return rgb.Vec4(1), nil
}

func index(view []float32, p Ptr, n int) (int, error) {
	if checkBounds {
		if p%floatSize != 0 {
			return 0, fmt.Errorf("%w: %#x", ErrMisaligned, uint32(p))
		}
		if int(p/floatSize)+n > len(view) {
			return 0, fmt.Errorf("%w: %#x+%d (heap %d bytes)", ErrOutOfBounds, uint32(p), n*floatSize, len(view)*floatSize)
		}
	}
	return int(p / floatSize), nil
}
