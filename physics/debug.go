package physics

import (
	"fmt"
	"strings"

	"github.com/milk9111/spheredrop/linmem"
)

// DebugMode is a bit set selecting what a debug-draw pass emits.
type DebugMode uint32

const (
	DebugOff           DebugMode = 0
	DebugWireframe     DebugMode = 1 << 0
	DebugContactPoints DebugMode = 1 << 3
	DebugConstraints   DebugMode = 1 << 11
)

// DebugDefault is the mode used when debug drawing is simply switched on.
const DebugDefault = DebugWireframe

// Has reports whether all bits of flag are set.
func (m DebugMode) Has(flag DebugMode) bool {
	return flag != 0 && m&flag == flag
}

// DebugDrawer is the callback surface an engine drives during DebugDrawWorld.
// Every address is a byte offset into the engine's Memory and is only valid
// until the callback returns.
type DebugDrawer interface {
	DrawLine(from, to, color linmem.Ptr)
	DrawContactPoint(pointOnB, normalOnB linmem.Ptr, distance float32, lifeTime int, color linmem.Ptr)
	ReportErrorWarning(warning string)
	Draw3DText(location linmem.Ptr, text string)
	DebugMode() DebugMode
}

var debugModeNames = map[string]DebugMode{
	"wireframe":      DebugWireframe,
	"contact_points": DebugContactPoints,
	"constraints":    DebugConstraints,
}

// ParseDebugMode combines named flags. An empty list yields DebugDefault.
func ParseDebugMode(names []string) (DebugMode, error) {
	if len(names) == 0 {
		return DebugDefault, nil
	}
	var mode DebugMode
	for _, name := range names {
		flag, ok := debugModeNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return DebugOff, fmt.Errorf("physics: unknown debug mode %q", name)
		}
		mode |= flag
	}
	return mode, nil
}
