package component

import "github.com/milk9111/spheredrop/physics"

// ResetPolicy returns a body to Initial every Every frames.
type ResetPolicy struct {
	Every   int
	Frame   int
	Initial physics.Transform
}

var ResetPolicyComponent = NewComponent[ResetPolicy]()

// ResetRequest forces a reset on the next frame regardless of the counter.
type ResetRequest struct{}

var ResetRequestComponent = NewComponent[ResetRequest]()
