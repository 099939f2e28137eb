package controller

import "errors"

// ErrAirborne is returned by GroundContactTracker.Surface when no ground
// contact is active.
var ErrAirborne = errors.New("not grounded")

// Body is the host physics body the controller drives. The host owns
// integration and collision solving; the controller only reads and writes
// velocity once per step.
type Body interface {
	Velocity() (vx, vy float64)
	SetVelocity(vx, vy float64)
	SetGravityScale(scale float64)
}

// AxisSampler converts raw host input into normalized intent, read once
// per tick. MoveX reports horizontal intent in [-1, 1] (digital input
// reports -1, 0 or 1). JumpPressed is edge-triggered: true only on the
// tick the jump control transitions to pressed.
type AxisSampler interface {
	MoveX() float64
	JumpPressed() bool
}

// ContactID identifies one host collision contact across its begin and
// end events. Hosts may use shape pointers, entity ids, or any other
// stable value.
type ContactID uint64
