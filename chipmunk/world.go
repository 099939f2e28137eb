// Package chipmunk is a reference physics host for the controller built
// on jakecoffman/cp. It owns the cp.Space, exposes the player body
// through the controller's Body interface, and translates collision
// begin/separate callbacks into ground-tracker contact events.
package chipmunk

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/platformkit/controller"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypePlayerGround
	collisionTypeSolid
)

// World wraps a cp.Space with one player and any number of tagged static
// platforms.
type World struct {
	space   *cp.Space
	tracker *controller.GroundContactTracker

	player      *PlayerBody
	groundShape *cp.Shape

	contactIDs  map[*cp.Shape]controller.ContactID
	surfaceTags map[*cp.Shape]string
	nextContact controller.ContactID

	handlersReady bool
}

// NewWorld builds a space with the given downward gravity (screen
// coordinates, +Y down). Contact events feed the given tracker.
func NewWorld(gravityY float64, tracker *controller.GroundContactTracker) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravityY})
	return &World{
		space:       space,
		tracker:     tracker,
		contactIDs:  make(map[*cp.Shape]controller.ContactID),
		surfaceTags: make(map[*cp.Shape]string),
	}
}

func (w *World) Space() *cp.Space {
	return w.space
}

// AddPlatform creates a static box with its top-left corner at (x, y),
// tagged with a surface identifier the tracker resolves to a profile.
func (w *World) AddPlatform(x, y, width, height float64, surface string) {
	bb := cp.BB{L: x, B: y, R: x + width, T: y + height}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	// the controller writes horizontal velocity directly, so platform
	// friction would only fight it
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypeSolid)
	shape.UserData = surface
	w.space.AddShape(shape)

	w.nextContact++
	w.contactIDs[shape] = w.nextContact
	w.surfaceTags[shape] = surface
}

// AttachPlayer creates the dynamic player body centered at (x, y) with a
// thin ground sensor under its feet and registers the contact handlers.
// Only one player per world.
func (w *World) AttachPlayer(x, y, width, height, mass float64) (*PlayerBody, error) {
	if w.player != nil {
		return nil, fmt.Errorf("chipmunk: player already attached")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("chipmunk: player size must be positive")
	}
	if mass <= 0 {
		mass = 1
	}

	// infinite moment keeps the body from rotating
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: y})

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetCollisionType(collisionTypePlayer)

	groundBB := cp.BB{
		L: -width * 0.45,
		B: height / 2.0,
		R: width * 0.45,
		T: height/2.0 + 2,
	}
	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypePlayerGround)

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.space.AddShape(groundShape)

	w.groundShape = groundShape
	w.player = &PlayerBody{body: body, shape: shape, world: w, gravityScale: 1}
	w.ensureHandlers()
	return w.player, nil
}

// Player returns the attached player body, or nil.
func (w *World) Player() *PlayerBody {
	return w.player
}

// Step advances the simulation. cp delivers begin/separate callbacks
// synchronously inside this call, so the tracker is current when the
// controller steps afterward.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
}

func (w *World) ensureHandlers() {
	if w.handlersReady {
		return
	}

	handler := w.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypeSolid)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world.tracker == nil {
			return true
		}
		if solid := world.solidShape(arb); solid != nil {
			world.tracker.Begin(world.contactID(solid), world.surfaceTag(solid))
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		world, ok := userData.(*World)
		if !ok || world.tracker == nil {
			return
		}
		if solid := world.solidShape(arb); solid != nil {
			world.tracker.End(world.contactID(solid))
		}
	}

	w.handlersReady = true
}

func (w *World) solidShape(arb *cp.Arbiter) *cp.Shape {
	a, b := arb.Shapes()
	if a == w.groundShape {
		return b
	}
	if b == w.groundShape {
		return a
	}
	return nil
}

func (w *World) contactID(shape *cp.Shape) controller.ContactID {
	if id, ok := w.contactIDs[shape]; ok {
		return id
	}
	// solid shapes added outside AddPlatform still get stable ids
	w.nextContact++
	w.contactIDs[shape] = w.nextContact
	return w.nextContact
}

func (w *World) surfaceTag(shape *cp.Shape) string {
	if tag, ok := w.surfaceTags[shape]; ok {
		return tag
	}
	if tag, ok := shape.UserData.(string); ok {
		return tag
	}
	return ""
}

// PlayerBody adapts a cp.Body to the controller's Body interface.
type PlayerBody struct {
	body         *cp.Body
	shape        *cp.Shape
	world        *World
	gravityScale float64
}

func (b *PlayerBody) Velocity() (float64, float64) {
	v := b.body.Velocity()
	return v.X, v.Y
}

func (b *PlayerBody) SetVelocity(vx, vy float64) {
	b.body.SetVelocity(vx, vy)
}

// SetGravityScale scales space gravity for this body only, via a custom
// velocity update function.
func (b *PlayerBody) SetGravityScale(scale float64) {
	b.gravityScale = scale
	b.body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping, dt float64) {
		cp.BodyUpdateVelocity(body, gravity.Mult(b.gravityScale), damping, dt)
	})
}

// Position returns the body center.
func (b *PlayerBody) Position() (float64, float64) {
	p := b.body.Position()
	return p.X, p.Y
}

// Teleport moves the body, zeroes its velocity, and drops all tracked
// ground contacts, since cp will not deliver separations for them.
func (b *PlayerBody) Teleport(x, y float64) {
	b.body.SetPosition(cp.Vector{X: x, Y: y})
	b.body.SetVelocity(0, 0)
	if b.world != nil && b.world.tracker != nil {
		b.world.tracker.ForceAirborne()
	}
}
