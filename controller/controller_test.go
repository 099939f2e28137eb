package controller

import (
	"math"
	"testing"
)

type fakeBody struct {
	vx, vy       float64
	gravityScale float64
}

func (b *fakeBody) Velocity() (float64, float64) { return b.vx, b.vy }
func (b *fakeBody) SetVelocity(vx, vy float64)   { b.vx, b.vy = vx, vy }
func (b *fakeBody) SetGravityScale(s float64)    { b.gravityScale = s }

type stubInput struct {
	moveX float64
	jump  bool
}

func (s *stubInput) MoveX() float64    { return s.moveX }
func (s *stubInput) JumpPressed() bool { return s.jump }

func newTestController(t *testing.T, body *fakeBody, in AxisSampler, smoothing bool) (*Controller, *GroundContactTracker) {
	t.Helper()
	tr := newTestTracker(t, 0)
	c, err := New(Config{
		Body:      body,
		Tracker:   tr,
		Sampler:   in,
		Smoothing: smoothing,
		UpSign:    1, // test profiles use positive-up impulses
	})
	if err != nil {
		t.Fatalf("build controller: %v", err)
	}
	return c, tr
}

func TestConstructionValidation(t *testing.T) {
	tr := newTestTracker(t, 0)
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing_body", Config{Tracker: tr}},
		{"missing_tracker", Config{Body: &fakeBody{}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New(c.cfg); err == nil {
				t.Fatalf("expected configuration error")
			}
		})
	}
}

func TestGravityScalePushedToBody(t *testing.T) {
	body := &fakeBody{}
	tr := newTestTracker(t, 0)
	if _, err := New(Config{Body: body, Tracker: tr}); err != nil {
		t.Fatalf("build controller: %v", err)
	}
	if body.gravityScale != 1 {
		t.Fatalf("default gravity scale = %v, want 1", body.gravityScale)
	}

	body2 := &fakeBody{}
	if _, err := New(Config{Body: body2, Tracker: tr, GravityScale: 0.5}); err != nil {
		t.Fatalf("build controller: %v", err)
	}
	if body2.gravityScale != 0.5 {
		t.Fatalf("gravity scale = %v, want 0.5", body2.gravityScale)
	}
}

// Scenario from the movement contract: profile {normal: maxSpeed=5,
// jumpImpulse=10}, intent=1, grounded. Output is (5, 10) on the
// jump-press tick and (5, vy unchanged) otherwise.
func TestStepGroundedScenario(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{moveX: 1}
	c, tr := newTestController(t, body, in, false)
	tr.Begin(1, "normal")

	c.Step(1)
	if body.vx != 5 || body.vy != 0 {
		t.Fatalf("velocity = (%v, %v), want (5, 0)", body.vx, body.vy)
	}

	in.jump = true
	c.Step(1)
	if body.vx != 5 || body.vy != 10 {
		t.Fatalf("velocity on jump tick = (%v, %v), want (5, 10)", body.vx, body.vy)
	}
	if c.StateName() != "jump" {
		t.Fatalf("state = %q, want jump", c.StateName())
	}
}

func TestJumpIsEdgeTriggeredNotLevel(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{jump: true}
	c, tr := newTestController(t, body, in, false)
	tr.Begin(1, "normal")

	c.Step(1)
	if body.vy != 10 {
		t.Fatalf("first press should jump, vy = %v", body.vy)
	}

	// the physics body still reports grounded in the same collision frame;
	// the impulse must not re-fire while the contact is consumed
	body.vy = 3
	for i := 0; i < 5; i++ {
		c.Step(1)
	}
	if body.vy != 3 {
		t.Fatalf("held/repeated press while consumed reset vy to %v", body.vy)
	}
}

func TestNoSecondJumpUntilRegrounded(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{jump: true}
	c, tr := newTestController(t, body, in, false)
	tr.Begin(1, "normal")

	c.Step(1)
	if body.vy != 10 {
		t.Fatalf("jump did not fire, vy = %v", body.vy)
	}

	// leave the ground, press jump again mid-air: no impulse
	tr.End(1)
	body.vy = -4
	c.Step(1)
	if body.vy != -4 {
		t.Fatalf("mid-air press changed vy to %v", body.vy)
	}

	// landing re-arms the jump
	tr.Begin(2, "normal")
	body.vy = 0
	c.Step(1)
	if body.vy != 10 {
		t.Fatalf("jump after re-grounding did not fire, vy = %v", body.vy)
	}
}

func TestIntentClampingAndInputGaps(t *testing.T) {
	cases := []struct {
		name   string
		sensor AxisSampler
		wantVX float64
	}{
		{"clamped_high", &stubInput{moveX: 3.7}, 5},
		{"clamped_low", &stubInput{moveX: -12}, -5},
		{"nan_reads_as_zero", &stubInput{moveX: math.NaN()}, 0},
		{"nil_sampler", nil, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := &fakeBody{vx: 2}
			ctrl, tr := newTestController(t, body, c.sensor, false)
			tr.Begin(1, "normal")
			ctrl.Step(1)
			if body.vx != c.wantVX {
				t.Fatalf("vx = %v, want %v", body.vx, c.wantVX)
			}
		})
	}
}

func TestSmoothingConvergesWithoutOvershoot(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{moveX: 1}
	c, tr := newTestController(t, body, in, true)
	tr.Begin(1, "normal") // accel 1, decel 2, max 5

	want := []float64{1, 2, 3, 4, 5, 5, 5}
	for i, w := range want {
		c.Step(1)
		if body.vx != w {
			t.Fatalf("tick %d: vx = %v, want %v", i, body.vx, w)
		}
	}

	// releasing input decelerates at the surface's rate, no sign flip
	in.moveX = 0
	want = []float64{3, 1, 0, 0}
	for i, w := range want {
		c.Step(1)
		if body.vx != w {
			t.Fatalf("decel tick %d: vx = %v, want %v", i, body.vx, w)
		}
	}
}

func TestSmoothingUsesDt(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{moveX: 1}
	c, tr := newTestController(t, body, in, true)
	tr.Begin(1, "normal")

	c.Step(0.5)
	if body.vx != 0.5 {
		t.Fatalf("vx = %v, want 0.5 after half-step", body.vx)
	}
}

func TestInstantPolicyIsDefault(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{moveX: 1}
	c, tr := newTestController(t, body, in, false)
	tr.Begin(1, "slippery") // max 6

	c.Step(1)
	if body.vx != 6 {
		t.Fatalf("instant policy vx = %v, want 6", body.vx)
	}
	in.moveX = -1
	c.Step(1)
	if body.vx != -6 {
		t.Fatalf("instant policy vx = %v, want -6", body.vx)
	}
}

func TestAirborneRetainsLastGroundedProfile(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{moveX: 1}
	c, tr := newTestController(t, body, in, false)

	// before any grounding: the registry default (normal, max 5)
	c.Step(1)
	if body.vx != 5 {
		t.Fatalf("pre-grounding vx = %v, want 5 (default profile)", body.vx)
	}

	tr.Begin(1, "sticky") // max 3
	c.Step(1)
	if body.vx != 3 {
		t.Fatalf("grounded sticky vx = %v, want 3", body.vx)
	}

	tr.End(1)
	c.Step(1)
	if body.vx != 3 {
		t.Fatalf("airborne vx = %v, want 3 (last-grounded profile)", body.vx)
	}
	if c.Profile().Name != "sticky" {
		t.Fatalf("profile = %q, want sticky", c.Profile().Name)
	}
}

func TestGraceWindowThroughController(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{}
	tr := newTestTracker(t, 1)
	c, err := New(Config{Body: body, Tracker: tr, Sampler: in, UpSign: 1})
	if err != nil {
		t.Fatalf("build controller: %v", err)
	}

	tr.Begin(1, "normal")
	c.Step(1)
	tr.End(1)

	// one grace tick buys exactly one more grounded step
	in.jump = true
	c.Step(1)
	if !c.Grounded() {
		t.Fatalf("step within the grace window was not grounded")
	}
	if body.vy != 10 {
		t.Fatalf("coyote jump within grace did not fire, vy = %v", body.vy)
	}

	in.jump = false
	c.Step(1)
	if c.Grounded() {
		t.Fatalf("grace window of 1 lasted more than one step")
	}
}

func TestGraceWindowLengthMatchesConfig(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{}
	tr := newTestTracker(t, 2)
	c, err := New(Config{Body: body, Tracker: tr, Sampler: in, UpSign: 1})
	if err != nil {
		t.Fatalf("build controller: %v", err)
	}

	tr.Begin(1, "normal")
	c.Step(1)
	tr.End(1)

	for i := 0; i < 2; i++ {
		c.Step(1)
		if c.StateName() != "idle" {
			t.Fatalf("grace step %d: state = %q, want idle", i, c.StateName())
		}
	}
	c.Step(1)
	if c.StateName() != "fall" {
		t.Fatalf("state after grace expired = %q, want fall", c.StateName())
	}
}

func TestJumpRearmsOnFreshContactDuringGrace(t *testing.T) {
	// grace longer than the hop's airtime: the grounded flag never drops
	// between takeoff and landing, but the jump must still re-arm
	body := &fakeBody{}
	in := &stubInput{jump: true}
	tr := newTestTracker(t, 10)
	c, err := New(Config{Body: body, Tracker: tr, Sampler: in, UpSign: 1})
	if err != nil {
		t.Fatalf("build controller: %v", err)
	}

	tr.Begin(1, "normal")
	c.Step(1)
	if body.vy != 10 {
		t.Fatalf("first jump did not fire, vy = %v", body.vy)
	}

	// short hop: two airborne steps, grounded the whole way via grace
	tr.End(1)
	body.vy = -4
	c.Step(1)
	c.Step(1)
	if !c.Grounded() {
		t.Fatalf("grace window expired before landing")
	}
	if body.vy != -4 {
		t.Fatalf("held press mid-hop changed vy to %v", body.vy)
	}

	// landing is a fresh contact even though Grounded never went false
	tr.Begin(2, "normal")
	c.Step(1)
	if body.vy != 10 {
		t.Fatalf("jump after landing did not fire, vy = %v", body.vy)
	}
}

func TestStepIdempotence(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{moveX: 0.5}
	c, tr := newTestController(t, body, in, false)
	tr.Begin(1, "normal")

	c.Step(1)
	vx, vy := body.vx, body.vy
	for i := 0; i < 100; i++ {
		c.Step(1)
	}
	if body.vx != vx || body.vy != vy {
		t.Fatalf("velocity drifted to (%v, %v) from (%v, %v)", body.vx, body.vy, vx, vy)
	}
}

func TestStateNames(t *testing.T) {
	body := &fakeBody{}
	in := &stubInput{}
	c, tr := newTestController(t, body, in, false)

	tr.Begin(1, "normal")
	c.Step(1)
	if c.StateName() != "idle" {
		t.Fatalf("state = %q, want idle", c.StateName())
	}

	in.moveX = 1
	c.Step(1)
	if c.StateName() != "run" {
		t.Fatalf("state = %q, want run", c.StateName())
	}

	in.jump = true
	c.Step(1)
	if c.StateName() != "jump" {
		t.Fatalf("state = %q, want jump", c.StateName())
	}
	in.jump = false

	// airborne and moving against up (+1 per config) means rising
	tr.End(1)
	body.vy = 4
	c.Step(1)
	if c.StateName() != "jump" {
		t.Fatalf("state = %q, want jump while rising", c.StateName())
	}

	body.vy = -4
	c.Step(1)
	if c.StateName() != "fall" {
		t.Fatalf("state = %q, want fall while descending", c.StateName())
	}
}
