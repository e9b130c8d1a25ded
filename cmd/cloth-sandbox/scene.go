package main

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/verlet/audio"
	"github.com/lixenwraith/verlet/cloth"
	"github.com/lixenwraith/verlet/engine"
	"github.com/lixenwraith/verlet/events"
	"github.com/lixenwraith/verlet/physics"
	"github.com/lixenwraith/verlet/render"
	"github.com/lixenwraith/verlet/status"
	"github.com/lixenwraith/verlet/vmath"
)

// Scene layout in world units; Z is up
const (
	floorID     engine.StaticID = 1
	ledgeID     engine.StaticID = 2
	playerID    engine.EntityID = 1
	firstBallID engine.EntityID = 10
	ballCount                   = 5

	tearRadius   = 0.4
	jumpImpulse  = 6.0
	pushForce    = 12.0
	pushDuration = 0.25
	windStrength = 4.0
)

// sandbox holds the manager plus everything the frame loop reads between steps
type sandbox struct {
	mgr    *engine.Manager
	router *events.Router[*sandbox]
	rng    *vmath.FastRand

	cloths []cloth.Handle
	windOn bool

	cam  render.Camera
	buf  *render.Buffer
	snap engine.Snapshot

	statTears    *atomic.Int64
	statImpacts  *atomic.Int64
	statLastHit  *status.AtomicString
	statWindMode *status.AtomicString
}

func newSandbox(mgr *engine.Manager, queue *events.EventQueue, blipper *audio.Blipper) *sandbox {
	reg := mgr.Registry()
	s := &sandbox{
		mgr:          mgr,
		router:       events.NewRouter[*sandbox](queue),
		rng:          vmath.NewFastRand(0xC0FFEE),
		buf:          render.NewBuffer(0, 0),
		statTears:    reg.Ints.Get("sandbox.tears"),
		statImpacts:  reg.Ints.Get("sandbox.impacts"),
		statLastHit:  reg.Strings.Get("sandbox.last_hit"),
		statWindMode: reg.Strings.Get("sandbox.wind"),
	}
	s.router.Register(events.HandlerFunc[*sandbox]{
		Types: []events.EventType{events.EventContactBegin, events.EventClothTorn},
		Fn:    (*sandbox).onEvent,
	})
	if blipper != nil {
		s.router.Register(audio.Handler[*sandbox](blipper))
	}
	return s
}

func (s *sandbox) onEvent(ev events.Event) {
	switch p := ev.Payload.(type) {
	case *events.ContactPayload:
		s.statImpacts.Add(1)
		s.statLastHit.Store(fmt.Sprintf("%v-%v %.1f", p.A, p.B, p.Speed))
	case *events.ClothTornPayload:
		s.statTears.Add(int64(p.Links))
	}
}

// build populates a cleared manager with the demo scene
func (s *sandbox) build() error {
	m := s.mgr
	m.Clear()
	s.cloths = s.cloths[:0]

	m.RegisterStaticObject(floorID, vmath.Vec3{0, 0, -0.5}, vmath.Vec3{40, 10, 1})
	m.RegisterStaticObject(ledgeID, vmath.Vec3{9, 0, 2}, vmath.Vec3{4, 4, 0.5})
	m.Verlet().AddCollisionPlane(vmath.UnitZ, 0, 0.8, 0.3)

	flag, err := m.CreateCloth(engine.ClothFlag, vmath.Vec3{-12, 0, 9}, 5, 3)
	if err != nil {
		return err
	}
	cape, err := m.CreateCloth(engine.ClothCape, vmath.Vec3{-2, 0, 8}, 3, 4)
	if err != nil {
		return err
	}
	s.cloths = append(s.cloths, flag, cape)

	// The cape hem collides with balls and boxes
	if c, ok := m.Cloth().Cloth(cape); ok {
		for col := 0; col < c.Cols; col++ {
			m.AddVerletCollider(c.At(c.Rows-1, col), 0.15)
		}
	}

	m.RegisterPhysicsEntity(playerID, vmath.Vec3{4, 0, 1}, 0.8, 3)
	if _, ok := m.CreateCharacterRig(playerID, 2, physics.RigHumanoid); !ok {
		log.Printf("sandbox: player rig missing")
	}
	m.BindClothSphere(playerID)

	for i := 0; i < ballCount; i++ {
		pos := vmath.Vec3{-6 + float64(i)*2.5, 0, 4 + s.rng.Range(0, 4)}
		m.RegisterPhysicsEntity(firstBallID+engine.EntityID(i), pos, 0.5+s.rng.Range(0, 0.4), 1)
	}

	s.applyWind()
	return nil
}

func (s *sandbox) toggleWind() {
	s.windOn = !s.windOn
	s.applyWind()
}

func (s *sandbox) applyWind() {
	if s.windOn {
		s.mgr.SetWind(vmath.Vec3{1, 0.3, 0}, windStrength, 0.5)
		s.statWindMode.Store("on")
		return
	}
	s.mgr.SetWind(vmath.UnitX, 0, 0)
	s.statWindMode.Store("off")
}

// tearAt tears every cloth around the world point under cell x, y
func (s *sandbox) tearAt(x, y int) int {
	p := s.cam.Unproject(x, y)
	total := 0
	for _, h := range s.cloths {
		n, _ := s.mgr.TearCloth(h, p, tearRadius)
		total += n
	}
	return total
}

// kick launches every ball upward with a random sideways component
func (s *sandbox) kick() {
	for i := 0; i < ballCount; i++ {
		impulse := vmath.Vec3{s.rng.Range(-2, 2), 0, jumpImpulse}
		s.mgr.ApplyForce(firstBallID+engine.EntityID(i), impulse, 0)
	}
}

// push drives the player sideways with a sustained force
func (s *sandbox) push(dir float64) {
	s.mgr.ApplyForce(playerID, vmath.Vec3{dir * pushForce, 0, 0}, pushDuration)
}

// probe casts a ray rightward from the left screen edge at row y
func (s *sandbox) probe(y int) string {
	origin := s.cam.Unproject(0, y)
	hit, ok := s.mgr.RayCast(origin, vmath.UnitX, 0)
	if !ok {
		return "probe: miss"
	}
	return fmt.Sprintf("probe: %v at %.2f", hit.Body, hit.Distance)
}

func (s *sandbox) resize(w, h int) {
	s.buf.Resize(w, h)
	s.cam = render.Camera{
		Center: vmath.Vec3{0, 0, 5},
		Scale:  float64(w) / 32,
		Width:  w,
		Height: h,
	}
}

// frame advances physics by dt, routes events and repaints the buffer
func (s *sandbox) frame(dt float64, hud ...string) {
	s.mgr.Update(dt)
	s.router.DispatchAll(s)

	s.mgr.Snapshot(&s.snap)
	s.buf.Clear()
	render.DrawSnapshot(s.buf, s.cam, &s.snap)

	lines := append(s.mgr.Registry().Lines(""), hud...)
	render.DrawHUD(s.buf, lines)
}
