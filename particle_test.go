package piste

import (
	"testing"
	"time"
)

func testEmitterConfig(max int) EmitterConfig {
	return EmitterConfig{
		MaxParticles: max,
		EmitRate:     100,
		Lifetime:     Range{1, 1},
		Speed:        Range{100, 100},
		Angle:        Range{0, 0},
		StartSize:    Range{2, 2},
		EndSize:      Range{1, 1},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0},
		Color:        ColorWhite,
	}
}

func TestEmitterCreatesPool(t *testing.T) {
	e := NewParticleEmitter(testEmitterConfig(500))
	if len(e.particles) != 500 {
		t.Errorf("pool size = %d, want 500", len(e.particles))
	}
	if !e.NoClip {
		t.Error("emitter collides")
	}
	if d := NewParticleEmitter(EmitterConfig{}); len(d.particles) != 128 {
		t.Errorf("default pool size = %d, want 128", len(d.particles))
	}
}

func TestEmitterStartStopReset(t *testing.T) {
	e := NewParticleEmitter(testEmitterConfig(100))
	if e.IsActive() {
		t.Error("active before Start")
	}
	e.Start()
	e.update(0.1)
	if e.AliveCount() != 10 {
		t.Errorf("alive = %d, want 10", e.AliveCount())
	}

	e.Stop()
	e.update(0.1)
	if e.AliveCount() != 10 {
		t.Errorf("alive after Stop = %d, want 10 still living", e.AliveCount())
	}

	e.Reset()
	if e.IsActive() || e.AliveCount() != 0 {
		t.Errorf("after Reset active = %v, alive = %d", e.IsActive(), e.AliveCount())
	}
}

func TestEmitterPoolLimit(t *testing.T) {
	e := NewParticleEmitter(testEmitterConfig(5))
	e.Start()
	e.update(1)
	if e.AliveCount() != 5 {
		t.Errorf("alive = %d, want capped at 5", e.AliveCount())
	}
}

func TestEmitterParticlesDie(t *testing.T) {
	cfg := testEmitterConfig(100)
	cfg.EmitRate = 10
	e := NewParticleEmitter(cfg)
	e.Start()
	e.update(0.1)
	e.Stop()
	if e.AliveCount() != 1 {
		t.Fatalf("alive = %d, want 1", e.AliveCount())
	}
	e.update(0.5)
	p := e.particles[0]
	if !approxEqual(p.x, 50, 1e-9) || !approxEqual(p.alpha, 0.5, 1e-9) || !approxEqual(p.size, 1.5, 1e-9) {
		t.Errorf("halfway particle = x %v, alpha %v, size %v", p.x, p.alpha, p.size)
	}
	e.update(0.6)
	if e.AliveCount() != 0 {
		t.Errorf("alive = %d, want 0 after lifetime", e.AliveCount())
	}
}

func TestEmitterGravity(t *testing.T) {
	cfg := testEmitterConfig(10)
	cfg.EmitRate = 10
	cfg.Speed = Range{0, 0}
	cfg.Gravity = Point{0, 100}
	e := NewParticleEmitter(cfg)
	e.Start()
	e.update(0.1)
	e.Stop()
	e.update(0.1)
	if vy := e.particles[0].vy; !approxEqual(vy, 10, 1e-9) {
		t.Errorf("vy = %v, want 10", vy)
	}
}

func TestEmitterRateScale(t *testing.T) {
	e := NewParticleEmitter(testEmitterConfig(100))
	scale := 0.0
	e.RateScale = func() float64 { return scale }
	e.Start()
	e.update(0.5)
	if e.AliveCount() != 0 {
		t.Errorf("alive = %d at zero rate", e.AliveCount())
	}
	scale = -3
	e.update(0.5)
	if e.AliveCount() != 0 {
		t.Errorf("alive = %d at negative rate", e.AliveCount())
	}
	scale = 0.5
	e.update(0.2)
	if e.AliveCount() != 10 {
		t.Errorf("alive = %d, want 10 at half rate", e.AliveCount())
	}
}

func TestEmitterParticlesStayInWorld(t *testing.T) {
	cfg := testEmitterConfig(10)
	cfg.EmitRate = 10
	cfg.Speed = Range{0, 0}
	e := NewParticleEmitter(cfg)
	e.SetXY(100, 50)
	e.Follow = func(e *ParticleEmitter) { e.SetXY(e.X()+10, e.Y()) }
	e.Start()
	e.BeforeRender(FrameEvent{Delta: 100 * time.Millisecond})
	e.Stop()
	e.BeforeRender(FrameEvent{Delta: 100 * time.Millisecond})

	s := newRecordingSurface(200, 200)
	Draw(s, e)
	var ellipses []drawCall
	for _, c := range s.calls {
		if c.op == "FillEllipse" {
			ellipses = append(ellipses, c)
		}
	}
	if len(ellipses) != 1 {
		t.Fatalf("ellipses = %d, want 1", len(ellipses))
	}
	// Spawned at x 110, drawn while the emitter sits at 120.
	if c := ellipses[0]; c.sx != 110 || c.sy != 50 {
		t.Errorf("particle drawn at (%v,%v), want (110,50)", c.sx, c.sy)
	}
}
