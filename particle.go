package piste

import (
	"math"
	"math/rand/v2"
)

// Range is a min/max pair sampled uniformly.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// particle holds per-particle simulation state in world coordinates.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining seconds
	maxLife    float64
	startSize  float64
	endSize    float64
	size       float64
	startAlpha float64
	endAlpha   float64
	alpha      float64
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float64
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// StartSize and EndSize are particle radii at birth and death.
	StartSize Range
	EndSize   Range
	// StartAlpha and EndAlpha are opacities at birth and death.
	StartAlpha Range
	EndAlpha   Range
	// Gravity is the constant acceleration applied to every particle.
	Gravity Point
	Color   Color
}

// ParticleEmitter is a sprite that sprays particles from its position.
// Particles keep the world position they were emitted at, so a moving
// emitter leaves a trail. It never collides.
type ParticleEmitter struct {
	Entity
	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float64
	active    bool

	// Follow, if set, is called before each update and moves the emitter.
	Follow func(e *ParticleEmitter)
	// RateScale, if set, multiplies EmitRate each update, e.g. by the
	// owner's speed. Values below zero count as zero.
	RateScale func() float64
}

// NewParticleEmitter creates an idle emitter with a preallocated pool.
func NewParticleEmitter(cfg EmitterConfig) *ParticleEmitter {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	e := &ParticleEmitter{
		Entity:    MakeEntity(),
		config:    cfg,
		particles: make([]particle, n),
	}
	e.NoClip = true
	return e
}

// Start begins emitting particles.
func (e *ParticleEmitter) Start() { e.active = true }

// Stop stops emitting. Live particles play out.
func (e *ParticleEmitter) Stop() { e.active = false }

// Reset stops emitting and kills every live particle.
func (e *ParticleEmitter) Reset() {
	e.active = false
	e.alive = 0
	e.emitAccum = 0
}

// IsActive reports whether new particles are being emitted.
func (e *ParticleEmitter) IsActive() bool { return e.active }

// AliveCount returns the number of live particles.
func (e *ParticleEmitter) AliveCount() int { return e.alive }

// Config returns the emitter's config for live tuning.
func (e *ParticleEmitter) Config() *EmitterConfig { return &e.config }

// BeforeRender follows the owner and advances the simulation.
func (e *ParticleEmitter) BeforeRender(ev FrameEvent) {
	if e.Follow != nil {
		e.Follow(e)
	}
	e.update(ev.Seconds())
}

func (e *ParticleEmitter) update(dt float64) {
	gx := e.config.Gravity.X * dt
	gy := e.config.Gravity.Y * dt

	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			// Swap with the last live particle.
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt

		t := 1 - p.life/p.maxLife
		p.size = lerp(p.startSize, p.endSize, t)
		p.alpha = lerp(p.startAlpha, p.endAlpha, t)
		i++
	}

	rate := e.config.EmitRate
	if e.RateScale != nil {
		rate *= math.Max(0, e.RateScale())
	}
	if e.active && rate > 0 {
		e.emitAccum += rate * dt
		for e.emitAccum >= 1 {
			e.emitAccum--
			if e.alive < len(e.particles) {
				e.spawn()
			}
		}
	}
}

func (e *ParticleEmitter) spawn() {
	p := &e.particles[e.alive]

	angle := e.config.Angle.Random()
	speed := e.config.Speed.Random()
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.x = e.x
	p.y = e.y

	p.life = e.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life

	p.startSize = e.config.StartSize.Random()
	p.endSize = e.config.EndSize.Random()
	p.size = p.startSize
	p.startAlpha = e.config.StartAlpha.Random()
	p.endAlpha = e.config.EndAlpha.Random()
	p.alpha = p.startAlpha

	e.alive++
}

// DrawInner draws every live particle. Draw has already translated to the
// emitter's position, so particles are offset back into world space.
func (e *ParticleEmitter) DrawInner(s Surface) {
	if e.alive == 0 {
		return
	}
	ox, oy := math.Round(e.x), math.Round(e.y)
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		if p.alpha <= 0 || p.size <= 0 {
			continue
		}
		s.Save()
		s.SetAlpha(p.alpha)
		s.FillEllipse(p.x-ox, p.y-oy, p.size, p.size, e.config.Color)
		s.Restore()
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
