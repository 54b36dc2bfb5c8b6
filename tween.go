package piste

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 properties of an entity at once.
// Create one via the constructors (TweenPosition, TweenElevation,
// TweenScale, TweenRotation) and call Update each frame, usually from a
// BeforeRender hook.
//
// There is no global animation manager. Callers update their own groups.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	apply  func(vals [3]float64)
	// Done is set once every tween has finished.
	Done bool
}

func newTweenGroup(apply func([3]float64), from, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: len(from), apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values to the
// entity.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	var vals [3]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// UpdateFrame advances the group by the frame's delta.
func (g *TweenGroup) UpdateFrame(ev FrameEvent) {
	g.Update(float32(ev.Seconds()))
}

// TweenPosition moves e on the ground plane to (toX, toY), keeping its
// elevation.
func TweenPosition(e *Entity, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(func(v [3]float64) {
		e.SetXY(v[0], v[1])
	}, []float64{e.x, e.y}, []float64{toX, toY}, duration, fn)
}

// TweenElevation animates z. Negative values clamp to the ground.
func TweenElevation(e *Entity, toZ float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(func(v [3]float64) {
		e.SetZ(v[0])
	}, []float64{e.z}, []float64{toZ}, duration, fn)
}

// TweenScale animates the uniform scale.
func TweenScale(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(func(v [3]float64) {
		e.SetScale(v[0])
	}, []float64{e.Scale}, []float64{to}, duration, fn)
}

// TweenRotation animates the rotation in radians.
func TweenRotation(e *Entity, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(func(v [3]float64) {
		e.Rotation = v[0]
	}, []float64{e.Rotation}, []float64{to}, duration, fn)
}
