package piste

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ellipseSegments is the number of triangles used to fill an ellipse.
const ellipseSegments = 32

// EbitenSurface draws onto an *ebiten.Image. Bind a target once per frame
// before drawing; the transform stack is reset on every Bind.
type EbitenSurface struct {
	transformStack
	dst           *ebiten.Image
	width, height int

	imgOp  ebiten.DrawImageOptions
	triOp  ebiten.DrawTrianglesOptions
	verts  []ebiten.Vertex
	inds   []uint16
	faces  map[float64]*text.GoTextFace
	source *text.GoTextFaceSource
}

// NewEbitenSurface creates a surface with no target. Draw calls are no-ops
// until Bind is called; until then Size reports width x height.
func NewEbitenSurface(width, height int) *EbitenSurface {
	s := &EbitenSurface{
		width:  width,
		height: height,
		faces:  make(map[float64]*text.GoTextFace),
	}
	s.reset()
	return s
}

// Bind directs subsequent draws to dst and resets the transform stack.
func (s *EbitenSurface) Bind(dst *ebiten.Image) {
	s.dst = dst
	s.reset()
}

// Target returns the currently bound image.
func (s *EbitenSurface) Target() *ebiten.Image {
	return s.dst
}

func (s *EbitenSurface) Size() (w, h float64) {
	if s.dst == nil {
		return float64(s.width), float64(s.height)
	}
	b := s.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *EbitenSurface) Clear() {
	if s.dst != nil {
		s.dst.Clear()
	}
}

// colorScale sets op to c at the current alpha, premultiplied.
func (s *EbitenSurface) colorScale(cs *ebiten.ColorScale, c Color) {
	a := float32(c.A * s.cur.alpha)
	cs.Reset()
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
}

func (s *EbitenSurface) FillRect(x, y, w, h float64, c Color) {
	if s.dst == nil || w == 0 || h == 0 {
		return
	}
	op := &s.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.cur.geom)
	s.colorScale(&op.ColorScale, c)
	s.dst.DrawImage(WhitePixel, op)
}

func (s *EbitenSurface) StrokeRect(x, y, w, h float64, c Color) {
	s.FillRect(x, y, w, 1, c)
	s.FillRect(x, y+h-1, w, 1, c)
	s.FillRect(x, y+1, 1, h-2, c)
	s.FillRect(x+w-1, y+1, 1, h-2, c)
}

// FillEllipse fills a triangle fan around (cx, cy), transformed vertex by
// vertex so rotation and non-uniform scale are honored.
func (s *EbitenSurface) FillEllipse(cx, cy, rx, ry float64, c Color) {
	if s.dst == nil || rx <= 0 || ry <= 0 {
		return
	}
	a := float32(c.A * s.cur.alpha)
	r, g, b := float32(c.R), float32(c.G), float32(c.B)
	vertex := func(x, y float64) ebiten.Vertex {
		px, py := s.apply(x, y)
		return ebiten.Vertex{
			DstX: float32(px), DstY: float32(py),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}

	s.verts = s.verts[:0]
	s.inds = s.inds[:0]
	s.verts = append(s.verts, vertex(cx, cy))
	for i := 0; i <= ellipseSegments; i++ {
		theta := 2 * math.Pi * float64(i) / ellipseSegments
		s.verts = append(s.verts, vertex(cx+rx*math.Cos(theta), cy+ry*math.Sin(theta)))
	}
	for i := 1; i <= ellipseSegments; i++ {
		s.inds = append(s.inds, 0, uint16(i), uint16(i+1))
	}
	s.dst.DrawTriangles(s.verts, s.inds, WhitePixel, &s.triOp)
}

func (s *EbitenSurface) DrawImage(img *ebiten.Image, src image.Rectangle, dx, dy, dw, dh float64) {
	if s.dst == nil || img == nil || src.Empty() {
		return
	}
	sub := img.SubImage(src).(*ebiten.Image)
	op := &s.imgOp
	op.GeoM.Reset()
	op.GeoM.Scale(dw/float64(src.Dx()), dh/float64(src.Dy()))
	op.GeoM.Translate(dx, dy)
	op.GeoM.Concat(s.cur.geom)
	op.ColorScale.Reset()
	op.ColorScale.ScaleAlpha(float32(s.cur.alpha))
	s.dst.DrawImage(sub, op)
}

// face returns the text face for size, creating it on first use.
// No mutex: surfaces are only used from the draw goroutine.
func (s *EbitenSurface) face(size float64) *text.GoTextFace {
	if f, ok := s.faces[size]; ok {
		return f
	}
	if s.source == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic(fmt.Sprintf("piste: load default font: %v", err))
		}
		s.source = src
	}
	f := &text.GoTextFace{Source: s.source, Size: size}
	s.faces[size] = f
	return f
}

func (s *EbitenSurface) FillText(str string, x, y, size float64, c Color) {
	if s.dst == nil || str == "" {
		return
	}
	f := s.face(size)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-f.Metrics().HAscent)
	op.GeoM.Concat(s.cur.geom)
	s.colorScale(&op.ColorScale, c)
	text.Draw(s.dst, str, f, op)
}

func (s *EbitenSurface) MeasureText(str string, size float64) float64 {
	w, _ := text.Measure(str, s.face(size), 0)
	return w
}
