package scene

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Vec2 is a point or displacement in surface units (CSS-like pixels, before DPR).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.LenSq()) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }
func (v Vec2) IsValid() bool        { return isFinite(v.X) && isFinite(v.Y) }

func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func alphaByte(a float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
}

// Color is a straight (non-premultiplied) alpha color. It marshals as #rrggbbaa.
type Color color.NRGBA

func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: alphaByte(a)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

func (c Color) WithAlpha(a float64) Color {
	c.A = alphaByte(a)
	return c
}

func (c Color) Alpha() float64 { return float64(c.A) / 255 }

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(text)), "#")
	var r, g, b, a uint8
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return fmt.Errorf("invalid color %q: %w", text, err)
		}
		a = 0xff
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return fmt.Errorf("invalid color %q: %w", text, err)
		}
	default:
		return fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", text)
	}
	*c = Color{R: r, G: g, B: b, A: a}
	return nil
}

// Surface is the drawable area. Width and Height are in surface units; the
// backing store is Width*DPR by Height*DPR device pixels.
type Surface struct {
	Width  float64
	Height float64
	DPR    float64
}

func (s Surface) Valid() bool {
	return isFinite(s.Width) && isFinite(s.Height) && s.Width > 0 && s.Height > 0
}

// Normalized returns the surface with a usable DPR.
func (s Surface) Normalized() Surface {
	if !isFinite(s.DPR) || s.DPR <= 0 {
		s.DPR = 1
	}
	return s
}

// Extent is the larger of the two dimensions.
func (s Surface) Extent() float64 { return math.Max(s.Width, s.Height) }

// PixelSize is the device pixel size of the backing store.
func (s Surface) PixelSize() (int, int) {
	s = s.Normalized()
	return int(math.Round(s.Width * s.DPR)), int(math.Round(s.Height * s.DPR))
}

// PointerState is sticky: Active becomes true on the first move and stays true.
type PointerState struct {
	Pos    Vec2
	Active bool
}

// ImpulseRing is the single click shockwave. A new trigger replaces it.
type ImpulseRing struct {
	Center Vec2
	Active bool
	Radius float64
}

type FieldBody struct {
	Pos          Vec2
	Vel          Vec2
	BaseRadius   float64
	Radius       float64
	Phase        float64
	AngularSpeed float64
	Color        Color
}

func (b *FieldBody) IsValid() bool {
	return b.Pos.IsValid() && b.Vel.IsValid() && isFinite(b.Radius) && isFinite(b.Phase)
}

type PointAgent struct {
	Pos   Vec2
	Vel   Vec2
	Size  float64
	Tint  Color
	Alpha float64
	Phase float64
}

func (a *PointAgent) IsValid() bool {
	return a.Pos.IsValid() && a.Vel.IsValid() && isFinite(a.Phase)
}

func (a *PointAgent) Speed() float64 { return a.Vel.Len() }

// Link is one plexus segment scheduled for drawing this frame.
type Link struct {
	A, B  Vec2
	Alpha float64
	Width float64
}
