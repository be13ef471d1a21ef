package raster

import (
	"bytes"
	"image/gif"
	"image/png"
	"math/rand"
	"testing"

	"github.com/san-kum/backdrop/internal/physics"
	"github.com/san-kum/backdrop/internal/render"
	"github.com/san-kum/backdrop/internal/scene"
)

var surface = scene.Surface{Width: 120, Height: 80, DPR: 1}

func TestBeginSizesByDPR(t *testing.T) {
	c := New()
	c.Begin(scene.Surface{Width: 100, Height: 50, DPR: 2})
	b := c.Image().Bounds()
	if b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("expected 200x100, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestBackgroundGradient(t *testing.T) {
	c := New()
	c.Begin(surface)
	c.Background(scene.RGBA(0, 0, 0, 1), scene.RGBA(200, 100, 50, 1))

	top := c.Image().RGBAAt(5, 0)
	bottom := c.Image().RGBAAt(5, 79)
	if top.R != 0 || top.A != 255 {
		t.Errorf("expected black opaque top, got %v", top)
	}
	if bottom.R != 200 || bottom.G != 100 || bottom.B != 50 {
		t.Errorf("expected bottom color, got %v", bottom)
	}
}

func TestFillRadialLighterAdds(t *testing.T) {
	c := New()
	c.Begin(surface)
	c.Background(scene.RGBA(0, 0, 0, 1), scene.RGBA(0, 0, 0, 1))
	c.SetBlend(render.BlendLighter)

	center := scene.Vec2{X: 60, Y: 40}
	col := scene.RGBA(100, 0, 0, 1)
	c.FillRadial(center, 30, col)
	once := c.Image().RGBAAt(60, 40).R
	c.FillRadial(center, 30, col)
	twice := c.Image().RGBAAt(60, 40).R

	if once == 0 {
		t.Fatal("expected radial fill at center")
	}
	if twice <= once {
		t.Errorf("expected overlap to brighten: %d then %d", once, twice)
	}
	if edge := c.Image().RGBAAt(60+29, 40).R; edge >= once {
		t.Errorf("expected falloff toward the edge, got %d at edge vs %d", edge, once)
	}
	if outside := c.Image().RGBAAt(60+31, 40).R; outside != 0 {
		t.Errorf("expected nothing beyond the radius, got %d", outside)
	}
}

func TestFillCircle(t *testing.T) {
	c := New()
	c.Begin(surface)
	c.Background(scene.RGBA(0, 0, 0, 1), scene.RGBA(0, 0, 0, 1))
	c.FillCircle(scene.Vec2{X: 20, Y: 20}, 5, scene.RGBA(255, 255, 255, 1))

	if got := c.Image().RGBAAt(20, 20); got.R != 255 {
		t.Errorf("expected white disc center, got %v", got)
	}
	if got := c.Image().RGBAAt(30, 20); got.R != 0 {
		t.Errorf("expected untouched pixel outside disc, got %v", got)
	}
}

func TestStrokeCircleIsHollow(t *testing.T) {
	c := New()
	c.Begin(surface)
	c.Background(scene.RGBA(0, 0, 0, 1), scene.RGBA(0, 0, 0, 1))
	c.StrokeCircle(scene.Vec2{X: 60, Y: 40}, 20, 2, scene.RGBA(0, 255, 0, 1))

	if got := c.Image().RGBAAt(60, 40); got.G != 0 {
		t.Errorf("expected hollow center, got %v", got)
	}
	if got := c.Image().RGBAAt(80, 40); got.G == 0 {
		t.Errorf("expected ring pixel at radius, got %v", got)
	}
}

func TestStrokeLineDegenerate(t *testing.T) {
	c := New()
	c.Begin(surface)
	c.Background(scene.RGBA(0, 0, 0, 1), scene.RGBA(0, 0, 0, 1))
	p := scene.Vec2{X: 10, Y: 10}
	c.StrokeLine(p, p, 1, scene.RGBA(255, 0, 0, 1))
	if got := c.Image().RGBAAt(10, 10); got.R != 0 {
		t.Errorf("zero-length line should draw nothing, got %v", got)
	}
}

func TestDrawSceneToPNGAndGIF(t *testing.T) {
	s := scene.New(scene.DefaultParams(), 9)
	s.Reseed(surface)
	c := New()
	rec := NewGIFRecorder(0.5, 30)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 3; i++ {
		physics.Step(s)
		render.Draw(s, c, rng)
		rec.Add(c.Image())
	}

	var buf bytes.Buffer
	if err := c.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 120 {
		t.Errorf("expected width 120, got %d", img.Bounds().Dx())
	}

	buf.Reset()
	if err := rec.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(anim.Image))
	}
	if anim.Image[0].Bounds().Dx() != 60 {
		t.Errorf("expected downscaled width 60, got %d", anim.Image[0].Bounds().Dx())
	}
	if anim.Delay[0] != 3 {
		t.Errorf("expected delay 3, got %d", anim.Delay[0])
	}
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := New().WritePNG(&buf); err == nil {
		t.Error("expected error without a frame")
	}
	if err := NewGIFRecorder(1, 30).Encode(&buf); err == nil {
		t.Error("expected error without frames")
	}
}
