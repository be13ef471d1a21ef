package render

import "github.com/san-kum/backdrop/internal/scene"

// OpKind names a Canvas call.
type OpKind int

const (
	OpBegin OpKind = iota
	OpBackground
	OpBlend
	OpFillRadial
	OpFillCircle
	OpStrokeLine
	OpStrokeCircle
	OpEnd
)

var opNames = [...]string{"begin", "background", "blend", "radial", "circle", "line", "ring", "end"}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// Op is one recorded Canvas call. Unused fields stay zero.
type Op struct {
	Kind    OpKind
	Surface scene.Surface
	Blend   Blend
	A, B    scene.Vec2
	Radius  float64
	Width   float64
	Color   scene.Color
	Color2  scene.Color
}

// Recorder is a Canvas that keeps every call of the last frame.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) Begin(s scene.Surface) {
	r.Ops = r.Ops[:0]
	r.Ops = append(r.Ops, Op{Kind: OpBegin, Surface: s})
}

func (r *Recorder) Background(top, bottom scene.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpBackground, Color: top, Color2: bottom})
}

func (r *Recorder) SetBlend(b Blend) {
	r.Ops = append(r.Ops, Op{Kind: OpBlend, Blend: b})
}

func (r *Recorder) FillRadial(center scene.Vec2, radius float64, c scene.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRadial, A: center, Radius: radius, Color: c})
}

func (r *Recorder) FillCircle(center scene.Vec2, radius float64, c scene.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, A: center, Radius: radius, Color: c})
}

func (r *Recorder) StrokeLine(a, b scene.Vec2, width float64, c scene.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeLine, A: a, B: b, Width: width, Color: c})
}

func (r *Recorder) StrokeCircle(center scene.Vec2, radius, width float64, c scene.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, A: center, Radius: radius, Width: width, Color: c})
}

func (r *Recorder) End() {
	r.Ops = append(r.Ops, Op{Kind: OpEnd})
}

// Count returns how many ops of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Replay issues the recorded ops against c in order.
func (r *Recorder) Replay(c Canvas) {
	for _, op := range r.Ops {
		switch op.Kind {
		case OpBegin:
			c.Begin(op.Surface)
		case OpBackground:
			c.Background(op.Color, op.Color2)
		case OpBlend:
			c.SetBlend(op.Blend)
		case OpFillRadial:
			c.FillRadial(op.A, op.Radius, op.Color)
		case OpFillCircle:
			c.FillCircle(op.A, op.Radius, op.Color)
		case OpStrokeLine:
			c.StrokeLine(op.A, op.B, op.Width, op.Color)
		case OpStrokeCircle:
			c.StrokeCircle(op.A, op.Radius, op.Width, op.Color)
		case OpEnd:
			c.End()
		}
	}
}
