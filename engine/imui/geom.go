package imui

// Pos2 is a position in UI space.
type Pos2 struct{ X, Y float32 }

// Vec2 is a direction or size in UI space.
type Vec2 struct{ X, Y float32 }

func P(x, y float32) Pos2 { return Pos2{x, y} }
func V(x, y float32) Vec2 { return Vec2{x, y} }

func (p Pos2) Add(v Vec2) Pos2 { return Pos2{p.X + v.X, p.Y + v.Y} }
func (p Pos2) Sub(o Pos2) Vec2 { return Vec2{p.X - o.X, p.Y - o.Y} }

// Rect is an axis aligned rectangle, Min inclusive, Max exclusive.
type Rect struct{ Min, Max Pos2 }

func RectFromMinSize(min Pos2, size Vec2) Rect { return Rect{Min: min, Max: min.Add(size)} }

// RectFromCorners orders the two corners so Min <= Max on both axes.
func RectFromCorners(a, b Pos2) Rect {
	r := Rect{Min: a, Max: b}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

func (r Rect) Width() float32  { return r.Max.X - r.Min.X }
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Vec2      { return Vec2{r.Width(), r.Height()} }
func (r Rect) Center() Pos2 {
	return Pos2{(r.Min.X + r.Max.X) * 0.5, (r.Min.Y + r.Max.Y) * 0.5}
}

func (r Rect) Contains(p Pos2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Intersect returns the overlap of r and o; the result may be empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Min: Pos2{maxf(r.Min.X, o.Min.X), maxf(r.Min.Y, o.Min.Y)},
		Max: Pos2{minf(r.Max.X, o.Max.X), minf(r.Max.Y, o.Max.Y)},
	}
}

func (r Rect) IsEmpty() bool { return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y }

// Shrink moves every edge inwards by d.
func (r Rect) Shrink(d float32) Rect {
	return Rect{Min: Pos2{r.Min.X + d, r.Min.Y + d}, Max: Pos2{r.Max.X - d, r.Max.Y - d}}
}

// Everything is a clip rect that never clips.
var Everything = Rect{Min: Pos2{-1e9, -1e9}, Max: Pos2{1e9, 1e9}}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
