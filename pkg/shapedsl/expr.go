// Package shapedsl implements the 2-D geometric shape domain-specific
// language: predicates over point coordinates built from rectangles,
// triangles, circles, and the Boolean set operations over them.
package shapedsl

import (
	"fmt"
	"hash/fnv"
)

// MaxCoord bounds every terminal shape's integer corner/center/radius
// coordinates to [0, MaxCoord]. It is a build-time constant, per the
// specification's data model for the shape DSL.
const MaxCoord = 10

// Coord is an integer point used to build terminal shapes.
type Coord struct {
	X, Y int
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Point is a query point; shape examples carry float coordinates even though
// terminal shapes are built from integer corners.
type Point struct {
	X, Y float64
}

// Expr is an immutable node in a shape expression tree. Every variant
// implements Interpret (pure, total — no shape operator in this DSL has a
// failure path, unlike some string operators), structural equality, and a
// structural hash consistent with that equality.
type Expr interface {
	// Interpret reports whether p lies inside the shape denoted by this
	// expression.
	Interpret(p Point) bool
	// Equal reports whether other is structurally identical: same variant
	// tag, recursively equal operands.
	Equal(other Expr) bool
	// Hash is consistent with Equal: equal expressions hash equal.
	Hash() uint64
	String() string
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Rectangle is the closed axis-aligned rectangle [bl.x,tr.x] x [bl.y,tr.y].
type Rectangle struct {
	BottomLeft, TopRight Coord
}

// NewRectangle validates bl.x < tr.x and bl.y < tr.y per the data model
// invariant and returns an error instead of constructing a degenerate shape.
func NewRectangle(bl, tr Coord) (Rectangle, error) {
	if !(bl.X < tr.X && bl.Y < tr.Y) {
		return Rectangle{}, fmt.Errorf("shapedsl: invalid rectangle corners %v, %v", bl, tr)
	}
	return Rectangle{BottomLeft: bl, TopRight: tr}, nil
}

func (r Rectangle) Interpret(p Point) bool {
	return float64(r.BottomLeft.X) <= p.X && p.X <= float64(r.TopRight.X) &&
		float64(r.BottomLeft.Y) <= p.Y && p.Y <= float64(r.TopRight.Y)
}

func (r Rectangle) Equal(other Expr) bool {
	o, ok := other.(Rectangle)
	return ok && o == r
}

func (r Rectangle) Hash() uint64 { return hashString(r.String()) }

func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle(%s, %s)", r.BottomLeft, r.TopRight)
}

// Triangle is the axis-aligned right triangle with the right angle at
// BottomLeft and legs tr.x-bl.x (along x) and tr.y-bl.y (along y).
type Triangle struct {
	BottomLeft, TopRight Coord
}

// NewTriangle validates the same corner invariant as Rectangle (both legs
// must have positive length).
func NewTriangle(bl, tr Coord) (Triangle, error) {
	if !(bl.X < tr.X && bl.Y < tr.Y) {
		return Triangle{}, fmt.Errorf("shapedsl: invalid triangle corners %v, %v", bl, tr)
	}
	return Triangle{BottomLeft: bl, TopRight: tr}, nil
}

func (t Triangle) Interpret(p Point) bool {
	bl, tr := t.BottomLeft, t.TopRight
	if p.X < float64(bl.X) || p.Y < float64(bl.Y) {
		return false
	}
	dx := float64(tr.X - bl.X)
	dy := float64(tr.Y - bl.Y)
	return (p.X-float64(bl.X))/dx+(p.Y-float64(bl.Y))/dy <= 1
}

func (t Triangle) Equal(other Expr) bool {
	o, ok := other.(Triangle)
	return ok && o == t
}

func (t Triangle) Hash() uint64 { return hashString(t.String()) }

func (t Triangle) String() string {
	return fmt.Sprintf("Triangle(%s, %s)", t.BottomLeft, t.TopRight)
}

// Circle is the closed disk of the given radius around center.
type Circle struct {
	Center Coord
	Radius int
}

// NewCircle validates radius >= 1.
func NewCircle(center Coord, radius int) (Circle, error) {
	if radius < 1 {
		return Circle{}, fmt.Errorf("shapedsl: circle radius must be >= 1, got %d", radius)
	}
	return Circle{Center: center, Radius: radius}, nil
}

func (c Circle) Interpret(p Point) bool {
	dx := p.X - float64(c.Center.X)
	dy := p.Y - float64(c.Center.Y)
	r := float64(c.Radius)
	return dx*dx+dy*dy <= r*r
}

func (c Circle) Equal(other Expr) bool {
	o, ok := other.(Circle)
	return ok && o == c
}

func (c Circle) Hash() uint64 { return hashString(c.String()) }

func (c Circle) String() string {
	return fmt.Sprintf("Circle(%s, %d)", c.Center, c.Radius)
}

// Union is the pointwise logical OR of A and B.
type Union struct{ A, B Expr }

func (u Union) Interpret(p Point) bool { return u.A.Interpret(p) || u.B.Interpret(p) }

func (u Union) Equal(other Expr) bool {
	o, ok := other.(Union)
	return ok && u.A.Equal(o.A) && u.B.Equal(o.B)
}

func (u Union) Hash() uint64 { return hashString(u.String()) }

func (u Union) String() string { return fmt.Sprintf("Union(%s, %s)", u.A, u.B) }

// Intersection is the pointwise logical AND of A and B.
type Intersection struct{ A, B Expr }

func (i Intersection) Interpret(p Point) bool { return i.A.Interpret(p) && i.B.Interpret(p) }

func (i Intersection) Equal(other Expr) bool {
	o, ok := other.(Intersection)
	return ok && i.A.Equal(o.A) && i.B.Equal(o.B)
}

func (i Intersection) Hash() uint64 { return hashString(i.String()) }

func (i Intersection) String() string { return fmt.Sprintf("Intersection(%s, %s)", i.A, i.B) }

// Subtraction is A AND NOT B.
type Subtraction struct{ A, B Expr }

func (s Subtraction) Interpret(p Point) bool { return s.A.Interpret(p) && !s.B.Interpret(p) }

func (s Subtraction) Equal(other Expr) bool {
	o, ok := other.(Subtraction)
	return ok && s.A.Equal(o.A) && s.B.Equal(o.B)
}

func (s Subtraction) Hash() uint64 { return hashString(s.String()) }

func (s Subtraction) String() string { return fmt.Sprintf("Subtraction(%s, %s)", s.A, s.B) }

// Mirror reflects A about the vertical line x = MaxCoord/2. The source this
// specification was distilled from never fixes Mirror's axis; this
// implementation picks the spec's recommended axis and keeps it stable.
type Mirror struct{ A Expr }

func (m Mirror) Interpret(p Point) bool {
	axis := float64(MaxCoord) / 2
	reflected := Point{X: 2*axis - p.X, Y: p.Y}
	return m.A.Interpret(reflected)
}

func (m Mirror) Equal(other Expr) bool {
	o, ok := other.(Mirror)
	return ok && m.A.Equal(o.A)
}

func (m Mirror) Hash() uint64 { return hashString(m.String()) }

func (m Mirror) String() string { return fmt.Sprintf("Mirror(%s)", m.A) }
