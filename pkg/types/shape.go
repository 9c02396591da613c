package types

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Shape kinds.
const (
	ShapeRectangle = "rectangle"
	ShapeCircle    = "circle"
	ShapeTriangle  = "triangle"
)

// Shape is a closed set of plane figures: Rectangle, Circle and Triangle.
type Shape interface {
	Kind() string
	Area() float64
	Perimeter() float64
	shape()
}

// Rectangle has positive width and height.
type Rectangle struct {
	Width  float64
	Height float64
}

// Circle has a positive radius.
type Circle struct {
	Radius float64
}

// Triangle has three positive sides satisfying the triangle inequality.
type Triangle struct {
	A, B, C float64
}

// NewRectangle validates width and height.
func NewRectangle(width, height float64) (Rectangle, error) {
	if width <= 0 {
		return Rectangle{}, fieldErr("width", "must be positive")
	}
	if height <= 0 {
		return Rectangle{}, fieldErr("height", "must be positive")
	}
	return Rectangle{Width: width, Height: height}, nil
}

// NewCircle validates the radius.
func NewCircle(radius float64) (Circle, error) {
	if radius <= 0 {
		return Circle{}, fieldErr("radius", "must be positive")
	}
	return Circle{Radius: radius}, nil
}

// NewTriangle validates the three sides.
func NewTriangle(a, b, c float64) (Triangle, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return Triangle{}, fieldErr("sides", "must be positive")
	}
	if a+b <= c || a+c <= b || b+c <= a {
		return Triangle{}, fieldErr("sides", "violate the triangle inequality")
	}
	return Triangle{A: a, B: b, C: c}, nil
}

func (Rectangle) Kind() string         { return ShapeRectangle }
func (r Rectangle) Area() float64      { return r.Width * r.Height }
func (r Rectangle) Perimeter() float64 { return 2 * (r.Width + r.Height) }
func (Rectangle) shape()               {}

func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle(width=%g, height=%g)", r.Width, r.Height)
}

func (Circle) Kind() string         { return ShapeCircle }
func (c Circle) Area() float64      { return math.Pi * c.Radius * c.Radius }
func (c Circle) Perimeter() float64 { return 2 * math.Pi * c.Radius }
func (Circle) shape()               {}

func (c Circle) String() string {
	return fmt.Sprintf("Circle(radius=%g)", c.Radius)
}

func (Triangle) Kind() string         { return ShapeTriangle }
func (t Triangle) Perimeter() float64 { return t.A + t.B + t.C }
func (Triangle) shape()               {}

// Area uses Heron's formula.
func (t Triangle) Area() float64 {
	s := t.Perimeter() / 2
	return math.Sqrt(s * (s - t.A) * (s - t.B) * (s - t.C))
}

func (t Triangle) String() string {
	return fmt.Sprintf("Triangle(a=%g, b=%g, c=%g)", t.A, t.B, t.C)
}

// SameArea reports whether a and b have equal area within a relative
// tolerance of 1e-9.
func SameArea(a, b Shape) bool {
	x, y := a.Area(), b.Area()
	return math.Abs(x-y) <= 1e-9*math.Max(math.Abs(x), math.Abs(y))
}

// SortByArea sorts shapes by ascending area. The sort is stable.
func SortByArea(shapes []Shape) {
	slices.SortStableFunc(shapes, func(a, b Shape) int {
		return cmp.Compare(a.Area(), b.Area())
	})
}

// ShapeRecord is a stored shape with its ID.
type ShapeRecord struct {
	ID    string
	Shape Shape
}

// shapeJSON is the tagged on-disk form of a ShapeRecord.
type shapeJSON struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	A      float64 `json:"a,omitempty"`
	B      float64 `json:"b,omitempty"`
	C      float64 `json:"c,omitempty"`
}

// MarshalJSON writes the shape with a kind tag.
func (r ShapeRecord) MarshalJSON() ([]byte, error) {
	out := shapeJSON{ID: r.ID}
	switch s := r.Shape.(type) {
	case Rectangle:
		out.Kind, out.Width, out.Height = ShapeRectangle, s.Width, s.Height
	case Circle:
		out.Kind, out.Radius = ShapeCircle, s.Radius
	case Triangle:
		out.Kind, out.A, out.B, out.C = ShapeTriangle, s.A, s.B, s.C
	default:
		return nil, fmt.Errorf("marshal shape %q: unknown shape %T", r.ID, r.Shape)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a tagged shape, validating its dimensions.
func (r *ShapeRecord) UnmarshalJSON(data []byte) error {
	var in shapeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var (
		s   Shape
		err error
	)
	switch in.Kind {
	case ShapeRectangle:
		s, err = NewRectangle(in.Width, in.Height)
	case ShapeCircle:
		s, err = NewCircle(in.Radius)
	case ShapeTriangle:
		s, err = NewTriangle(in.A, in.B, in.C)
	default:
		err = fieldErr("kind", fmt.Sprintf("unknown shape kind %q", in.Kind))
	}
	if err != nil {
		return err
	}
	r.ID = in.ID
	r.Shape = s
	return nil
}

// Validate checks that the record has an ID and a shape.
func (r ShapeRecord) Validate() error {
	if r.ID == "" {
		return fieldErr("id", "must not be empty")
	}
	if r.Shape == nil {
		return fieldErr("kind", "missing shape")
	}
	return nil
}

// Keys returns the shape ID.
func (r ShapeRecord) Keys() []string {
	return []string{r.ID}
}

// SearchFields returns the shape kind.
func (r ShapeRecord) SearchFields() []string {
	if r.Shape == nil {
		return nil
	}
	return []string{r.Shape.Kind()}
}
