package mesh

import "fmt"

const floatSize = 4

// Attribute locations shared with the shader sources.
const (
	PositionAttrib uint32 = 0
	ColorAttrib    uint32 = 1
	TexCoordAttrib uint32 = 2
)

// Attribute binds Components consecutive floats at byte Offset within a
// vertex to the shader input at location Index.
type Attribute struct {
	Index      uint32
	Components int32
	Offset     int
}

// Layout describes one interleaved vertex record.
type Layout struct {
	Stride     int
	Attributes []Attribute
}

// PositionColor is the 24 byte x,y,z,r,g,b layout.
var PositionColor = Layout{
	Stride: 6 * floatSize,
	Attributes: []Attribute{
		{Index: PositionAttrib, Components: 3, Offset: 0},
		{Index: ColorAttrib, Components: 3, Offset: 3 * floatSize},
	},
}

// PositionColorTexCoord is the 32 byte x,y,z,r,g,b,s,t layout.
var PositionColorTexCoord = Layout{
	Stride: 8 * floatSize,
	Attributes: []Attribute{
		{Index: PositionAttrib, Components: 3, Offset: 0},
		{Index: ColorAttrib, Components: 3, Offset: 3 * floatSize},
		{Index: TexCoordAttrib, Components: 2, Offset: 6 * floatSize},
	},
}

// Validate checks that every attribute fits inside the stride and that no
// two attributes share a location or overlap.
func (l Layout) Validate() error {
	if l.Stride <= 0 || l.Stride%floatSize != 0 {
		return fmt.Errorf("stride %d is not a positive multiple of %d", l.Stride, floatSize)
	}
	if len(l.Attributes) == 0 {
		return fmt.Errorf("layout has no attributes")
	}
	used := make([]bool, l.Stride/floatSize)
	seen := make(map[uint32]bool)
	for _, a := range l.Attributes {
		if seen[a.Index] {
			return fmt.Errorf("attribute location %d declared twice", a.Index)
		}
		seen[a.Index] = true
		if a.Components < 1 || a.Components > 4 {
			return fmt.Errorf("attribute %d has %d components", a.Index, a.Components)
		}
		if a.Offset < 0 || a.Offset%floatSize != 0 {
			return fmt.Errorf("attribute %d has misaligned offset %d", a.Index, a.Offset)
		}
		end := a.Offset + int(a.Components)*floatSize
		if end > l.Stride {
			return fmt.Errorf("attribute %d ends at byte %d past stride %d", a.Index, end, l.Stride)
		}
		for i := a.Offset / floatSize; i < end/floatSize; i++ {
			if used[i] {
				return fmt.Errorf("attribute %d overlaps another attribute at byte %d", a.Index, i*floatSize)
			}
			used[i] = true
		}
	}
	return nil
}

// Components returns the number of floats in one vertex record.
func (l Layout) Components() int {
	return l.Stride / floatSize
}
