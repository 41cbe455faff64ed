// Package hotspot provides screen rectangles that are clickable only while a
// specific background frame is displayed.
package hotspot

// Rect is a screen rectangle with inclusive left/top and exclusive
// right/bottom edges.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int32) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// DescriptorSize is the encoded width of a Descriptor in bytes.
const DescriptorSize = 0x12

// Descriptor binds a rectangle to the frame it is active on.
type Descriptor struct {
	FrameID uint16
	Coords  Rect
}

// Set is the fixed list of hotspot descriptors decoded for one record.
type Set []Descriptor

// ForFrame returns the rectangle active for frameID.
// When several descriptors share frameID the last one in declaration order
// wins.
//
// Postcondition: Returns (rect, true) if any descriptor matches, or
// (Rect{}, false) otherwise.
func (s Set) ForFrame(frameID uint16) (Rect, bool) {
	var (
		rect  Rect
		found bool
	)
	for _, d := range s {
		if d.FrameID == frameID {
			rect = d.Coords
			found = true
		}
	}
	return rect, found
}
