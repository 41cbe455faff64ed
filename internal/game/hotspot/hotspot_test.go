package hotspot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/nancy/internal/game/hotspot"
)

func TestRect_Contains(t *testing.T) {
	r := hotspot.Rect{Left: 10, Top: 20, Right: 30, Bottom: 40}
	assert.True(t, r.Contains(10, 20))
	assert.True(t, r.Contains(29, 39))
	assert.False(t, r.Contains(30, 25), "right edge is exclusive")
	assert.False(t, r.Contains(15, 40), "bottom edge is exclusive")
	assert.False(t, r.Contains(9, 25))
}

func TestRect_Empty(t *testing.T) {
	assert.True(t, hotspot.Rect{}.Empty())
	assert.True(t, hotspot.Rect{Left: 5, Right: 5, Top: 0, Bottom: 10}.Empty())
	assert.False(t, hotspot.Rect{Left: 0, Right: 1, Top: 0, Bottom: 1}.Empty())
}

func TestSet_ForFrame_NoMatch(t *testing.T) {
	s := hotspot.Set{{FrameID: 1, Coords: hotspot.Rect{Right: 5, Bottom: 5}}}
	_, ok := s.ForFrame(2)
	assert.False(t, ok)
}

func TestSet_ForFrame_LastMatchWins(t *testing.T) {
	first := hotspot.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	second := hotspot.Rect{Left: 50, Top: 50, Right: 60, Bottom: 60}
	s := hotspot.Set{
		{FrameID: 3, Coords: first},
		{FrameID: 7, Coords: hotspot.Rect{Right: 1, Bottom: 1}},
		{FrameID: 3, Coords: second},
	}
	got, ok := s.ForFrame(3)
	assert.True(t, ok)
	assert.Equal(t, second, got)
}

func TestPropertySet_ForFrame_ReportsLastDeclared(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		s := make(hotspot.Set, n)
		for i := range s {
			s[i] = hotspot.Descriptor{
				FrameID: rapid.Uint16Range(0, 3).Draw(t, "frame"),
				Coords:  hotspot.Rect{Left: int32(i), Top: 0, Right: int32(i) + 1, Bottom: 1},
			}
		}
		frame := rapid.Uint16Range(0, 3).Draw(t, "query")

		want := -1
		for i, d := range s {
			if d.FrameID == frame {
				want = i
			}
		}

		got, ok := s.ForFrame(frame)
		if want < 0 {
			assert.False(t, ok)
			return
		}
		assert.True(t, ok)
		assert.Equal(t, s[want].Coords, got)
	})
}
