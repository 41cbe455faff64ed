package hint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hint"
)

type fakeConditions struct {
	flags map[int16]flag.TriState
	items map[uint16]bool
}

func newConditions() *fakeConditions {
	return &fakeConditions{flags: map[int16]flag.TriState{}, items: map[uint16]bool{}}
}

func (f *fakeConditions) EventFlag(label int16) flag.TriState {
	if v, ok := f.flags[label]; ok {
		return v
	}
	return flag.False
}

func (f *fakeConditions) HasItem(id uint16) flag.TriState {
	return flag.FromBool(f.items[id])
}

func TestSelect_FirstSatisfiedRuleWins(t *testing.T) {
	c := newConditions()
	c.flags[1] = flag.False
	c.flags[2] = flag.True
	c.items[7] = true

	table := &hint.Table{Title: "test", Rules: []hint.Rule{
		{CharacterID: 0, HintID: 1, Flags: []hint.Condition{{Label: 1, Want: flag.True}}},
		{
			CharacterID: 0,
			HintID:      2,
			Flags:       []hint.Condition{{Label: 2, Want: flag.True}},
			Inventory:   []hint.Condition{{Label: 7, Want: flag.True}},
		},
		{CharacterID: 0, HintID: 3, Inventory: []hint.Condition{{Label: 7, Want: flag.True}}},
	}}

	id, ok := table.Select(0, c)
	assert.True(t, ok)
	assert.Equal(t, uint16(2), id)
}

func TestSelect_DefaultWhenNothingMatches(t *testing.T) {
	c := newConditions()
	table := &hint.Table{Title: "test", Rules: []hint.Rule{
		{CharacterID: 0, HintID: 4, Flags: []hint.Condition{{Label: 1, Want: flag.True}}},
	}}

	id, ok := table.Select(0, c)
	assert.False(t, ok)
	assert.Equal(t, hint.DefaultHint, id)
}

func TestSelect_FiltersByCharacter(t *testing.T) {
	c := newConditions()
	table := &hint.Table{Title: "test", Rules: []hint.Rule{
		{CharacterID: 1, HintID: 9},
		{CharacterID: 2, HintID: 5},
	}}

	id, ok := table.Select(2, c)
	assert.True(t, ok)
	assert.Equal(t, uint16(5), id)
}

func TestRuleSatisfied_StopsAtNoLabel(t *testing.T) {
	c := newConditions()
	c.flags[3] = flag.True
	r := hint.Rule{Flags: []hint.Condition{
		{Label: 3, Want: flag.True},
		{Label: flag.NoLabel},
		{Label: 4, Want: flag.True},
	}, Inventory: []hint.Condition{
		{Label: flag.NoLabel},
		{Label: 8, Want: flag.True},
	}}
	assert.True(t, r.Satisfied(c))
}

func TestRuleSatisfied_InventoryAbsence(t *testing.T) {
	c := newConditions()
	r := hint.Rule{Inventory: []hint.Condition{{Label: 8, Want: flag.False}}}
	assert.True(t, r.Satisfied(c))

	c.items[8] = true
	assert.False(t, r.Satisfied(c))
}

func TestPropertySelect_MatchesFirstSatisfiedRule(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newConditions()
		for label := int16(0); label < 4; label++ {
			c.flags[label] = flag.FromBool(rapid.Bool().Draw(rt, "flag"))
		}
		n := rapid.IntRange(0, 8).Draw(rt, "rules")
		table := &hint.Table{Title: "prop"}
		for i := 0; i < n; i++ {
			table.Rules = append(table.Rules, hint.Rule{
				CharacterID: 0,
				HintID:      uint16(i + 1),
				Flags: []hint.Condition{{
					Label: rapid.Int16Range(0, 3).Draw(rt, "label"),
					Want:  flag.FromBool(rapid.Bool().Draw(rt, "want")),
				}},
			})
		}

		want := hint.DefaultHint
		for _, r := range table.Rules {
			if r.Satisfied(c) {
				want = r.HintID
				break
			}
		}
		got, _ := table.Select(0, c)
		if got != want {
			rt.Fatalf("Select = %d, want %d", got, want)
		}
	})
}
