package action

import (
	"go.uber.org/zap"
)

// Manager owns the active records of one loaded scene and advances them in
// insertion order.
//
// Manager is not safe for concurrent use; the engine drives it from its tick.
type Manager struct {
	records []Record
	logger  *zap.Logger
}

// NewManager creates a Manager over records.
//
// Precondition: logger must be non-nil.
// Postcondition: Len() == len(records); the slice is not retained.
func NewManager(records []Record, logger *zap.Logger) *Manager {
	rs := make([]Record, len(records))
	copy(rs, records)
	return &Manager{records: rs, logger: logger}
}

// Process executes every active record once, in insertion order, then drops
// records that reached Done. A record that resets the game ends the pass;
// the records after it are not executed against the new game.
//
// Precondition: svc must be non-nil with all services set.
// Postcondition: no record in the active set is Done.
func (m *Manager) Process(svc *Services) {
	generation := svc.Scene.Generation()
	for _, rec := range m.records {
		if svc.Scene.Generation() != generation {
			m.logger.Debug("game reset, ending record pass",
				zap.String("record", rec.Description()),
			)
			break
		}
		before := rec.State()
		rec.Execute(svc)
		if after := rec.State(); after != before {
			m.logger.Debug("record state changed",
				zap.Stringer("kind", rec.Kind()),
				zap.String("record", rec.Description()),
				zap.Stringer("from", before),
				zap.Stringer("to", after),
			)
		}
	}

	kept := m.records[:0]
	for _, rec := range m.records {
		if rec.IsDone() {
			continue
		}
		kept = append(kept, rec)
	}
	for i := len(kept); i < len(m.records); i++ {
		m.records[i] = nil
	}
	m.records = kept
}

// HandleClick triggers the first running record whose hotspot contains
// (x, y).
//
// Postcondition: Returns the triggered record, or nil if none matched.
func (m *Manager) HandleClick(x, y int32) Record {
	for _, rec := range m.records {
		if rec.State() != Run {
			continue
		}
		rect, ok := rec.Hotspot()
		if !ok || !rect.Contains(x, y) {
			continue
		}
		if rec.Trigger() {
			m.logger.Debug("record triggered by click",
				zap.Stringer("kind", rec.Kind()),
				zap.String("record", rec.Description()),
				zap.Int32("x", x),
				zap.Int32("y", y),
			)
			return rec
		}
	}
	return nil
}

// Records returns the active records in execution order.
//
// Postcondition: Returns a new slice; the records themselves are shared.
func (m *Manager) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Len returns the number of active records.
func (m *Manager) Len() int { return len(m.records) }

// Drawables returns the records currently showing an image.
func (m *Manager) Drawables() []Drawable {
	var out []Drawable
	for _, rec := range m.records {
		if d, ok := rec.(Drawable); ok && d.Visible() {
			out = append(out, d)
		}
	}
	return out
}
