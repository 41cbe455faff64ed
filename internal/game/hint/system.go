package hint

import (
	"go.uber.org/zap"
)

type contentKey struct {
	character  uint8
	index      uint16
	difficulty int
}

// System combines a rule table with the hint data file. Content is immutable
// for a session, so resolved hints are cached.
//
// System is not safe for concurrent use.
type System struct {
	table  *Table
	layout Layout
	open   Opener
	cache  map[contentKey]Content
	logger *zap.Logger
}

// NewSystem creates a System.
//
// Precondition: table, open and logger must be non-nil.
// Postcondition: Returns a System with an empty content cache.
func NewSystem(table *Table, layout Layout, open Opener, logger *zap.Logger) *System {
	return &System{
		table:  table,
		layout: layout,
		open:   open,
		cache:  make(map[contentKey]Content),
		logger: logger,
	}
}

// Select returns the hint index for characterID given c, falling back to
// DefaultHint when no rule is satisfied.
func (s *System) Select(characterID uint8, c Conditions) uint16 {
	id, ok := s.table.Select(characterID, c)
	s.logger.Debug("hint selected",
		zap.Uint8("character", characterID),
		zap.Uint16("hint", id),
		zap.Bool("matched", ok),
	)
	return id
}

// Content returns hint index of characterID at difficulty.
//
// Postcondition: Returns the content, or an error wrapping
// ErrHintDataUnavailable. Failed reads are not cached.
func (s *System) Content(characterID uint8, index uint16, difficulty int) (Content, error) {
	key := contentKey{character: characterID, index: index, difficulty: difficulty}
	if c, ok := s.cache[key]; ok {
		return c, nil
	}

	src, closer, err := s.open()
	if err != nil {
		return Content{}, err
	}
	if closer != nil {
		defer closer.Close()
	}

	c, err := ReadContent(src, s.layout, characterID, index, difficulty)
	if err != nil {
		return Content{}, err
	}
	s.cache[key] = c
	return c, nil
}
