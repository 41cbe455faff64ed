package action

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/scene"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// LoseGame ends the game and returns to the main menu.
type LoseGame struct {
	Base
}

func (r *LoseGame) decode(sr *script.Reader) (int64, error) {
	return 1, sr.Skip(1)
}

// Execute implements Record.
func (r *LoseGame) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	endGame(svc, scene.StateMainMenu, scene.StateNone)
	r.done()
}

// WinGame ends the game, rolls the credits, then returns to the main menu.
type WinGame struct {
	Base
}

func (r *WinGame) decode(sr *script.Reader) (int64, error) {
	return 1, sr.Skip(1)
}

// Execute implements Record.
func (r *WinGame) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	endGame(svc, scene.StateCredits, scene.StateMainMenu)
	r.done()
}

func endGame(svc *Services, target, then scene.GameState) {
	svc.log().Info("game ended",
		zap.Stringer("target", target),
		zap.Stringer("then", then),
	)
	for _, c := range specificCategories {
		svc.Sound.StopAllInCategory(c)
	}
	svc.Scene.RequestStateChange(target, then)
	svc.Scene.ResetToInitialState()
}
