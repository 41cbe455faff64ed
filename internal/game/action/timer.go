package action

import "github.com/cory-johannsen/nancy/internal/game/script"

// ResetAndStartTimer restarts the scene timer.
type ResetAndStartTimer struct {
	Base
}

func (r *ResetAndStartTimer) decode(sr *script.Reader) (int64, error) {
	return 1, sr.Skip(1)
}

// Execute implements Record.
func (r *ResetAndStartTimer) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	svc.Scene.ResetAndStartTimer()
	r.done()
}

// StopTimer stops the scene timer.
type StopTimer struct {
	Base
}

func (r *StopTimer) decode(sr *script.Reader) (int64, error) {
	return 1, sr.Skip(1)
}

// Execute implements Record.
func (r *StopTimer) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	svc.Scene.StopTimer()
	r.done()
}
