package action

import (
	"image"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nancy/internal/game/flag"
	"github.com/cory-johannsen/nancy/internal/game/hotspot"
	"github.com/cory-johannsen/nancy/internal/game/script"
)

// AddInventoryNoHS gives the player an item unless it is already held.
type AddInventoryNoHS struct {
	Base
	ItemID uint16
}

func (r *AddInventoryNoHS) decode(sr *script.Reader) (int64, error) {
	var err error
	r.ItemID, err = sr.Uint16()
	return 2, err
}

// Execute implements Record.
func (r *AddInventoryNoHS) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	if svc.Scene.HasItem(r.ItemID) != flag.True {
		svc.Scene.AddItem(r.ItemID)
	}
	r.done()
}

// RemoveInventoryNoHS takes an item from the player.
type RemoveInventoryNoHS struct {
	Base
	ItemID uint16
}

func (r *RemoveInventoryNoHS) decode(sr *script.Reader) (int64, error) {
	var err error
	r.ItemID, err = sr.Uint16()
	return 2, err
}

// Execute implements Record.
func (r *RemoveInventoryNoHS) Execute(svc *Services) {
	if r.IsDone() {
		return
	}
	svc.Scene.RemoveItem(r.ItemID)
	r.done()
}

// Drawable is a record that shows part of an image on screen.
type Drawable interface {
	Visible() bool
	Image() image.Image
	// Placement returns the image region shown and where it is drawn.
	Placement() (src, dest hotspot.Rect)
}

// ShowInventoryItem draws an item lying in the scene and lets the player pick
// it up by clicking it.
type ShowInventoryItem struct {
	Base
	ObjectID  uint16
	ImageName string
	Bitmaps   []script.Bitmap

	img        image.Image
	drawnFrame int
	visible    bool
	src, dest  hotspot.Rect
}

func (r *ShowInventoryItem) decode(sr *script.Reader) (int64, error) {
	var err error
	if r.ObjectID, err = sr.Uint16(); err != nil {
		return 0, err
	}
	if r.ImageName, err = sr.String(script.NameSize); err != nil {
		return 0, err
	}
	n, err := sr.Uint16()
	if err != nil {
		return 0, err
	}
	r.Bitmaps = make([]script.Bitmap, 0, n)
	for i := 0; i < int(n); i++ {
		b, err := script.ReadBitmap(sr)
		if err != nil {
			return 0, err
		}
		r.Bitmaps = append(r.Bitmaps, b)
	}
	return 0xE + int64(n)*script.BitmapSize, nil
}

// Execute implements Record.
func (r *ShowInventoryItem) Execute(svc *Services) {
	switch r.state {
	case Begin:
		img, err := svc.Images.Load(r.ImageName)
		if err != nil {
			svc.log().Warn("loading item image",
				zap.String("image", r.ImageName),
				zap.Uint16("item", r.ObjectID),
				zap.Error(err),
			)
		}
		r.img = img
		r.drawnFrame = -1
		r.state = Run
		fallthrough
	case Run:
		frame := -1
		current := svc.Scene.CurrentFrameID()
		for i, b := range r.Bitmaps {
			if b.FrameID == current {
				frame = i
				break
			}
		}
		if frame == r.drawnFrame {
			return
		}
		r.drawnFrame = frame
		if frame < 0 {
			r.hasHotspot = false
			r.visible = false
			return
		}
		bm := r.Bitmaps[frame]
		r.hotspot = bm.Dest
		r.hasHotspot = true
		r.src, r.dest = bm.Src, bm.Dest
		r.visible = true
	case ActionTrigger:
		if svc.PickupSound != nil {
			svc.Sound.Load(svc.PickupSound)
			svc.Sound.Play(svc.PickupSound)
		}
		svc.Scene.AddItem(r.ObjectID)
		r.visible = false
		r.hasHotspot = false
		r.finish()
	}
}

// Visible implements Drawable.
func (r *ShowInventoryItem) Visible() bool { return r.visible && r.img != nil }

// Image implements Drawable.
func (r *ShowInventoryItem) Image() image.Image { return r.img }

// Placement implements Drawable.
func (r *ShowInventoryItem) Placement() (src, dest hotspot.Rect) { return r.src, r.dest }
