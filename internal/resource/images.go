// Package resource loads game images by name.
package resource

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/bmp"
)

// ErrImageNotFound reports that no image file exists for a name.
var ErrImageNotFound = errors.New("image not found")

// Images loads "<name>.bmp" files from a file system and caches them by
// name. Failed loads are not cached.
//
// Images is safe for concurrent use.
type Images struct {
	mu     sync.Mutex
	fsys   fs.FS
	cache  map[string]image.Image
	logger *zap.Logger
}

// NewImages creates an image loader over fsys.
//
// Precondition: fsys and logger must be non-nil.
func NewImages(fsys fs.FS, logger *zap.Logger) *Images {
	return &Images{
		fsys:   fsys,
		cache:  make(map[string]image.Image),
		logger: logger,
	}
}

// Load returns the image called name.
//
// Postcondition: Returns the decoded image, or an error wrapping
// ErrImageNotFound when the file does not exist.
func (i *Images) Load(name string) (image.Image, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if img, ok := i.cache[name]; ok {
		return img, nil
	}
	if name == "" {
		return nil, fmt.Errorf("empty image name: %w", ErrImageNotFound)
	}

	file := path.Clean(name + ".bmp")
	f, err := i.fsys.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", file, ErrImageNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	img, err := bmp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	i.cache[name] = img
	i.logger.Debug("image loaded",
		zap.String("image", name),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return img, nil
}

// Cached returns the number of cached images.
func (i *Images) Cached() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.cache)
}
