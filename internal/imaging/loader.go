package imaging

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/terrain-contour-mcp/internal/raster"
)

// ImageCache provides thread-safe caching of decoded heightmaps to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O. Images are decoded with EXIF auto-orientation so a rotated JPEG is sampled
// the way it is displayed.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/heightmap.png")
//	if err != nil {
//	    return err
//	}
//	res, err := pipeline.Run(imaging.ToFrame(img), cfg)
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Supported formats are those registered by github.com/disintegration/imaging:
// PNG, JPEG, GIF, BMP and TIFF. The image is cached using the exact path string
// provided.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ToFrame converts any image into the interleaved 4-channel buffer the pipeline samples.
//
// The pixels are copied into a fresh non-premultiplied RGBA buffer whose origin is
// (0,0), so sub-images and paletted or 16-bit sources all produce tightly packed
// rows of Width*4 bytes. The caller owns the returned buffer.
func ToFrame(img image.Image) raster.Frame {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return raster.Frame{
		Pix:    nrgba.Pix,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}
