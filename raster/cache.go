package raster

import "image"

// ImageCache lazily rasterizes pages and keeps them keyed by page index.
// Each cache is owned by exactly one OCR reader instance; it is not safe
// for concurrent use and holds its entries until Release.
type ImageCache struct {
	rasterizer Rasterizer
	images     map[int]image.Image
}

// NewImageCache creates an empty cache over the given rasterizer.
func NewImageCache(r Rasterizer) *ImageCache {
	return &ImageCache{rasterizer: r, images: make(map[int]image.Image)}
}

// Image returns the cached page image, rasterizing it on first access.
func (c *ImageCache) Image(page int) (image.Image, error) {
	if img, ok := c.images[page]; ok {
		return img, nil
	}
	img, err := c.rasterizer.Rasterize(page)
	if err != nil {
		return nil, err
	}
	c.images[page] = img
	return img, nil
}

// Len reports the number of cached pages.
func (c *ImageCache) Len() int { return len(c.images) }

// Release drops all cached page images.
func (c *ImageCache) Release() {
	c.images = make(map[int]image.Image)
}
