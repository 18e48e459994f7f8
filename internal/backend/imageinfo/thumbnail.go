package imageinfo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"runtime"
	"sync"
)

const (
	MinThumbnailSize     = 16
	MaxThumbnailSize     = 512
	DefaultThumbnailSize = 64

	// MaxSourcePixels bounds width*height of images decoded for previews.
	MaxSourcePixels = 40_000_000
)

// Thumbnail renders data into a size x size PNG. The image keeps its aspect
// ratio and is centered on a white square.
func Thumbnail(data []byte, size int) ([]byte, error) {
	if size < MinThumbnailSize || size > MaxThumbnailSize {
		return nil, fmt.Errorf("thumbnail size must be between %d and %d, got %d", MinThumbnailSize, MaxThumbnailSize, size)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if !isSVGData(data) {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return RenderSVG(data, size, size)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxSourcePixels {
		return nil, fmt.Errorf("image is %dx%d, above the %d pixel limit", cfg.Width, cfg.Height, MaxSourcePixels)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()
	if srcWidth == 0 || srcHeight == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	scaledWidth, scaledHeight := fitDimensions(srcWidth, srcHeight, size)
	slog.Debug("rendering thumbnail", "format", format,
		"sourceWidth", srcWidth, "sourceHeight", srcHeight,
		"scaledWidth", scaledWidth, "scaledHeight", scaledHeight)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	offsetX, offsetY := (size-scaledWidth)/2, (size-scaledHeight)/2
	xMap := indexMap(srcWidth, scaledWidth, bounds.Min.X)
	yMap := indexMap(srcHeight, scaledHeight, bounds.Min.Y)
	rows(scaledHeight, func(y int) {
		for x := 0; x < scaledWidth; x++ {
			draw.Draw(dst, image.Rect(offsetX+x, offsetY+y, offsetX+x+1, offsetY+y+1),
				&image.Uniform{C: src.At(xMap[x], yMap[y])}, image.Point{}, draw.Over)
		}
	})

	var buf bytes.Buffer
	buf.Grow(size * size)
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// fitDimensions scales width x height to fit a size x size box.
func fitDimensions(width, height, size int) (int, int) {
	if width >= height {
		return size, max(1, height*size/width)
	}
	return max(1, width*size/height), size
}

// indexMap maps each target coordinate to its nearest source coordinate.
func indexMap(srcLen, dstLen, origin int) []int {
	m := make([]int, dstLen)
	for i := range m {
		v := i * srcLen / dstLen
		if v >= srcLen {
			v = srcLen - 1
		}
		m[i] = origin + v
	}
	return m
}

// rows runs fn for every y in [0, n) striped across GOMAXPROCS workers.
func rows(n int, fn func(y int)) {
	workers := min(runtime.GOMAXPROCS(0), n)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for y := w; y < n; y += workers {
				fn(y)
			}
		}(w)
	}
	wg.Wait()
}
