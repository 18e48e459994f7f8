// Package imageinfo inspects stored avatar bytes and derives previews from
// them. Stored bytes are never modified.
package imageinfo

import (
	"bytes"
	"image"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"

	FormatSVG     = "svg"
	FormatUnknown = "unknown"
)

// Info describes an image payload.
type Info struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"sizeBytes"`
}

// Describe sniffs the format and dimensions of data. Unrecognised payloads
// are reported as FormatUnknown with zero dimensions.
func Describe(data []byte) Info {
	info := Info{Format: FormatUnknown, Size: len(data)}
	if len(data) == 0 {
		return info
	}

	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Format = format
		info.Width = cfg.Width
		info.Height = cfg.Height
		return info
	}

	if size, ok := svgSize(data); ok {
		info.Format = FormatSVG
		info.Width, info.Height = size.X, size.Y
	}
	return info
}

// ContentTypeFromName derives the content type from the file extension of an
// image id. Only .jpg and .jpeg map to JPEG; everything else is served as PNG.
func ContentTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return MimeJPEG
	}
	return MimePNG
}
