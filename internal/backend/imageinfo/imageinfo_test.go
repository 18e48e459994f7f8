package imageinfo

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDescribe_PNG(t *testing.T) {
	data := encodePNG(t, 12, 7)
	assert.Equal(t, Info{Format: "png", Width: 12, Height: 7, Size: len(data)}, Describe(data))
}

func TestDescribe_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 5, 9)), nil))

	info := Describe(buf.Bytes())
	assert.Equal(t, "jpeg", info.Format)
	assert.Equal(t, 5, info.Width)
	assert.Equal(t, 9, info.Height)
}

func TestDescribe_SVG(t *testing.T) {
	tests := []struct {
		name   string
		svg    string
		width  int
		height int
	}{
		{"explicit size", `<svg xmlns="http://www.w3.org/2000/svg" width="64px" height="32"></svg>`, 64, 32},
		{"viewBox only", `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20"><rect width="40" height="20"/></svg>`, 40, 20},
		{"prolog and comment", `<?xml version="1.0"?><!-- avatar --><svg width="10" height="12"/>`, 10, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Describe([]byte(tt.svg))
			assert.Equal(t, FormatSVG, info.Format)
			assert.Equal(t, tt.width, info.Width)
			assert.Equal(t, tt.height, info.Height)
		})
	}
}

func TestDescribe_Unknown(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("just some text"), []byte("<html><body/></html>")} {
		info := Describe(data)
		assert.Equal(t, FormatUnknown, info.Format, "%q", data)
		assert.Zero(t, info.Width)
		assert.Zero(t, info.Height)
	}
}

func TestContentTypeFromName(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":       MimeJPEG,
		"photo.JPEG":      MimeJPEG,
		"world.png":       MimePNG,
		"avatar.gif":      MimePNG,
		"no-ext":          MimePNG,
		"":                MimePNG,
		"archive.jpg.png": MimePNG,
	}
	for name, want := range tests {
		assert.Equal(t, want, ContentTypeFromName(name), name)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="5" cy="5" r="4" fill="#336699"/></svg>`)
	out, err := RenderSVG(svg, 16, 16)
	require.NoError(t, err)

	info := Describe(out)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 16, info.Width)
	assert.Equal(t, 16, info.Height)

	_, err = RenderSVG(svg, 0, 16)
	assert.Error(t, err, "zero width")
}

func TestPixelAttr(t *testing.T) {
	root, ok := svgRoot([]byte(`<svg width=" 48px " height="100%" x="abc"/>`))
	require.True(t, ok)

	w, ok := pixelAttr(root, "width")
	assert.True(t, ok)
	assert.Equal(t, 48, w)

	for _, name := range []string{"height", "x", "missing"} {
		_, ok := pixelAttr(root, name)
		assert.False(t, ok, name)
	}
}
