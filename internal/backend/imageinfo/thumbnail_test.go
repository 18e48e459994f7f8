package imageinfo

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThumbnail_Raster(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Thumbnail(buf.Bytes(), 32)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	// 40x20 fits as 32x16, centered with 8 rows of padding above and below
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, color.RGBAModel.Convert(img.At(16, 16)))
}

func TestThumbnail_SVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10" fill="#000"/></svg>`)
	out, err := Thumbnail(svg, 24)
	require.NoError(t, err)

	info := Describe(out)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 24, info.Width)
	assert.Equal(t, 24, info.Height)
}

func TestThumbnail_Rejects(t *testing.T) {
	_, err := Thumbnail([]byte("not an image"), 32)
	assert.Error(t, err, "undecodable data")

	data := encodePNG(t, 4, 4)
	for _, size := range []int{0, MinThumbnailSize - 1, MaxThumbnailSize + 1} {
		_, err := Thumbnail(data, size)
		assert.Error(t, err, "size %d", size)
	}
}

// pngHeader returns the PNG signature and an 8-bit gray IHDR chunk claiming
// the given dimensions. It is enough for image.DecodeConfig.
func pngHeader(width, height uint32) []byte {
	ihdr := make([]byte, 17)
	copy(ihdr, "IHDR")
	binary.BigEndian.PutUint32(ihdr[4:], width)
	binary.BigEndian.PutUint32(ihdr[8:], height)
	ihdr[12] = 8 // bit depth, color type 0 (gray)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(ihdr)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr))
	return buf.Bytes()
}

func TestThumbnail_RejectsOversizedSource(t *testing.T) {
	data := pngHeader(12000, 12000)
	info := Describe(data)
	require.Equal(t, 12000, info.Width)
	require.Equal(t, 12000, info.Height)

	_, err := Thumbnail(data, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pixel limit")
}

func TestFitDimensions(t *testing.T) {
	tests := []struct{ w, h, size, wantW, wantH int }{
		{40, 20, 32, 32, 16},
		{20, 40, 32, 16, 32},
		{10, 10, 64, 64, 64},
		{1000, 1, 16, 16, 1},
	}
	for _, tt := range tests {
		w, h := fitDimensions(tt.w, tt.h, tt.size)
		assert.Equal(t, [2]int{tt.wantW, tt.wantH}, [2]int{w, h}, "fitDimensions(%d,%d,%d)", tt.w, tt.h, tt.size)
	}
}
