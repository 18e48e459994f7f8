package imageinfo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgSniffLimit is how much of a payload is searched for the root element.
const svgSniffLimit = 8 << 10

// svgRoot returns the first element of data when it is an <svg> element.
// Prolog, comments and doctype before it are skipped.
func svgRoot(data []byte) (xml.StartElement, bool) {
	head := data[:min(len(data), svgSniffLimit)]
	dec := xml.NewDecoder(bytes.NewReader(head))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, false
		}
		switch el := tok.(type) {
		case xml.StartElement:
			return el, strings.EqualFold(el.Name.Local, "svg")
		case xml.CharData:
			if len(bytes.TrimSpace(el)) > 0 {
				return xml.StartElement{}, false
			}
		}
	}
}

func isSVGData(data []byte) bool {
	_, ok := svgRoot(data)
	return ok
}

// svgSize reports the pixel size of an SVG document: the width and height
// attributes of the root when both are set, else the viewBox extent. ok is
// false only when data is not SVG; an unreadable viewBox yields a zero size.
func svgSize(data []byte) (image.Point, bool) {
	root, ok := svgRoot(data)
	if !ok {
		return image.Point{}, false
	}
	w, wOk := pixelAttr(root, "width")
	h, hOk := pixelAttr(root, "height")
	if wOk && hOk {
		return image.Pt(w, h), true
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return image.Point{}, true
	}
	return image.Pt(int(icon.ViewBox.W), int(icon.ViewBox.H)), true
}

// pixelAttr parses the leading integer of a length attribute like "123px".
// Percentages and other non-numeric values are not pixel sizes.
func pixelAttr(el xml.StartElement, name string) (int, bool) {
	for _, attr := range el.Attr {
		if attr.Name.Local != name {
			continue
		}
		v := strings.TrimSpace(attr.Value)
		digits := strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' })
		if digits < 0 {
			digits = len(v)
		}
		if strings.HasPrefix(v[digits:], "%") {
			return 0, false
		}
		n, err := strconv.Atoi(v[:digits])
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// RenderSVG rasterises an SVG document onto a white canvas of the given size
// and returns it PNG encoded.
func RenderSVG(svgData []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target dimensions for SVG rendering: %dx%d", width, height)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode rendered SVG as PNG: %w", err)
	}
	return buf.Bytes(), nil
}
