package sim

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"recyclekiosk/internal/kiosk"
)

var (
	background = color.RGBA{R: 0x26, G: 0x32, B: 0x38, A: 0xff}
	idleColor  = color.RGBA{R: 0x60, G: 0x7d, B: 0x8b, A: 0xff}
)

// renderFrame draws a placeholder camera frame: a box in the material's
// colour that grows with the detection progress, as a JPEG data URL.
func renderFrame(w, h int, material kiosk.MaterialID, progress float64) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	fill := idleColor
	if cfg, ok := kiosk.Lookup(material); ok {
		if c, err := parseHex(cfg.Color); err == nil {
			fill = c
		}
	}
	if progress < 0.1 {
		progress = 0.1
	}
	if progress > 1 {
		progress = 1
	}
	bw, bh := int(float64(w/2)*progress), int(float64(h/2)*progress)
	box := image.Rect(w/2-bw, h/2-bh, w/2+bw, h/2+bh)
	draw.Draw(img, box, &image.Uniform{C: fill}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 60}); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// parseHex reads "#RRGGBB".
func parseHex(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
