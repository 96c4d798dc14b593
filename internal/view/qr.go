package view

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
)

// QRMissingMessage is shown while no report has been generated.
const QRMissingMessage = "QR not found. Generate report first."

// QRPreview is the reports page preview panel.
type QRPreview struct {
	Ready  bool
	Status string   // "Report Ready for <name>" or empty
	Note   string   // placeholder text when there is nothing to draw
	Lines  []string // half-block rendering of the QR image
	Ref    string   // image reference as returned by the host
}

// MissingQR is the preview state when the host has no QR code.
func MissingQR() QRPreview {
	return QRPreview{Note: QRMissingMessage}
}

// ReadyQR renders the host's image reference at the given width in
// terminal cells. References that are not decodable data URIs are kept
// as-is and described instead of drawn.
func ReadyQR(name, ref string, width int) QRPreview {
	p := QRPreview{
		Ready:  true,
		Status: "Report Ready for " + name,
		Ref:    ref,
	}
	img, err := DecodeDataURI(ref)
	if err != nil {
		p.Note = "QR image at " + ref
		return p
	}
	p.Lines = HalfBlocks(img, width)
	return p
}

// DecodeDataURI decodes a base64 "data:image/...;base64," reference.
func DecodeDataURI(ref string) (image.Image, error) {
	const marker = ";base64,"
	if !strings.HasPrefix(ref, "data:image/") {
		return nil, fmt.Errorf("not an image data uri")
	}
	i := strings.Index(ref, marker)
	if i < 0 {
		return nil, fmt.Errorf("data uri is not base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(ref[i+len(marker):])
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// HalfBlocks scales img to width columns and draws it with upper/lower
// half block characters, two pixel rows per line. Dark pixels are drawn.
func HalfBlocks(img image.Image, width int) []string {
	b := img.Bounds()
	if width <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	height := width * b.Dy() / b.Dx()
	if height < 2 {
		height = 2
	}
	if height%2 == 1 {
		height++
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	dark := func(x, y int) bool {
		return dst.GrayAt(x, y).Y < 128
	}

	lines := make([]string, 0, height/2)
	for y := 0; y < height; y += 2 {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			top, bottom := dark(x, y), dark(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}
