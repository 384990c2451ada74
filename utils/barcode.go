package utils

import (
	"bytes"
	"encoding/base64"
	"html"
	"image/color"
	"math/rand"
	"strconv"
	"time"

	svg "github.com/ajstarks/svgo"
	"github.com/boombuler/barcode/code128"
)

const (
	BarcodeLength = 12

	barModuleWidth = 2
	barHeight      = 60
	barQuietZone   = 10
	barLabelHeight = 18
)

// GenerateUniqueCode returns a 12 character code built from the unix time and a random
// suffix, redrawn while it collides with existing.
func GenerateUniqueCode(existing map[string]struct{}) string {
	for {
		code := strconv.FormatInt(time.Now().Unix(), 10) + strconv.Itoa(1000+rand.Intn(9000))
		if len(code) > BarcodeLength {
			code = code[:BarcodeLength]
		}
		if _, taken := existing[code]; !taken {
			return code
		}
	}
}

// RenderBarcodeSVG draws code as a Code128 symbol with the human readable text below it.
func RenderBarcodeSVG(code string) ([]byte, error) {
	bc, err := code128.Encode(code)
	if err != nil {
		return nil, err
	}

	modules := bc.Bounds().Dx()
	width := modules*barModuleWidth + 2*barQuietZone
	height := barHeight + barLabelHeight

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	// merge runs of dark modules into a single rect
	for x := 0; x < modules; {
		if !isDark(bc.At(x, 0)) {
			x++
			continue
		}
		start := x
		for x < modules && isDark(bc.At(x, 0)) {
			x++
		}
		canvas.Rect(barQuietZone+start*barModuleWidth, 0, (x-start)*barModuleWidth, barHeight, "fill:black")
	}
	canvas.Text(width/2, height-4, code, "text-anchor:middle;font-family:monospace;font-size:14px")
	canvas.End()
	return buf.Bytes(), nil
}

// BarcodeSVGOrPlaceholder never fails: an unencodable code becomes a plain text image.
func BarcodeSVGOrPlaceholder(code string) []byte {
	data, err := RenderBarcodeSVG(code)
	if err != nil {
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg"><text x="0" y="15">` + html.EscapeString(code) + `</text></svg>`)
	}
	return data
}

// BarcodeDataURI returns the symbol as a base64 svg data URI.
func BarcodeDataURI(code string) (string, error) {
	data, err := RenderBarcodeSVG(code)
	if err != nil {
		return "", err
	}
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data), nil
}

func BarcodeObjectKey(code string) string {
	return "barcodes/" + code + ".svg"
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}
