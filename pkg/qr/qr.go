package qr

import qrcode "github.com/skip2/go-qrcode"

// Renderer turns a piece of text into a PNG image. Kept as an interface
// so handlers can be tested without producing real images.
type Renderer interface {
	RenderPNG(text string, size int) ([]byte, error)
}

const DefaultSize = 256

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) RenderPNG(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(text, qrcode.Medium, size)
}
