package renderer

import (
	"fmt"
	"image"
	"image/color"
)

// A rendered frame. Pix holds 3 bytes (R, G, B) per pixel in row-major order
// with the top row first.
//
// Frame implements image.Image so it can be passed directly to an image encoder.
type Frame struct {
	Width  uint32
	Height uint32
	Pix    []uint8
}

// Allocate a frame.
func NewFrame(width, height uint32) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, int(width)*int(height)*3),
	}
}

// Offset of pixel (x, y) in Pix.
func (f *Frame) offset(x, y uint32) int {
	return (int(y)*int(f.Width) + int(x)) * 3
}

// RGB value of pixel (x, y).
func (f *Frame) RGB(x, y uint32) [3]uint8 {
	off := f.offset(x, y)
	return [3]uint8{f.Pix[off], f.Pix[off+1], f.Pix[off+2]}
}

func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(f.Width), int(f.Height))
}

func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= int(f.Width) || y >= int(f.Height) {
		return color.RGBA{}
	}
	rgb := f.RGB(uint32(x), uint32(y))
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

// Convert to an opaque RGBA image.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for src, dst := 0, 0; src < len(f.Pix); src, dst = src+3, dst+4 {
		img.Pix[dst] = f.Pix[src]
		img.Pix[dst+1] = f.Pix[src+1]
		img.Pix[dst+2] = f.Pix[src+2]
		img.Pix[dst+3] = 255
	}
	return img
}

// Get a write view limited to the columns of a chunk.
func (f *Frame) Region(chunk Chunk) *Region {
	return &Region{frame: f, chunk: chunk}
}

// A column-confined view of a frame. Regions of disjoint chunks can be
// written concurrently.
type Region struct {
	frame *Frame
	chunk Chunk
}

// The chunk this region covers.
func (r *Region) Chunk() Chunk {
	return r.chunk
}

// Set pixel (x, y); x is an absolute frame column and must lie inside the
// region.
func (r *Region) Set(x, y uint32, rgb [3]uint8) {
	if x < r.chunk.X0 || x >= r.chunk.X1 || y >= r.frame.Height {
		panic(fmt.Sprintf("renderer: pixel (%d, %d) outside region [%d, %d) x %d", x, y, r.chunk.X0, r.chunk.X1, r.frame.Height))
	}
	off := r.frame.offset(x, y)
	r.frame.Pix[off] = rgb[0]
	r.frame.Pix[off+1] = rgb[1]
	r.frame.Pix[off+2] = rgb[2]
}
