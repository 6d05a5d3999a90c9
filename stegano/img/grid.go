package img

import (
	"fmt"
	"image"
	"image/color"

	"pixhide/stegano/util"
)

// Pixel is a single RGB triple.
type Pixel struct {
	R, G, B uint8
}

// PixelGrid is a row-major grid of RGB pixels. Whoever holds a grid
// owns it: the engine never writes into a grid it was given.
type PixelGrid struct {
	Width  int
	Height int
	Pix    []Pixel
}

func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
}

func (g *PixelGrid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: no image", util.ErrValidation)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: invalid image size %dx%d", util.ErrValidation, g.Width, g.Height)
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: %d pixels for a %dx%d image", util.ErrValidation, len(g.Pix), g.Width, g.Height)
	}
	return nil
}

func (g *PixelGrid) At(x, y int) Pixel {
	return g.Pix[y*g.Width+x]
}

func (g *PixelGrid) Set(x, y int, p Pixel) {
	g.Pix[y*g.Width+x] = p
}

// Row returns row y. The slice shares memory with the grid.
func (g *PixelGrid) Row(y int) []Pixel {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

// Clone returns a deep copy.
func (g *PixelGrid) Clone() *PixelGrid {
	pix := make([]Pixel, len(g.Pix))
	copy(pix, g.Pix)
	return &PixelGrid{
		Width:  g.Width,
		Height: g.Height,
		Pix:    pix,
	}
}

// ConvertToRGB flattens any image into a grid. Alpha is dropped
// without premultiplying, so transparent pixels keep their color values.
func ConvertToRGB(src image.Image) *PixelGrid {
	bounds := src.Bounds()
	grid := NewPixelGrid(bounds.Dx(), bounds.Dy())

	if nrgba, ok := src.(*image.NRGBA); ok {
		for y := 0; y < grid.Height; y++ {
			row := grid.Row(y)
			off := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			for x := range row {
				p := nrgba.Pix[off+x*4 : off+x*4+3]
				row[x] = Pixel{p[0], p[1], p[2]}
			}
		}
		return grid
	}

	for y := 0; y < grid.Height; y++ {
		row := grid.Row(y)
		for x := range row {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			row[x] = Pixel{c.R, c.G, c.B}
		}
	}
	return grid
}

// ToImage returns an opaque RGBA copy of the grid.
func (g *PixelGrid) ToImage() *image.RGBA {
	res := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, p := range g.Pix {
		res.Pix[i*4] = p.R
		res.Pix[i*4+1] = p.G
		res.Pix[i*4+2] = p.B
		res.Pix[i*4+3] = 0xff
	}
	return res
}
