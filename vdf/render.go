package vdf

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a normalized intensity in [0, 1] to a color.
type Colormap func(t float64) color.Color

// Grayscale is a linear black-to-white colormap.
func Grayscale(t float64) color.Color {
	v := uint8(clamp01(t) * 255)
	return color.NRGBA{R: v, G: v, B: v, A: 255}
}

// Thermal blends dark blue through red to yellow in HCL space, which
// keeps perceived lightness monotonic.
func Thermal(t float64) color.Color {
	t = clamp01(t)
	cold := colorful.Hcl(265, 0.5, 0.1)
	hot := colorful.Hcl(85, 0.9, 0.95)
	return cold.BlendHcl(hot, t).Clamped()
}

// RenderOptions controls Render output.
type RenderOptions struct {
	// Colormap defaults to Grayscale.
	Colormap Colormap

	// SmoothSigma applies a Gaussian blur with the given radius after
	// colormapping. Zero disables smoothing.
	SmoothSigma float64

	// Scale upsamples the output by an integer factor with
	// nearest-neighbor filtering, preserving the blocky navigation
	// pixels. Values < 2 leave the size unchanged.
	Scale int
}

// Render converts a dark-field image to a displayable raster. Intensities
// are min-max normalized over the image before colormapping.
func Render(im *Image, opts RenderOptions) (image.Image, error) {
	if im.Rows <= 0 || im.Cols <= 0 {
		return nil, fmt.Errorf("cannot render empty image (%dx%d)", im.Rows, im.Cols)
	}
	cmap := opts.Colormap
	if cmap == nil {
		cmap = Grayscale
	}

	lo, hi := im.MinMax()
	span := hi - lo
	out := image.NewNRGBA(image.Rect(0, 0, im.Cols, im.Rows))
	for row := 0; row < im.Rows; row++ {
		for col := 0; col < im.Cols; col++ {
			t := 0.0
			if span > 0 {
				t = (im.At(row, col) - lo) / span
			}
			out.Set(col, row, cmap(t))
		}
	}

	var rendered image.Image = out
	if opts.SmoothSigma > 0 {
		rendered = blur.Gaussian(rendered, opts.SmoothSigma)
	}
	if opts.Scale >= 2 {
		rendered = imaging.Resize(rendered, im.Cols*opts.Scale, im.Rows*opts.Scale, imaging.NearestNeighbor)
	}
	return rendered, nil
}

// Save renders the image and writes it to path; the format is inferred
// from the file extension.
func Save(im *Image, path string, opts RenderOptions) error {
	rendered, err := Render(im, opts)
	if err != nil {
		return err
	}
	return imaging.Save(rendered, path)
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
