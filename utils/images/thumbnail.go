// Package images prepares publication images for display outside of the
// renderer, cover thumbnails mostly.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// defaultSVGSize is used when SVG viewBox has no size.
const defaultSVGSize = 1024

// maxRasterDim limits pixel dimension of rasterized SVG, viewBox values come
// from publication and may be arbitrary large.
var maxRasterDim = 8192

// ErrUnsupportedFormat is returned when requested output format cannot be
// produced.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// IsSVG reports whether media type denotes vector image.
func IsSVG(mediaType string) bool {
	return strings.HasSuffix(strings.ToLower(mediaType), "svg+xml")
}

// Thumbnail decodes image data and fits it into width x height box keeping
// aspect ratio. Raster images are never enlarged, vector images are
// rasterized to fill the box.
func Thumbnail(data []byte, mediaType string, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid thumbnail box %dx%d", width, height)
	}
	if IsSVG(mediaType) {
		return rasterizeSVG(data, width, height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}
	if b := img.Bounds(); b.Dx() <= width && b.Dy() <= height {
		return img, nil
	}
	return imaging.Fit(img, width, height, imaging.Lanczos), nil
}

// rasterizeSVG draws SVG on white background fitting it into the box.
func rasterizeSVG(data []byte, width, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to parse svg: %w", err)
	}

	iw, ih := float64(defaultSVGSize), float64(defaultSVGSize)
	if icon.ViewBox.W > 0 {
		iw = icon.ViewBox.W
	}
	if icon.ViewBox.H > 0 {
		ih = icon.ViewBox.H
	}
	scale := math.Min(float64(width)/iw, float64(height)/ih)
	w := max(int(math.Round(iw*scale)), 1)
	h := max(int(math.Round(ih*scale)), 1)
	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}

// Encode writes image in requested format, "png" or "jpeg".
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	var err error
	switch format {
	case "png":
		err = imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	case "jpeg":
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", format, err)
	}
	return nil
}

// Extension returns file extension for format produced by Encode.
func Extension(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}
