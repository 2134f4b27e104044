// Copyright 2016 Michael Stapelberg and contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package codec decodes raster images in the formats accepted by pdfzen,
// normalizes their pixel format and encodes them as JPEG.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Options configures the JPEG encoder.
type Options struct {
	// Quality ranges from 1 to 100.
	Quality int

	// Optimize requests optimized Huffman tables where the encoder supports
	// them.
	Optimize bool
}

// Encoded is a JPEG file in memory.
type Encoded struct {
	Data          []byte
	Width, Height int

	// Components is 1 for grayscale and 3 for RGB images.
	Components int
}

// Decode decodes an image in any registered format (png, jpeg, gif, bmp,
// tiff, webp) and returns the format name as reported by image.Decode.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %v", err)
	}
	return img, format, nil
}

// Flatten returns an image which can be encoded as JPEG without losing color
// information: palette images and images with an alpha channel are converted
// to RGB, with the alpha channel dropped and color channels kept as-is. Gray
// images stay gray.
func Flatten(img image.Image) image.Image {
	switch m := img.(type) {
	case *image.Gray, *image.YCbCr, *image.CMYK:
		return img
	case *image.Gray16:
		out := image.NewGray(m.Bounds())
		draw.Draw(out, out.Bounds(), m, m.Bounds().Min, draw.Src)
		return out
	case *image.Paletted:
		return toRGB(m)
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	return toRGB(img)
}

func toRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
		return out
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// NRGBA holds the color channels before alpha premultiplication.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{c.R, c.G, c.B, 0xff})
		}
	}
	return out
}

func components(img image.Image) int {
	if _, ok := img.(*image.Gray); ok {
		return 1
	}
	return 3
}

// Encode JPEG-encodes img into memory.
func Encode(img image.Image, opts Options) (*Encoded, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, img, opts); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return &Encoded{
		Data:       buf.Bytes(),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Components: encodedComponents(img),
	}, nil
}

// EncodeTo JPEG-encodes img into w.
func EncodeTo(w io.Writer, img image.Image, opts Options) error {
	if err := encodeJPEG(w, img, opts); err != nil {
		return fmt.Errorf("encoding JPEG: %v", err)
	}
	return nil
}
