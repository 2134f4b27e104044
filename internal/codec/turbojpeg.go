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

//go:build turbojpeg && arm64

package codec

import (
	"image"
	"image/color"
	"io"

	"github.com/stapelberg/turbojpeg/jpeg"
)

// encodeJPEG converts img to packed RGB rows and hands them to libjpeg-turbo,
// which always produces a 3 component file.
// opts.Optimize has no effect: the encoder does not expose Huffman table
// optimization.
func encodeJPEG(w io.Writer, img image.Image, opts Options) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	enc, err := jpeg.NewRGBEncoder(w, &jpeg.EncoderOptions{
		Quality: opts.Quality,
	}, width, height)
	if err != nil {
		return err
	}
	stride := 3 * width
	row := make([]byte, stride)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			off := (x - bounds.Min.X) * 3
			row[off+0] = c.R
			row[off+1] = c.G
			row[off+2] = c.B
		}
		enc.EncodePixels(row, 1)
	}
	return enc.Flush()
}

func encodedComponents(image.Image) int {
	return 3
}
