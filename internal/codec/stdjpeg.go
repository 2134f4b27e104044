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

//go:build !(turbojpeg && arm64)

package codec

import (
	"image"
	"image/jpeg"
	"io"
)

// image/jpeg always writes the standard Huffman tables, so opts.Optimize has
// no effect here.
func encodeJPEG(w io.Writer, img image.Image, opts Options) error {
	return jpeg.Encode(w, img, &jpeg.Options{
		Quality: opts.Quality,
	})
}

func encodedComponents(img image.Image) int {
	return components(img)
}
