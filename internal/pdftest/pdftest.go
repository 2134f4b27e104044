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

// Package pdftest writes small PDF documents for use in tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/pdfzen/pdfzen/internal/codec"
	"github.com/pdfzen/pdfzen/internal/pdf"
)

// Page describes one page of a test document.
type Page struct {
	Size pdf.MediaBox

	// Image, if non-nil, is drawn to fill the page.
	Image image.Image

	// JPEG embeds Image with DCTDecode instead of FlateDecode.
	JPEG bool

	// Extra images are embedded as given and drawn in the lower left
	// corner. Encode assigns their object names.
	Extra []*pdf.Image

	// Thumb, if non-nil, becomes the page thumbnail.
	Thumb image.Image
}

// Corrupt returns a small FlateDecode image whose stream is not zlib data.
func Corrupt() *pdf.Image {
	return &pdf.Image{
		Common:     pdf.Common{Stream: []byte("this is not zlib data")},
		Width:      16,
		Height:     16,
		ColorSpace: "DeviceRGB",
		Filter:     pdf.FlateDecode,
	}
}

// Letter returns a blank US Letter page.
func Letter() Page {
	return Page{Size: pdf.MediaBox{Width: 612, Height: 792}}
}

// Noise returns a w×h image of pseudo-random pixels, which compresses
// poorly with lossless methods.
func Noise(w, h int, seed int64) *image.RGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: 0xff,
			})
		}
	}
	return img
}

func rgbSamples(img image.Image) []byte {
	b := img.Bounds()
	samples := make([]byte, 0, 3*b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			samples = append(samples, c.R, c.G, c.B)
		}
	}
	return samples
}

func imageObject(name string, img image.Image, useJPEG bool) (*pdf.Image, error) {
	b := img.Bounds()
	obj := &pdf.Image{
		Common:     pdf.Common{ObjectName: name},
		Width:      b.Dx(),
		Height:     b.Dy(),
		ColorSpace: "DeviceRGB",
	}
	if useJPEG {
		enc, err := codec.Encode(img, codec.Options{Quality: 90})
		if err != nil {
			return nil, err
		}
		obj.Stream = enc.Data
		obj.Filter = pdf.DCTDecode
		return obj, nil
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(rgbSamples(img)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	obj.Stream = buf.Bytes()
	obj.Filter = pdf.FlateDecode
	return obj, nil
}

// Encode returns a PDF document consisting of pages.
func Encode(pages ...Page) ([]byte, error) {
	var kids []pdf.Object
	for idx, p := range pages {
		page := &pdf.Page{
			Common:   pdf.Common{ObjectName: fmt.Sprintf("page%d", idx)},
			MediaBox: p.Size,
			Parent:   "pages",
		}
		content := &pdf.Common{ObjectName: fmt.Sprintf("content%d", idx)}
		if p.Image != nil {
			name := fmt.Sprintf("img%d", idx)
			obj, err := imageObject(name, p.Image, p.JPEG)
			if err != nil {
				return nil, err
			}
			page.Resources = []pdf.Object{obj}
			content.Stream = pdf.DrawImage(name, 0, 0, p.Size.Width, p.Size.Height)
		}
		for n, extra := range p.Extra {
			extra.ObjectName = fmt.Sprintf("extra%d_%d", idx, n)
			page.Resources = append(page.Resources, extra)
			content.Stream = append(content.Stream,
				pdf.DrawImage(extra.ObjectName, 0, 0, float64(extra.Width), float64(extra.Height))...)
		}
		if p.Thumb != nil {
			thumb, err := imageObject(fmt.Sprintf("thumb%d", idx), p.Thumb, false)
			if err != nil {
				return nil, err
			}
			page.Thumb = thumb
		}
		page.Contents = []pdf.Object{content}
		kids = append(kids, page)
	}
	doc := &pdf.Catalog{
		Common: pdf.Common{ObjectName: "catalog"},
		Pages: &pdf.Pages{
			Common: pdf.Common{ObjectName: "pages"},
			Kids:   kids,
		},
	}
	var buf bytes.Buffer
	if err := pdf.NewEncoder(&buf).Encode(doc, &pdf.DocumentInfo{
		Common:       pdf.Common{ObjectName: "info"},
		CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Producer:     "pdftest",
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a PDF document consisting of pages to path, failing t on
// error.
func Write(t testing.TB, path string, pages ...Page) {
	t.Helper()
	b, err := Encode(pages...)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatal(err)
	}
}
