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

// Package compose assembles image files into a PDF document, one image per
// page.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/renameio"
	"github.com/google/uuid"
	"github.com/pdfzen/pdfzen/internal/codec"
	"github.com/pdfzen/pdfzen/internal/document"
	"github.com/pdfzen/pdfzen/internal/options"
	"github.com/pdfzen/pdfzen/internal/outcome"
	"github.com/pdfzen/pdfzen/internal/pdf"
	"github.com/pdfzen/pdfzen/internal/scratch"
	"golang.org/x/net/trace"
)

// JPEGQuality is used for the intermediate JPEG of every page image.
const JPEGQuality = 95

// Fit sizes every page to its image, at one point per pixel.
const Fit = "fit"

// PageSizes are the named fixed page sizes, in points.
var PageSizes = map[string]document.Geometry{
	"a3":     {Width: 841.89, Height: 1190.55},
	"a4":     {Width: 595.28, Height: 841.89},
	"a5":     {Width: 419.53, Height: 595.28},
	"letter": {Width: 612, Height: 792},
	"legal":  {Width: 612, Height: 1008},
}

// PageSizeNames returns the accepted page size names.
func PageSizeNames() []string {
	return []string{Fit, "a4", "letter", "legal", "a3", "a5"}
}

// Placement positions an image on a page. X and Y are the offset of the
// lower left corner.
type Placement struct {
	Scale         float64
	X, Y          float64
	Width, Height float64
}

// Place scales an image of src pixels uniformly to the largest size fitting
// page and centers it.
func Place(page document.Geometry, src image.Point) Placement {
	sw, sh := float64(src.X), float64(src.Y)
	scale := math.Min(page.Width/sw, page.Height/sh)
	w, h := sw*scale, sh*scale
	return Placement{
		Scale:  scale,
		X:      (page.Width - w) / 2,
		Y:      (page.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

// Options configures a composition.
type Options struct {
	// Inputs are image file paths, in page order.
	Inputs []string
	Output string

	// PageSize is Fit or a key of PageSizes, in any case. Empty means Fit.
	PageSize string

	// TempDir holds the intermediate JPEG files. Empty means the default
	// temporary directory.
	TempDir string
}

// SplitInputs splits a pipe-delimited list of paths.
func SplitInputs(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, "|")
}

// Result describes the written document.
type Result struct {
	OutputPath string `json:"outputPath"`
	TotalPages int    `json:"totalPages"`
}

type composer struct {
	tr      trace.Trace
	sum     *outcome.Summary
	size    string
	tempDir string
	pages   []pdf.Object
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := codec.Decode(f)
	return img, err
}

// encodeScratch writes img as JPEG into a scratch file and returns the file
// contents. The scratch file is removed before encodeScratch returns.
func (c *composer) encodeScratch(img image.Image) ([]byte, error) {
	tmp, err := scratch.Create(c.tempDir, ".jpg")
	if err != nil {
		return nil, err
	}
	defer tmp.Release()
	if err := codec.EncodeTo(tmp, img, codec.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return os.ReadFile(tmp.Path())
}

// add appends a page for the image at path. Inputs which cannot be read are
// recorded and skipped; all other errors are returned.
func (c *composer) add(path string) error {
	img, err := decodeFile(path)
	if err != nil {
		c.sum.Failed(path, err)
		return nil
	}
	flat := codec.Flatten(img)

	b, err := c.encodeScratch(flat)
	if err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %v", path, err)
	}
	cs := "DeviceRGB"
	if cfg.ColorModel == color.GrayModel {
		cs = "DeviceGray"
	}

	src := image.Pt(cfg.Width, cfg.Height)
	page := document.Geometry{Width: float64(src.X), Height: float64(src.Y)}
	pl := Placement{Scale: 1, Width: page.Width, Height: page.Height}
	if c.size != Fit {
		page = PageSizes[c.size]
		pl = Place(page, src)
	}
	c.tr.LazyPrintf("%s: %dx%d px, page %v, scale %.4f", path, src.X, src.Y, page, pl.Scale)

	idx := len(c.pages)
	name := fmt.Sprintf("img%d", idx)
	c.pages = append(c.pages, &pdf.Page{
		Common:   pdf.Common{ObjectName: fmt.Sprintf("page%d", idx)},
		MediaBox: pdf.MediaBox{Width: page.Width, Height: page.Height},
		Resources: []pdf.Object{
			&pdf.Image{
				Common: pdf.Common{
					ObjectName: name,
					Stream:     b,
				},
				Width:      src.X,
				Height:     src.Y,
				ColorSpace: cs,
				Filter:     pdf.DCTDecode,
			},
		},
		Parent: "pages",
		Contents: []pdf.Object{
			&pdf.Common{
				ObjectName: fmt.Sprintf("content%d", idx),
				Stream:     pdf.DrawImage(name, pl.X, pl.Y, pl.Width, pl.Height),
			},
		},
	})
	c.sum.Processed(path)
	return nil
}

func (c *composer) save(path string) error {
	doc := &pdf.Catalog{
		Common: pdf.Common{ObjectName: "catalog"},
		Pages: &pdf.Pages{
			Common: pdf.Common{ObjectName: "pages"},
			Kids:   c.pages,
		},
	}
	info := &pdf.DocumentInfo{
		Common:       pdf.Common{ObjectName: "info"},
		CreationDate: time.Now(),
		Producer:     "pdfzen",
		FileID:       [16]byte(uuid.New()),
	}

	o, err := renameio.TempFile("", path)
	if err != nil {
		return err
	}
	defer o.Cleanup()
	if err := pdf.NewEncoder(o).Encode(doc, info); err != nil {
		return err
	}
	if err := o.Chmod(0644); err != nil {
		return err
	}
	return o.CloseAtomicallyReplace()
}

// Run writes a document with one page per readable input image to
// opts.Output.
func Run(tr trace.Trace, opts Options) (*Result, error) {
	size := Fit
	if opts.PageSize != "" {
		var err error
		size, err = options.PageSize(opts.PageSize, PageSizeNames())
		if err != nil {
			return nil, err
		}
	}
	c := &composer{
		tr:      tr,
		sum:     outcome.NewSummary(tr),
		size:    size,
		tempDir: opts.TempDir,
	}
	for _, path := range opts.Inputs {
		if err := c.add(path); err != nil {
			return nil, err
		}
	}
	c.sum.Log("compose")
	if len(c.pages) == 0 {
		return nil, errors.New("cannot save with zero pages: none of the input images could be read")
	}
	if err := c.save(opts.Output); err != nil {
		return nil, fmt.Errorf("saving %s: %v", opts.Output, err)
	}
	return &Result{
		OutputPath: opts.Output,
		TotalPages: len(c.pages),
	}, nil
}
