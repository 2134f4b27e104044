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

// Package rasterize renders document pages into image files.
package rasterize

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/renameio"
	"github.com/pdfzen/pdfzen/internal/codec"
	"github.com/pdfzen/pdfzen/internal/document"
	"github.com/pdfzen/pdfzen/internal/options"
	"github.com/pdfzen/pdfzen/internal/outcome"
	"golang.org/x/net/trace"
)

// JPEGQuality is used for jpg and jpeg output.
const JPEGQuality = 95

// Renderer is an open document. *document.Rendered implements Renderer.
type Renderer interface {
	PageCount() int
	PageSize(idx int) (document.Geometry, error)
	Render(idx int, zoom float64) (*image.RGBA, error)
	Close() error
}

// Options configures a rasterization.
type Options struct {
	Input     string
	OutputDir string

	// Format is the output file extension. jpg and jpeg (in any case)
	// select JPEG encoding, everything else PNG.
	Format string

	DPI int

	// Pages is a comma-separated list of 1-based page numbers. Empty
	// selects all pages.
	Pages string
}

// Result lists the written image files in page selection order.
type Result struct {
	OutputFiles []string `json:"outputFiles"`
	TotalImages int      `json:"totalImages"`
}

// Transform maps page space (points) to pixels.
type Transform struct {
	Zoom float64
}

// NewTransform returns the transform for rendering at dpi.
func NewTransform(dpi int) Transform {
	return Transform{Zoom: float64(dpi) / 72.0}
}

// PixelSize returns the rendered pixel dimensions of a page of size g.
func (t Transform) PixelSize(g document.Geometry) image.Point {
	return image.Pt(
		int(math.Round(g.Width*t.Zoom)),
		int(math.Round(g.Height*t.Zoom)))
}

// ParsePages converts a comma-separated list of 1-based page numbers into
// 0-based page indices within [0, pageCount), in list order. Empty,
// non-numeric, out-of-range and repeated entries are dropped and recorded in
// sum (if non-nil). An empty list selects all pages.
func ParsePages(list string, pageCount int, sum *outcome.Summary) []int {
	if strings.TrimSpace(list) == "" {
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i
		}
		return all
	}
	skip := func(entry, reason string) {
		if sum != nil {
			sum.Ineligible(fmt.Sprintf("page %q", entry), reason)
		}
	}
	var selected []int
	seen := bitset.New(uint(pageCount))
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		n, err := strconv.Atoi(entry)
		if err != nil {
			skip(entry, "not a number")
			continue
		}
		idx := n - 1
		if idx < 0 || idx >= pageCount {
			skip(entry, fmt.Sprintf("out of range [1, %d]", pageCount))
			continue
		}
		if seen.Test(uint(idx)) {
			skip(entry, "duplicate")
			continue
		}
		seen.Set(uint(idx))
		selected = append(selected, idx)
	}
	return selected
}

// OutputPath returns the path of the image file for page idx (0-based).
func OutputPath(input, outputDir, format string, idx int) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outputDir, fmt.Sprintf("%s_page_%d.%s", stem, idx+1, strings.ToLower(format)))
}

// writeImage encodes img as format, which options.Format has normalized.
func writeImage(path, format string, img image.Image) error {
	o, err := renameio.TempFile("", path)
	if err != nil {
		return err
	}
	defer o.Cleanup()
	if format != "png" {
		if err := codec.EncodeTo(o, img, codec.Options{Quality: JPEGQuality}); err != nil {
			return err
		}
	} else {
		if err := png.Encode(o, img); err != nil {
			return err
		}
	}
	if err := o.Chmod(0644); err != nil {
		return err
	}
	return o.CloseAtomicallyReplace()
}

// Run opens opts.Input and renders the selected pages.
func Run(tr trace.Trace, opts Options) (*Result, error) {
	doc, err := document.OpenRendered(opts.Input)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return Convert(tr, doc, opts)
}

// Convert renders the selected pages of doc into opts.OutputDir. Any error
// aborts the conversion. Convert does not close doc.
func Convert(tr trace.Trace, doc Renderer, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = "png"
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, err
	}

	sum := outcome.NewSummary(tr)
	pages := ParsePages(opts.Pages, doc.PageCount(), sum)
	xf := NewTransform(opts.DPI)
	encoding := options.Format(opts.Format)
	tr.LazyPrintf("rendering %d of %d pages at zoom %v as %s", len(pages), doc.PageCount(), xf.Zoom, encoding)

	res := &Result{OutputFiles: []string{}}
	for _, idx := range pages {
		g, err := doc.PageSize(idx)
		if err != nil {
			return nil, err
		}
		img, err := doc.Render(idx, xf.Zoom)
		if err != nil {
			return nil, err
		}
		if got, want := img.Bounds().Size(), xf.PixelSize(g); got != want {
			tr.LazyPrintf("page %d: %v pt rendered as %v px, expected %v px", idx+1, g, got, want)
		}
		path := OutputPath(opts.Input, opts.OutputDir, opts.Format, idx)
		if err := writeImage(path, encoding, img); err != nil {
			return nil, fmt.Errorf("writing %s: %v", path, err)
		}
		sum.Processed(fmt.Sprintf("page %d", idx+1))
		res.OutputFiles = append(res.OutputFiles, path)
	}
	res.TotalImages = len(res.OutputFiles)
	sum.Log("rasterize")
	return res, nil
}
