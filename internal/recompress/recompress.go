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

// Package recompress reduces the size of a PDF document by re-encoding its
// large, losslessly compressed raster images as JPEG.
package recompress

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/pdfzen/pdfzen/internal/codec"
	"github.com/pdfzen/pdfzen/internal/document"
	"github.com/pdfzen/pdfzen/internal/outcome"
	"golang.org/x/net/trace"
)

const (
	// Threshold is the size in bytes up to which images are left alone.
	Threshold = 50000

	// JPEGQuality is used for re-encoded images.
	JPEGQuality = 75
)

// Store is an open document. *document.Store implements Store.
type Store interface {
	PageCount() int
	PageImages(idx int) ([]document.ImageObject, error)
	ReplaceImage(id int, enc *codec.Encoded) error
}

// EncodeFunc encodes an image as JPEG.
type EncodeFunc func(image.Image, codec.Options) (*codec.Encoded, error)

// Recompressor re-encodes the images of a Store.
type Recompressor struct {
	// Encode defaults to codec.Encode.
	Encode EncodeFunc
}

func alreadyCompressed(format string) bool {
	switch strings.ToLower(format) {
	case "jpg", "jpeg", "jpx":
		return true
	}
	return false
}

// Replacement returns the new encoding for obj, or nil and the reason why obj
// is left alone. The returned encoding is always smaller than obj.Data.
func (r *Recompressor) Replacement(obj document.ImageObject) (*codec.Encoded, string, error) {
	switch {
	case alreadyCompressed(obj.Format):
		return nil, obj.Format + " is already compressed", nil
	case obj.Mask:
		return nil, "stencil mask", nil
	case len(obj.Data) <= Threshold:
		return nil, fmt.Sprintf("%d bytes, at most %d", len(obj.Data), Threshold), nil
	}
	img, _, err := codec.Decode(bytes.NewReader(obj.Data))
	if err != nil {
		return nil, "", err
	}
	encode := r.Encode
	if encode == nil {
		encode = codec.Encode
	}
	enc, err := encode(codec.Flatten(img), codec.Options{
		Quality:  JPEGQuality,
		Optimize: true,
	})
	if err != nil {
		return nil, "", err
	}
	if len(enc.Data) >= len(obj.Data) {
		return nil, fmt.Sprintf("JPEG is not smaller (%d >= %d bytes)", len(enc.Data), len(obj.Data)), nil
	}
	return enc, "", nil
}

// Process visits the images of every page of st in page order and replaces
// those for which Replacement returns a new encoding. Each image object is
// visited once, even if referenced by multiple pages. Errors are recorded in
// the returned summary and do not stop processing: an image which fails
// leaves its siblings on the same page unaffected.
func (r *Recompressor) Process(tr trace.Trace, st Store) *outcome.Summary {
	sum := outcome.NewSummary(tr)
	visited := bitset.New(0)
	for idx := 0; idx < st.PageCount(); idx++ {
		objs, err := st.PageImages(idx)
		if err != nil {
			sum.Failed(fmt.Sprintf("page %d", idx+1), err)
			continue
		}
		for _, obj := range objs {
			if obj.ID < 0 || visited.Test(uint(obj.ID)) {
				continue
			}
			visited.Set(uint(obj.ID))
			name := fmt.Sprintf("object %d", obj.ID)
			if obj.Err != nil {
				sum.Failed(name, obj.Err)
				continue
			}

			enc, reason, err := r.Replacement(obj)
			if err != nil {
				sum.Failed(name, err)
				continue
			}
			if enc == nil {
				sum.Ineligible(name, reason)
				continue
			}
			if err := st.ReplaceImage(obj.ID, enc); err != nil {
				sum.Failed(name, err)
				continue
			}
			tr.LazyPrintf("object %d: %s %d bytes -> jpeg %d bytes", obj.ID, obj.Format, len(obj.Data), len(enc.Data))
			sum.Processed(name)
		}
	}
	return sum
}

// Ratio returns the size reduction in percent, formatted with two decimals.
func Ratio(originalSize, compressedSize int64) string {
	var ratio float64
	if originalSize > 0 {
		ratio = (1 - float64(compressedSize)/float64(originalSize)) * 100
	}
	return fmt.Sprintf("%.2f%%", ratio)
}

// Options configures a compression.
type Options struct {
	Input, Output string
}

// Result describes the written document.
type Result struct {
	OutputPath       string `json:"outputPath"`
	OriginalSize     int64  `json:"originalSize"`
	CompressedSize   int64  `json:"compressedSize"`
	CompressionRatio string `json:"compressionRatio"`
}

// Run recompresses the images of opts.Input and saves the compacted document
// to opts.Output.
func Run(tr trace.Trace, opts Options) (*Result, error) {
	originalSize, err := document.FileSize(opts.Input)
	if err != nil {
		return nil, err
	}
	st, err := document.OpenStore(opts.Input)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	sum := (&Recompressor{}).Process(tr, st)
	sum.Log("compress")

	if err := st.Save(opts.Output, document.Compact()); err != nil {
		return nil, err
	}
	compressedSize, err := document.FileSize(opts.Output)
	if err != nil {
		return nil, err
	}
	tr.LazyPrintf("%d bytes -> %d bytes", originalSize, compressedSize)
	return &Result{
		OutputPath:       opts.Output,
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		CompressionRatio: Ratio(originalSize, compressedSize),
	}, nil
}
