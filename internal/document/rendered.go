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

package document

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// Rendered is an open document which can render its pages.
type Rendered struct {
	path string
	doc  *fitz.Document
}

// OpenRendered opens the document at path for rendering. The caller must
// call Close.
func OpenRendered(path string) (*Rendered, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %v", path, err)
	}
	return &Rendered{path: path, doc: doc}, nil
}

// PageCount returns the number of pages.
func (r *Rendered) PageCount() int {
	return r.doc.NumPage()
}

// PageSize returns the size of page idx (0-based) in whole points; fractions
// are truncated, so an A4 page reports 595×841.
func (r *Rendered) PageSize(idx int) (Geometry, error) {
	bound, err := r.doc.Bound(idx)
	if err != nil {
		return Geometry{}, fmt.Errorf("%s: page %d: %v", r.path, idx+1, err)
	}
	return Geometry{
		Width:  float64(bound.Dx()),
		Height: float64(bound.Dy()),
	}, nil
}

// Render renders page idx (0-based) on a white background, scaling both axes
// by zoom. A zoom of 1 yields one pixel per point.
func (r *Rendered) Render(idx int, zoom float64) (*image.RGBA, error) {
	img, err := r.doc.ImageDPI(idx, zoom*72)
	if err != nil {
		return nil, fmt.Errorf("%s: rendering page %d: %v", r.path, idx+1, err)
	}
	return img, nil
}

// Close implements io.Closer.
func (r *Rendered) Close() error {
	return r.doc.Close()
}
