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

// Package pdf implements a minimal PDF 1.7 writer, just functional
// enough to create a PDF file containing one raster image per page,
// with each page sized and the image placed independently.
//
// It follows the standard “PDF 32000-1:2008 PDF 1.7”:
// https://www.adobe.com/content/dam/Adobe/en/devnet/acrobat/pdfs/PDF32000_2008.pdf
package pdf

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Stream filters understood by Image.
const (
	DCTDecode   = "DCTDecode"
	FlateDecode = "FlateDecode"
)

func dateString(t time.Time) string {
	return "D:" + t.Format("20060102150405-07'00'")
}

// Number formats f as a PDF real with at most four decimal places.
func Number(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
}

// ObjectID is a PDF object id.
type ObjectID int

// String implements fmt.Stringer.
func (o ObjectID) String() string {
	return fmt.Sprintf("%d 0 R", int(o))
}

// Object is implemented by all PDF objects.
type Object interface {
	// Objects returns all Objects which should be encoded into the
	// PDF file.
	Objects() []Object

	// Encode encodes the object into the PDF file w.
	Encode(w io.Writer, ids map[string]ObjectID) error

	// SetID updates the object id.
	SetID(id ObjectID)

	// Name returns the human-readable object name.
	Name() string

	fmt.Stringer
}

// Common represents a PDF object.
type Common struct {
	ObjectName string
	ID         ObjectID
	Stream     []byte
}

// String implements fmt.Stringer.
func (c *Common) String() string {
	return c.ID.String()
}

// SetID implements Object.
func (c *Common) SetID(id ObjectID) {
	c.ID = id
}

// Name implements Object.
func (c *Common) Name() string {
	return c.ObjectName
}

// Objects implements Object.
func (c *Common) Objects() []Object {
	return []Object{c}
}

// Encode implements Object.
func (c *Common) Encode(w io.Writer, ids map[string]ObjectID) error {
	_, err := fmt.Fprintf(w, `
%d 0 obj
<<
  /Length %d
>>
stream
%s
endstream
endobj`, c.ID, len(c.Stream), c.Stream)
	return err
}

// DocumentInfo represents a PDF document information object.
type DocumentInfo struct {
	Common

	CreationDate time.Time
	Producer     string

	// FileID becomes the trailer /ID entry unless it is all zeros.
	FileID [16]byte
}

// Objects implements Object.
func (d *DocumentInfo) Objects() []Object {
	return []Object{d}
}

// Encode implements Object.
func (d *DocumentInfo) Encode(w io.Writer, ids map[string]ObjectID) error {
	_, err := fmt.Fprintf(w, `
%d 0 obj
<<
  /CreationDate (%s)
  /Producer (%s)
>>
endobj`, int(d.ID), dateString(d.CreationDate), d.Producer)
	return err
}

// Catalog represents a PDF catalog object.
type Catalog struct {
	Common
	Pages Object // Pages
}

// Objects implements Object.
func (r *Catalog) Objects() []Object {
	return append([]Object{r}, r.Pages.Objects()...)
}

// Encode implements Object.
func (r *Catalog) Encode(w io.Writer, ids map[string]ObjectID) error {
	_, err := fmt.Fprintf(w, `
%d 0 obj
<<
  /Type /Catalog
  /Pages %v
>>
endobj`, int(r.ID), r.Pages)
	return err
}

// Pages represents a PDF pages object
type Pages struct {
	Common
	Kids []Object // Page
}

// Objects implements Object.
func (p *Pages) Objects() []Object {
	result := []Object{p}
	for _, o := range p.Kids {
		result = append(result, o.Objects()...)
	}
	return result
}

// Encode implements Object.
func (p *Pages) Encode(w io.Writer, ids map[string]ObjectID) error {
	_, err := fmt.Fprintf(w, `
%d 0 obj
<<
  /Kids %v
  /Type /Pages
  /Count %d
>>
endobj`, int(p.ID), p.Kids, len(p.Kids))
	return err
}

// MediaBox is a page size in points, anchored at the origin.
type MediaBox struct {
	Width, Height float64
}

// String returns the PDF array form of the box.
func (m MediaBox) String() string {
	return fmt.Sprintf("[ 0 0 %s %s ]", Number(m.Width), Number(m.Height))
}

// Page represents a PDF page object.
type Page struct {
	Common

	MediaBox MediaBox

	Resources []Object // Image
	Contents  []Object // Common (streams)

	// Thumb is an optional thumbnail Image.
	Thumb Object

	// Parent contains the human-readable name of the parent object,
	// which will be translated into an object ID when encoding.
	Parent string
}

// Objects implements Object.
func (p *Page) Objects() []Object {
	result := []Object{p}
	for _, o := range p.Resources {
		result = append(result, o.Objects()...)
	}
	for _, o := range p.Contents {
		result = append(result, o.Objects()...)
	}
	if p.Thumb != nil {
		result = append(result, p.Thumb.Objects()...)
	}
	return result
}

// Encode implements Object.
func (p *Page) Encode(w io.Writer, ids map[string]ObjectID) error {
	xObjects := make([]string, len(p.Resources))
	for idx, o := range p.Resources {
		xObjects[idx] = fmt.Sprintf("/%s %v", o.Name(), ids[o.Name()])
	}
	var thumb string
	if p.Thumb != nil {
		thumb = fmt.Sprintf("\n  /Thumb %v", p.Thumb)
	}
	_, err := fmt.Fprintf(w, `
%d 0 obj
<<
  /Resources <<
    /XObject <<
%s
    >>
  >>
  /Contents %v
  /Parent %v
  /Type /Page
  /MediaBox %v%s
>>
endobj`, int(p.ID), strings.Join(xObjects, "\n"), p.Contents, ids[p.Parent], p.MediaBox, thumb)
	return err
}

// Image represents a PDF image XObject. Stream holds the bytes as
// encoded by Filter, e.g. a complete JPEG file for DCTDecode, or the raw
// samples if Filter is empty.
type Image struct {
	Common

	Width, Height int

	// ColorSpace is a device color space name without the leading
	// slash, e.g. DeviceRGB or DeviceGray.
	ColorSpace string

	BitsPerComponent int
	Filter           string
}

// Objects implements Object.
func (i *Image) Objects() []Object { return []Object{i} }

// Encode implements Object.
func (i *Image) Encode(w io.Writer, ids map[string]ObjectID) error {
	bpc := i.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	var filter string
	if i.Filter != "" {
		filter = fmt.Sprintf("\n  /Filter /%s", i.Filter)
	}
	_, err := fmt.Fprintf(w, `
%d 0 obj
<<
  /Subtype /Image
  /Type /XObject
  /Width %d
  /Height %d%s
  /Length %d
  /BitsPerComponent %d
  /ColorSpace /%s
>>
stream
%s
endstream
endobj`, int(i.Common.ID), i.Width, i.Height, filter, len(i.Common.Stream), bpc, i.ColorSpace, i.Common.Stream)
	return err
}

// DrawImage returns a content stream painting the image XObject name
// into the rectangle with lower-left corner (x, y) and the given size.
func DrawImage(name string, x, y, width, height float64) []byte {
	return []byte(fmt.Sprintf("q %s 0 0 %s %s %s cm /%s Do Q\n",
		Number(width), Number(height), Number(x), Number(y), name))
}

type countingWriter struct {
	cnt int
	w   io.Writer
}

func (cw *countingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	cw.cnt += n
	return n, err
}

// Encoder is a PDF writer.
type Encoder struct {
	w *countingWriter
}

// NewEncoder returns a ready-to-use Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w: &countingWriter{w: w},
	}
}

// writeXrefTable writes a cross-reference table to e.w. See also “PDF
// 32000-1:2008 PDF 1.7” section “7.5.4 Cross-Reference Table”
func (e *Encoder) writeXrefTable(objects []Object, xrefOffsets []int) error {
	if _, err := fmt.Fprintf(e.w, "\nxref\n0 %d\n", len(objects)+1); err != nil {
		return err
	}

	// index 0 can never point to a valid Object, so print an invalid entry:
	if _, err := fmt.Fprintf(e.w, "%010d %05d %s \n", 0, 65535, "f"); err != nil {
		return err
	}

	const generation = 0
	for _, offset := range xrefOffsets {
		if _, err := fmt.Fprintf(e.w, "%010d %05d %s \n", offset, generation, "n"); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the PDF file represented by the specified catalog.
func (e *Encoder) Encode(r *Catalog, info *DocumentInfo) error {
	// Byte sequence 0xE2E3CFD3 marks the file as binary, as recommended
	// by “Developing with PDF”, Chapter 1.
	if _, err := e.w.Write(append([]byte("%PDF-1.7\n%"), 0xe2, 0xe3, 0xcf, 0xd3)); err != nil {
		return err
	}

	objects := append(r.Objects(), info.Objects()...)

	// Assign ids from 1 to n and store them in a lookup table (some
	// Objects need to resolve name references when encoding).
	ids := make(map[string]ObjectID, len(objects))
	for idx, obj := range objects {
		id := ObjectID(idx + 1)
		obj.SetID(id)
		ids[obj.Name()] = id
	}

	// Every object starts with a newline, hence the +1.
	xrefOffsets := make([]int, len(objects))
	for idx, obj := range objects {
		xrefOffsets[idx] = e.w.cnt + 1
		if err := obj.Encode(e.w, ids); err != nil {
			return err
		}
	}

	// The xref table, too, starts with a newline.
	xrefOffset := e.w.cnt + 1

	if err := e.writeXrefTable(objects, xrefOffsets); err != nil {
		return err
	}

	var fileID string
	if info.FileID != ([16]byte{}) {
		fileID = fmt.Sprintf("  /ID [<%x> <%x>]\n", info.FileID, info.FileID)
	}
	if _, err := fmt.Fprintf(e.w, `trailer
<<
  /Root %v
  /Size %d
  /Info %v
%s>>
startxref
%d
%%%%EOF
`, ids[r.Name()], len(objects)+1, ids[info.Name()], fileID, xrefOffset); err != nil {
		return err
	}

	return nil
}
