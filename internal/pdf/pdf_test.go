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

package pdf_test

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/pdfzen/pdfzen/internal/pdf"
)

func twoPageDocument() (*pdf.Catalog, *pdf.DocumentInfo) {
	var kids []pdf.Object
	for idx, box := range []pdf.MediaBox{
		{Width: 612, Height: 792},
		{Width: 800, Height: 600},
	} {
		name := fmt.Sprintf("img%d", idx)
		kids = append(kids, &pdf.Page{
			Common:   pdf.Common{ObjectName: fmt.Sprintf("page%d", idx)},
			MediaBox: box,
			Resources: []pdf.Object{
				&pdf.Image{
					Common: pdf.Common{
						ObjectName: name,
						Stream:     []byte("ß"),
					},
					Width:      4,
					Height:     3,
					ColorSpace: "DeviceRGB",
					Filter:     pdf.DCTDecode,
				},
			},
			Parent: "pages",
			Contents: []pdf.Object{
				&pdf.Common{
					ObjectName: fmt.Sprintf("content%d", idx),
					Stream:     pdf.DrawImage(name, 0, 0, box.Width, box.Height),
				},
			},
		})
	}
	doc := &pdf.Catalog{
		Common: pdf.Common{ObjectName: "catalog"},
		Pages: &pdf.Pages{
			Common: pdf.Common{ObjectName: "pages"},
			Kids:   kids,
		},
	}
	info := &pdf.DocumentInfo{
		Common:       pdf.Common{ObjectName: "info"},
		CreationDate: time.Unix(1493650928, 0).UTC(),
		Producer:     "pdfzen",
		FileID:       [16]byte{0xde, 0xad, 0xbe, 0xef},
	}
	return doc, info
}

func TestXrefOffsets(t *testing.T) {
	doc, info := twoPageDocument()
	var buf bytes.Buffer
	if err := pdf.NewEncoder(&buf).Encode(doc, info); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()

	if !bytes.HasPrefix(b, []byte("%PDF-1.7\n")) {
		t.Fatalf("unexpected header: %q", b[:16])
	}

	m := regexp.MustCompile(`startxref\n(\d+)\n%%EOF\n$`).FindSubmatch(b)
	if m == nil {
		t.Fatalf("startxref not found")
	}
	xref, err := strconv.Atoi(string(m[1]))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b[xref:], []byte("xref\n")) {
		t.Fatalf("startxref %d does not point to the xref table: %q", xref, b[xref:xref+10])
	}

	entries := regexp.MustCompile(`(?m)^(\d{10}) 00000 n $`).FindAllSubmatch(b[xref:], -1)
	// catalog, pages, 2 × (page, image, content), info
	if got, want := len(entries), 9; got != want {
		t.Fatalf("unexpected number of xref entries: got %d, want %d", got, want)
	}
	for idx, entry := range entries {
		offset, err := strconv.Atoi(string(entry[1]))
		if err != nil {
			t.Fatal(err)
		}
		want := fmt.Sprintf("%d 0 obj\n", idx+1)
		if got := string(b[offset : offset+len(want)]); got != want {
			t.Errorf("xref entry %d: got %q at offset %d, want %q", idx+1, got, offset, want)
		}
	}
}

func TestPageGeometry(t *testing.T) {
	doc, info := twoPageDocument()
	var buf bytes.Buffer
	if err := pdf.NewEncoder(&buf).Encode(doc, info); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"/MediaBox [ 0 0 612 792 ]",
		"/MediaBox [ 0 0 800 600 ]",
		"q 612 0 0 792 0 0 cm /img0 Do Q",
		"/Filter /DCTDecode",
		"/ColorSpace /DeviceRGB",
		"/Count 2",
		"/ID [<deadbeef000000000000000000000000> <deadbeef000000000000000000000000>]",
	} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestNumber(t *testing.T) {
	for _, test := range []struct {
		in   float64
		want string
	}{
		{595.28, "595.28"},
		{612, "612"},
		{0.1 + 0.2, "0.3"},
		{12.345678, "12.3457"},
		{-3.5, "-3.5"},
	} {
		if got := pdf.Number(test.in); got != test.want {
			t.Errorf("Number(%v) = %q, want %q", test.in, got, test.want)
		}
	}
}

func ExampleDrawImage() {
	fmt.Print(string(pdf.DrawImage("scan0", 10.5, 20, 595.28, 841.89)))
	// Output:
	// q 595.28 0 0 841.89 10.5 20 cm /scan0 Do Q
}
