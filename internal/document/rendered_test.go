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

package document_test

import (
	"path/filepath"
	"testing"

	"github.com/pdfzen/pdfzen/internal/document"
	"github.com/pdfzen/pdfzen/internal/pdf"
	"github.com/pdfzen/pdfzen/internal/pdftest"
)

func TestRender(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "letter.pdf")
	pdftest.Write(t, fn, pdftest.Letter(), pdftest.Letter())

	doc, err := document.OpenRendered(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if got, want := doc.PageCount(), 2; got != want {
		t.Fatalf("PageCount: got %d, want %d", got, want)
	}
	size, err := doc.PageSize(1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := size, (document.Geometry{Width: 612, Height: 792}); got != want {
		t.Fatalf("PageSize: got %v, want %v", got, want)
	}

	for _, test := range []struct {
		zoom float64
		want [2]int
	}{
		{1, [2]int{612, 792}},
		{2, [2]int{1224, 1584}},
	} {
		img, err := doc.Render(0, test.zoom)
		if err != nil {
			t.Fatal(err)
		}
		b := img.Bounds()
		if got := [2]int{b.Dx(), b.Dy()}; got != test.want {
			t.Errorf("Render(zoom=%v): got %v, want %v", test.zoom, got, test.want)
		}
	}
}

func TestPageSizeTruncates(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "a4.pdf")
	pdftest.Write(t, fn, pdftest.Page{Size: pdf.MediaBox{Width: 595.28, Height: 841.89}})

	doc, err := document.OpenRendered(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	size, err := doc.PageSize(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := size, (document.Geometry{Width: 595, Height: 841}); got != want {
		t.Fatalf("PageSize: got %v, want %v", got, want)
	}
}
