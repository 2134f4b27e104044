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
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfzen/pdfzen/internal/codec"
	"github.com/pdfzen/pdfzen/internal/document"
	"github.com/pdfzen/pdfzen/internal/pdf"
	"github.com/pdfzen/pdfzen/internal/pdftest"
)

func TestMain(m *testing.M) {
	api.DisableConfigDir()
	os.Exit(m.Run())
}

func writeTwoPages(t *testing.T) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "in.pdf")
	pdftest.Write(t, fn,
		pdftest.Page{
			Size:  pdf.MediaBox{Width: 300, Height: 300},
			Image: pdftest.Noise(300, 300, 1),
		},
		pdftest.Page{
			Size:  pdf.MediaBox{Width: 40, Height: 40},
			Image: pdftest.Noise(40, 40, 2),
			JPEG:  true,
		})
	return fn
}

func TestStorePageImages(t *testing.T) {
	st, err := document.OpenStore(writeTwoPages(t))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if got, want := st.PageCount(), 2; got != want {
		t.Fatalf("PageCount: got %d, want %d", got, want)
	}

	imgs, err := st.PageImages(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(imgs), 1; got != want {
		t.Fatalf("page 1: got %d images, want %d", got, want)
	}
	if got, want := imgs[0].Format, "png"; got != want {
		t.Errorf("page 1: format: got %q, want %q", got, want)
	}
	if got, want := [2]int{imgs[0].Width, imgs[0].Height}, [2]int{300, 300}; got != want {
		t.Errorf("page 1: size: got %v, want %v", got, want)
	}
	if len(imgs[0].Data) <= 50000 {
		t.Errorf("page 1: noise image unexpectedly small: %d bytes", len(imgs[0].Data))
	}

	imgs, err = st.PageImages(1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(imgs), 1; got != want {
		t.Fatalf("page 2: got %d images, want %d", got, want)
	}
	if got, want := imgs[0].Format, "jpg"; got != want {
		t.Errorf("page 2: format: got %q, want %q", got, want)
	}
}

func TestReplaceImage(t *testing.T) {
	st, err := document.OpenStore(writeTwoPages(t))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	imgs, err := st.PageImages(0)
	if err != nil {
		t.Fatal(err)
	}
	id := imgs[0].ID
	enc, err := codec.Encode(image.NewGray(image.Rect(0, 0, 300, 300)), codec.Options{Quality: 75})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.ReplaceImage(id, enc); err != nil {
		t.Fatal(err)
	}
	if err := st.ReplaceImage(1<<20, enc); err == nil {
		t.Fatalf("ReplaceImage(unknown id) unexpectedly succeeded")
	}

	out := filepath.Join(t.TempDir(), "out.pdf")
	if err := st.Save(out, document.Compact()); err != nil {
		t.Fatal(err)
	}

	n, err := api.PageCountFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := n, 2; got != want {
		t.Fatalf("PageCountFile(%s): got %d, want %d", out, got, want)
	}

	reopened, err := document.OpenStore(out)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	imgs, err = reopened.PageImages(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(imgs), 1; got != want {
		t.Fatalf("got %d images, want %d", got, want)
	}
	if got, want := imgs[0].Format, "jpg"; got != want {
		t.Fatalf("replaced image: format: got %q, want %q", got, want)
	}
}

func TestSaveUnwritable(t *testing.T) {
	st, err := document.OpenStore(writeTwoPages(t))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	out := filepath.Join(t.TempDir(), "missing", "out.pdf")
	if err := st.Save(out, document.Compact()); err == nil {
		t.Fatalf("Save(%s) unexpectedly succeeded", out)
	}
}

func TestOpenStoreMissing(t *testing.T) {
	if _, err := document.OpenStore(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatalf("OpenStore(missing) unexpectedly succeeded")
	}
}

func TestPageImagesBrokenSibling(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "in.pdf")
	pdftest.Write(t, fn, pdftest.Page{
		Size:  pdf.MediaBox{Width: 300, Height: 300},
		Image: pdftest.Noise(300, 300, 1),
		Extra: []*pdf.Image{pdftest.Corrupt()},
	})
	st, err := document.OpenStore(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	imgs, err := st.PageImages(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(imgs), 2; got != want {
		t.Fatalf("got %d images, want %d", got, want)
	}
	var good, broken int
	for _, img := range imgs {
		if img.Err != nil {
			broken++
			continue
		}
		good++
		if got, want := [2]int{img.Width, img.Height}, [2]int{300, 300}; got != want {
			t.Errorf("object %d: size: got %v, want %v", img.ID, got, want)
		}
		if len(img.Data) <= 50000 {
			t.Errorf("object %d: noise image unexpectedly small: %d bytes", img.ID, len(img.Data))
		}
	}
	if good != 1 || broken != 1 {
		t.Fatalf("got %d extracted and %d failed images, want 1 and 1", good, broken)
	}
}

func TestPageImagesWithoutThumbnail(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "in.pdf")
	pdftest.Write(t, fn, pdftest.Page{
		Size:  pdf.MediaBox{Width: 40, Height: 40},
		Image: pdftest.Noise(40, 40, 1),
		Thumb: pdftest.Noise(200, 200, 2),
	})
	st, err := document.OpenStore(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	imgs, err := st.PageImages(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(imgs), 1; got != want {
		t.Fatalf("got %d images, want %d (thumbnails are not page images)", got, want)
	}
	if got, want := imgs[0].Width, 40; got != want {
		t.Errorf("width: got %d, want %d", got, want)
	}
}

func TestPageImagesOutOfRange(t *testing.T) {
	st, err := document.OpenStore(writeTwoPages(t))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, err := st.PageImages(2); err == nil {
		t.Fatalf("PageImages(2) unexpectedly succeeded")
	}
}
