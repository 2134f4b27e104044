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
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/pdfzen/pdfzen/internal/codec"
)

// ImageObject is an embedded raster image as extracted from a document.
type ImageObject struct {
	// ID is the PDF object number, shared by all pages referencing the
	// image.
	ID int

	// Format is the file type of Data: jpg, jpx, png or tif.
	Format string

	Data          []byte
	Width, Height int

	// Mask is true for stencil masks (/ImageMask true).
	Mask bool

	// Err is set if the image could not be extracted. Only ID is valid
	// then.
	Err error
}

// Store is an open document whose objects can be inspected and replaced by
// object number.
type Store struct {
	path string
	ctx  *model.Context
}

// OpenStore reads and validates the document at path.
func OpenStore(path string) (*Store, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	// Image extraction relies on the page image index built by the
	// optimizer.
	if err := api.OptimizeContext(ctx); err != nil {
		return nil, fmt.Errorf("%s: optimizing: %v", path, err)
	}
	return &Store{path: path, ctx: ctx}, nil
}

// PageCount returns the number of pages.
func (s *Store) PageCount() int {
	return s.ctx.PageCount
}

func (s *Store) intEntry(sd *types.StreamDict, key string) (int, error) {
	obj, ok := sd.Find(key)
	if !ok {
		return 0, fmt.Errorf("missing /%s", key)
	}
	i, err := s.ctx.DereferenceInteger(obj)
	if err != nil {
		return 0, fmt.Errorf("/%s: %v", key, err)
	}
	if i == nil {
		return 0, fmt.Errorf("missing /%s", key)
	}
	return i.Value(), nil
}

// image extracts image object id as referenced by page pageNr (1-based).
func (s *Store) image(pageNr, id int) ImageObject {
	obj := ImageObject{ID: id}
	var (
		sd       *types.StreamDict
		resource string
	)
	if o, ok := s.ctx.Optimize.ImageObjects[id]; ok && o != nil {
		sd = o.ImageDict
		resource = o.ResourceNames[pageNr-1]
	}
	if sd == nil {
		_, dict, err := s.streamDict(id)
		if err != nil {
			obj.Err = err
			return obj
		}
		sd = &dict
	}

	if im := sd.BooleanEntry("ImageMask"); im != nil && *im {
		obj.Mask = true
	}
	var err error
	if obj.Width, err = s.intEntry(sd, "Width"); err != nil {
		obj.Err = err
		return obj
	}
	if obj.Height, err = s.intEntry(sd, "Height"); err != nil {
		obj.Err = err
		return obj
	}

	img, err := pdfcpu.ExtractImage(s.ctx, sd, false, resource, id, false)
	if err != nil {
		obj.Err = err
		return obj
	}
	if img == nil {
		// unsupported filter, left as is
		return obj
	}
	obj.Format = img.FileType
	if img.Reader != nil {
		b, err := io.ReadAll(img)
		if err != nil {
			obj.Err = err
			return obj
		}
		obj.Data = b
	}
	return obj
}

// PageImages returns the images referenced by page idx (0-based), sorted by
// object number. Thumbnails are not included. An image which cannot be
// extracted is returned with its Err field set and does not affect the
// others.
func (s *Store) PageImages(idx int) ([]ImageObject, error) {
	if idx < 0 || idx >= s.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range [1, %d]", idx+1, s.ctx.PageCount)
	}
	ids := pdfcpu.ImageObjNrs(s.ctx, idx+1)
	sort.Ints(ids)
	result := make([]ImageObject, 0, len(ids))
	for _, id := range ids {
		obj := s.image(idx+1, id)
		if obj.Err != nil {
			obj.Err = fmt.Errorf("page %d: object %d: %v", idx+1, id, obj.Err)
		}
		result = append(result, obj)
	}
	return result, nil
}

func (s *Store) streamDict(id int) (*model.XRefTableEntry, types.StreamDict, error) {
	entry, ok := s.ctx.FindTableEntryLight(id)
	if !ok || entry.Free || entry.Object == nil {
		return nil, types.StreamDict{}, fmt.Errorf("object %d not found", id)
	}
	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return nil, types.StreamDict{}, fmt.Errorf("object %d: got %T, want stream", id, entry.Object)
	}
	return entry, sd, nil
}

// ReplaceImage replaces the stream of image object id with the JPEG file
// enc, keeping the object number (and thereby all references to it).
func (s *Store) ReplaceImage(id int, enc *codec.Encoded) error {
	entry, sd, err := s.streamDict(id)
	if err != nil {
		return err
	}
	cs := "DeviceRGB"
	if enc.Components == 1 {
		cs = "DeviceGray"
	}
	sd.Update("Filter", types.Name(filter.DCT))
	sd.Update("ColorSpace", types.Name(cs))
	sd.Update("BitsPerComponent", types.Integer(8))
	sd.Update("Width", types.Integer(enc.Width))
	sd.Update("Height", types.Integer(enc.Height))
	// Parameters of the previous filter pipeline and color space no longer
	// apply.
	sd.Delete("DecodeParms")
	sd.Delete("Decode")
	sd.FilterPipeline = []types.PDFFilter{{Name: filter.DCT}}
	sd.Raw = enc.Data
	sd.Content = nil
	length := int64(len(enc.Data))
	sd.StreamLength = &length
	sd.StreamLengthObjNr = nil
	sd.Update("Length", types.Integer(length))
	entry.Object = sd
	return nil
}

// SaveOptions configures the structural compaction applied by Save.
type SaveOptions struct {
	// Garbage removes unreferenced objects and merges duplicate streams
	// and fonts.
	Garbage bool

	// Deflate, DeflateImages and DeflateFonts flate-compress unfiltered
	// general, image and font streams, respectively.
	Deflate       bool
	DeflateImages bool
	DeflateFonts  bool

	// Clean removes unused page resources and merges duplicate content
	// streams.
	Clean bool
}

// Compact returns the options for the smallest output.
func Compact() SaveOptions {
	return SaveOptions{
		Garbage:       true,
		Deflate:       true,
		DeflateImages: true,
		DeflateFonts:  true,
		Clean:         true,
	}
}

type streamKind int

const (
	generalStream streamKind = iota
	imageStream
	fontStream
	// structural streams are never recompressed
	structuralStream
)

func kind(sd types.StreamDict) streamKind {
	if t := sd.Type(); t != nil {
		switch *t {
		case "XRef", "ObjStm", "Metadata":
			return structuralStream
		}
	}
	if st := sd.Subtype(); st != nil {
		switch *st {
		case "Image":
			return imageStream
		case "Type1C", "CIDFontType0C", "OpenType":
			return fontStream
		}
	}
	for _, key := range []string{"Length1", "Length2", "Length3"} {
		if _, found := sd.Find(key); found {
			return fontStream
		}
	}
	return generalStream
}

// deflate flate-compresses the unfiltered streams selected by opts, keeping
// the compressed form only where it is smaller. It returns the number of
// streams compressed.
func (s *Store) deflate(opts SaveOptions) (int, error) {
	ids := make([]int, 0, len(s.ctx.Table))
	for id := range s.ctx.Table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var n int
	for _, id := range ids {
		entry := s.ctx.Table[id]
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok || len(sd.FilterPipeline) > 0 || len(sd.Raw) == 0 {
			continue
		}
		switch kind(sd) {
		case generalStream:
			if !opts.Deflate {
				continue
			}
		case imageStream:
			if !opts.DeflateImages {
				continue
			}
		case fontStream:
			if !opts.DeflateFonts {
				continue
			}
		default:
			continue
		}
		compressed := sd
		compressed.Dict = sd.Dict.Clone().(types.Dict)
		compressed.Content = sd.Raw
		compressed.FilterPipeline = []types.PDFFilter{{Name: filter.Flate}}
		compressed.StreamLengthObjNr = nil
		compressed.Update("Filter", types.Name(filter.Flate))
		if err := compressed.Encode(); err != nil {
			return n, fmt.Errorf("object %d: %v", id, err)
		}
		if len(compressed.Raw) >= len(sd.Raw) {
			continue
		}
		entry.Object = compressed
		n++
	}
	return n, nil
}

// Save writes the document to path, replacing any existing file atomically.
func (s *Store) Save(path string, opts SaveOptions) error {
	if _, err := s.deflate(opts); err != nil {
		return fmt.Errorf("compressing streams: %v", err)
	}

	conf := s.ctx.Configuration
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true
	conf.OptimizeResourceDicts = opts.Clean
	conf.OptimizeDuplicateContentStreams = opts.Clean
	if opts.Garbage {
		if err := api.OptimizeContext(s.ctx); err != nil {
			return fmt.Errorf("optimizing: %v", err)
		}
	}

	o, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return err
	}
	defer o.Cleanup()
	if err := api.WriteContext(s.ctx, o); err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	if err := o.Chmod(0644); err != nil {
		return err
	}
	return o.CloseAtomicallyReplace()
}

// Close releases the document. The underlying file is not held open.
func (s *Store) Close() error {
	s.ctx = nil
	return nil
}

// FileSize returns the size in bytes of the file at path.
func FileSize(path string) (int64, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}
