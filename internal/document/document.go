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

// Package document provides the document handles used by the pdfzen
// pipelines: a rendering handle backed by MuPDF (go-fitz) and an object
// store handle backed by pdfcpu.
package document

import "fmt"

// Geometry is a page size in points.
type Geometry struct {
	Width, Height float64
}

func (g Geometry) String() string {
	return fmt.Sprintf("%gx%g pt", g.Width, g.Height)
}
