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

// Package deps reports the document and image libraries linked into the
// binary.
package deps

import (
	"runtime/debug"
)

// Libraries maps report names to module paths.
var Libraries = map[string]string{
	"go-fitz": "github.com/gen2brain/go-fitz",
	"pdfcpu":  "github.com/pdfcpu/pdfcpu",
	"x/image": "golang.org/x/image",
}

// Dependency is the status of one library.
type Dependency struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
}

// Report is the check-deps result payload.
type Report struct {
	Dependencies map[string]Dependency `json:"dependencies"`
}

// AllInstalled returns whether every library was found.
func (r *Report) AllInstalled() bool {
	for _, d := range r.Dependencies {
		if !d.Installed {
			return false
		}
	}
	return true
}

// Check looks up Libraries in info, which may be nil.
func Check(info *debug.BuildInfo) *Report {
	versions := make(map[string]string)
	if info != nil {
		for _, m := range info.Deps {
			v := m.Version
			if m.Replace != nil {
				v = m.Replace.Version
			}
			versions[m.Path] = v
		}
	}
	r := &Report{Dependencies: make(map[string]Dependency, len(Libraries))}
	for name, path := range Libraries {
		v, ok := versions[path]
		r.Dependencies[name] = Dependency{Installed: ok, Version: v}
	}
	return r
}

// CheckBinary checks the build info of the running binary.
func CheckBinary() *Report {
	info, _ := debug.ReadBuildInfo()
	return Check(info)
}
