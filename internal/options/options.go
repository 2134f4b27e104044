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

// Package options validates command options before any pipeline runs.
package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Rejected is returned for an option value which cannot be processed.
type Rejected struct {
	Option string
	Value  string
	Reason string
}

func (r *Rejected) Error() string {
	return fmt.Sprintf("invalid value %q for --%s: %s", r.Value, r.Option, r.Reason)
}

// DPI rejects non-positive resolutions, which would yield empty or
// mirrored renderings.
func DPI(dpi int) error {
	if dpi <= 0 {
		return &Rejected{
			Option: "dpi",
			Value:  strconv.Itoa(dpi),
			Reason: "must be positive",
		}
	}
	return nil
}

// Format normalizes an output image format. Unknown formats are accepted
// and result in PNG output.
func Format(format string) string {
	switch f := strings.ToLower(format); f {
	case "jpg", "jpeg":
		return f
	default:
		return "png"
	}
}

// PageSize rejects page size names which are not in known. Matching is
// case-insensitive; the lowercased name is returned.
func PageSize(name string, known []string) (string, error) {
	lower := strings.ToLower(name)
	for _, k := range known {
		if k == lower {
			return lower, nil
		}
	}
	return "", &Rejected{
		Option: "page-size",
		Value:  name,
		Reason: "must be one of " + strings.Join(known, ", "),
	}
}
