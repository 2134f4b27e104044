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

// Package outcome records what happened to each unit (page, input image,
// embedded image object) a pipeline looked at.
package outcome

import (
	"fmt"
	"log"

	"golang.org/x/net/trace"
)

// Kind classifies a unit.
type Kind int

const (
	Processed Kind = iota
	// Ineligible units were left alone by policy, e.g. an already compressed
	// image or an out-of-range page number.
	Ineligible
	// Failed units were left alone because processing them returned an
	// error. Failures are not fatal to the operation.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Processed:
		return "processed"
	case Ineligible:
		return "skipped-ineligible"
	case Failed:
		return "skipped-error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Unit is the outcome for one unit.
type Unit struct {
	// Name identifies the unit, e.g. "page 3" or "object 12".
	Name   string
	Kind   Kind
	Reason string
}

func (u Unit) String() string {
	if u.Reason == "" {
		return u.Name + ": " + u.Kind.String()
	}
	return u.Name + ": " + u.Kind.String() + " (" + u.Reason + ")"
}

// Summary collects unit outcomes in the order they were recorded.
type Summary struct {
	tr    trace.Trace
	Units []Unit
}

// NewSummary returns a Summary which additionally logs every unit to tr
// (which may be nil).
func NewSummary(tr trace.Trace) *Summary {
	return &Summary{tr: tr}
}

func (s *Summary) add(u Unit) {
	s.Units = append(s.Units, u)
	if s.tr != nil {
		s.tr.LazyPrintf("%v", u)
	}
}

// Processed records a processed unit.
func (s *Summary) Processed(name string) {
	s.add(Unit{Name: name, Kind: Processed})
}

// Ineligible records a unit skipped by policy.
func (s *Summary) Ineligible(name, reason string) {
	s.add(Unit{Name: name, Kind: Ineligible, Reason: reason})
}

// Failed records a unit skipped because of err.
func (s *Summary) Failed(name string, err error) {
	s.add(Unit{Name: name, Kind: Failed, Reason: err.Error()})
}

// Count returns the number of units of kind k.
func (s *Summary) Count(k Kind) int {
	var n int
	for _, u := range s.Units {
		if u.Kind == k {
			n++
		}
	}
	return n
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d processed, %d skipped-ineligible, %d skipped-error",
		s.Count(Processed), s.Count(Ineligible), s.Count(Failed))
}

// Log writes the totals and every skipped unit to the standard logger.
func (s *Summary) Log(prefix string) {
	log.Printf("%s: %v", prefix, s)
	for _, u := range s.Units {
		if u.Kind != Processed {
			log.Printf("%s: %v", prefix, u)
		}
	}
}
