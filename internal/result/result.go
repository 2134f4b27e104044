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

// Package result prints the single JSON object which reports the outcome of a
// command, and maps errors to process exit codes.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Write prints {"success": success, <fields of payload>, "error": errMsg} as
// one line to w and returns the corresponding exit code. payload must marshal
// to a JSON object (or be nil); errMsg is omitted when empty.
func Write(w io.Writer, success bool, payload interface{}, errMsg string) int {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"success":%v`, success)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Write(w, false, nil, fmt.Sprintf("encoding result: %v", err))
		}
		b = bytes.TrimSpace(b)
		if len(b) < 2 || b[0] != '{' {
			return Write(w, false, nil, fmt.Sprintf("encoding result: %T is not a JSON object", payload))
		}
		if inner := b[1 : len(b)-1]; len(inner) > 0 {
			buf.WriteByte(',')
			buf.Write(inner)
		}
	}
	if errMsg != "" {
		msg, _ := json.Marshal(errMsg)
		buf.WriteString(`,"error":`)
		buf.Write(msg)
	}
	buf.WriteString("}\n")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("writing result: %v", err)
	}
	if success {
		return ExitSuccess
	}
	return ExitFailure
}

// Failure reports err and returns ExitFailure.
func Failure(w io.Writer, err error) int {
	log.Printf("failure: %v", err)
	return Write(w, false, nil, err.Error())
}

// Run calls fn and reports its payload or error to w. A panic in fn is
// reported as a failure.
func Run(w io.Writer, fn func() (interface{}, error)) (code int) {
	defer func() {
		if r := recover(); r != nil {
			code = Failure(w, fmt.Errorf("internal error: %v", r))
		}
	}()
	payload, err := fn()
	if err != nil {
		return Failure(w, err)
	}
	return Write(w, true, payload, "")
}
