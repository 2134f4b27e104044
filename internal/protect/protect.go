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

// Package protect encrypts and decrypts PDF documents with AES-256.
package protect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/net/trace"
	"golang.org/x/term"
)

// KeyLength is the AES key length in bits.
const KeyLength = 256

// Permissions lists what a user who opened the document with the user
// password may do. Accessibility extraction is always allowed.
type Permissions struct {
	Print    bool
	Copy     bool
	Modify   bool
	Annotate bool
}

// AllPermissions allows everything.
func AllPermissions() Permissions {
	return Permissions{Print: true, Copy: true, Modify: true, Annotate: true}
}

// Flags returns the user access permission bits.
func (p Permissions) Flags() model.PermissionFlags {
	flags := model.PermissionsNone | model.PermissionExtractRev3
	if p.Print {
		flags |= model.PermissionPrintRev2 | model.PermissionPrintRev3
	}
	if p.Modify {
		flags |= model.PermissionModify | model.PermissionFillRev3 | model.PermissionAssembleRev3
	}
	if p.Annotate {
		flags |= model.PermissionModAnnFillForm
	}
	if p.Copy {
		flags |= model.PermissionExtract
	}
	return flags
}

// Result describes the written document.
type Result struct {
	OutputPath string `json:"outputPath"`
}

// Secrets are passwords read from a JSON object, so that they do not show up
// in process listings.
type Secrets struct {
	UserPassword  string `json:"user_password"`
	OwnerPassword string `json:"owner_password"`
	Password      string `json:"password"`
}

// ReadSecrets decodes one JSON object from r.
func ReadSecrets(r io.Reader) (*Secrets, error) {
	var s Secrets
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("reading secrets: %v", err)
	}
	return &s, nil
}

// Prompt writes prompt to w and reads a password from the terminal fd
// without echoing it.
func Prompt(fd int, w io.Writer, prompt string) (string, error) {
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for %s: not a terminal", prompt)
	}
	fmt.Fprintf(w, "%s: ", prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Options configures Protect.
type Options struct {
	Input, Output string

	UserPassword string
	// OwnerPassword defaults to UserPassword.
	OwnerPassword string

	Permissions Permissions
}

// process streams input through fn into a file which atomically replaces
// output.
func process(input, output string, fn func(io.ReadSeeker, io.Writer) error) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	o, err := renameio.TempFile("", output)
	if err != nil {
		return err
	}
	defer o.Cleanup()
	if err := fn(f, o); err != nil {
		return err
	}
	if err := o.Chmod(0644); err != nil {
		return err
	}
	return o.CloseAtomicallyReplace()
}

// Protect writes an encrypted copy of opts.Input to opts.Output.
func Protect(tr trace.Trace, opts Options) (*Result, error) {
	owner := opts.OwnerPassword
	if owner == "" {
		owner = opts.UserPassword
	}
	conf := model.NewAESConfiguration(opts.UserPassword, owner, KeyLength)
	conf.Permissions = opts.Permissions.Flags()
	tr.LazyPrintf("encrypting %s with AES-%d, permissions %016b", opts.Input, KeyLength, uint16(conf.Permissions))
	if err := process(opts.Input, opts.Output, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Encrypt(rs, w, conf)
	}); err != nil {
		return nil, err
	}
	return &Result{OutputPath: opts.Output}, nil
}

// Unprotect writes a decrypted copy of input to output. password is tried as
// both user and owner password.
func Unprotect(tr trace.Trace, input, output, password string) (*Result, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	tr.LazyPrintf("decrypting %s", input)
	if err := process(input, output, func(rs io.ReadSeeker, w io.Writer) error {
		return api.Decrypt(rs, w, conf)
	}); err != nil {
		return nil, err
	}
	return &Result{OutputPath: output}, nil
}
