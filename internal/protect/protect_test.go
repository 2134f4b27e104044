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

package protect_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfzen/pdfzen/internal/pdftest"
	"github.com/pdfzen/pdfzen/internal/protect"
	"golang.org/x/net/trace"
)

func TestMain(m *testing.M) {
	api.DisableConfigDir()
	os.Exit(m.Run())
}

func newTrace(t *testing.T) trace.Trace {
	tr := trace.New("test", t.Name())
	t.Cleanup(tr.Finish)
	return tr
}

func TestFlags(t *testing.T) {
	for _, test := range []struct {
		desc string
		perm protect.Permissions
		want model.PermissionFlags
	}{
		{"none", protect.Permissions{}, model.PermissionsNone | model.PermissionExtractRev3},
		{"print", protect.Permissions{Print: true}, model.PermissionsNone | model.PermissionExtractRev3 | model.PermissionPrintRev2 | model.PermissionPrintRev3},
		{"copy", protect.Permissions{Copy: true}, model.PermissionsNone | model.PermissionExtractRev3 | model.PermissionExtract},
		{"all", protect.AllPermissions(), model.PermissionsAll},
	} {
		if got := test.perm.Flags(); got != test.want {
			t.Errorf("%s: Flags() = %016b, want %016b", test.desc, got, test.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	pdftest.Write(t, in, pdftest.Letter(), pdftest.Letter(), pdftest.Letter())

	protected := filepath.Join(dir, "protected.pdf")
	res, err := protect.Protect(newTrace(t), protect.Options{
		Input:         in,
		Output:        protected,
		UserPassword:  "user secret",
		OwnerPassword: "owner secret",
		Permissions:   protect.Permissions{Print: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := res.OutputPath, protected; got != want {
		t.Fatalf("OutputPath: got %q, want %q", got, want)
	}
	if _, err := api.PageCountFile(protected); err == nil {
		t.Fatalf("PageCountFile(%s) succeeded without a password", protected)
	}

	for _, pw := range []string{"user secret", "owner secret"} {
		out := filepath.Join(dir, "plain-"+strings.Fields(pw)[0]+".pdf")
		if _, err := protect.Unprotect(newTrace(t), protected, out, pw); err != nil {
			t.Fatalf("Unprotect(%q): %v", pw, err)
		}
		n, err := api.PageCountFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := n, 3; got != want {
			t.Fatalf("PageCountFile(%s): got %d, want %d", out, got, want)
		}
	}

	wrong := filepath.Join(dir, "wrong.pdf")
	if _, err := protect.Unprotect(newTrace(t), protected, wrong, "guess"); err == nil {
		t.Fatalf("Unprotect with the wrong password unexpectedly succeeded")
	}
	if _, err := os.Stat(wrong); !os.IsNotExist(err) {
		t.Fatalf("Stat(%s): got %v, want not exist", wrong, err)
	}
}

func TestProtectMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := protect.Protect(newTrace(t), protect.Options{
		Input:        filepath.Join(dir, "missing.pdf"),
		Output:       filepath.Join(dir, "out.pdf"),
		UserPassword: "pw",
	})
	if err == nil {
		t.Fatalf("Protect unexpectedly succeeded")
	}
}

func TestReadSecrets(t *testing.T) {
	s, err := protect.ReadSecrets(strings.NewReader(`{"user_password": "u", "owner_password": "o"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := *s, (protect.Secrets{UserPassword: "u", OwnerPassword: "o"}); got != want {
		t.Fatalf("ReadSecrets: got %+v, want %+v", got, want)
	}
	if _, err := protect.ReadSecrets(strings.NewReader("not json")); err == nil {
		t.Fatalf("ReadSecrets(garbage) unexpectedly succeeded")
	}
}
