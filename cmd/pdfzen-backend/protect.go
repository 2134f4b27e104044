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

package main

import (
	"os"

	"github.com/pdfzen/pdfzen/internal/protect"
	"github.com/spf13/cobra"
	"golang.org/x/net/trace"
)

var (
	stdinSecrets  bool
	promptSecrets bool

	protectOpts = protect.Options{Permissions: protect.AllPermissions()}

	unprotectInput    string
	unprotectOutput   string
	unprotectPassword string
)

// readSecrets returns the secrets from stdin or the terminal, or nil if
// neither was requested. prompts lists the secrets to ask for.
func readSecrets(prompts ...string) (*protect.Secrets, error) {
	if stdinSecrets {
		return protect.ReadSecrets(os.Stdin)
	}
	if !promptSecrets {
		return nil, nil
	}
	answers := make(map[string]string)
	for _, p := range prompts {
		pw, err := protect.Prompt(int(os.Stdin.Fd()), os.Stderr, p)
		if err != nil {
			return nil, err
		}
		answers[p] = pw
	}
	return &protect.Secrets{
		UserPassword:  answers["User password"],
		OwnerPassword: answers["Owner password"],
		Password:      answers["Password"],
	}, nil
}

var protectCmd = &cobra.Command{
	Use:   "protect",
	Short: "Encrypt a PDF with AES-256",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report(cmd, func(tr trace.Trace) (interface{}, error) {
			opts := protectOpts
			s, err := readSecrets("User password", "Owner password")
			if err != nil {
				return nil, err
			}
			if s != nil {
				opts.UserPassword = s.UserPassword
				opts.OwnerPassword = s.OwnerPassword
			}
			return protect.Protect(tr, opts)
		})
		return nil
	},
}

var unprotectCmd = &cobra.Command{
	Use:   "unprotect",
	Short: "Decrypt a password-protected PDF",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report(cmd, func(tr trace.Trace) (interface{}, error) {
			password := unprotectPassword
			s, err := readSecrets("Password")
			if err != nil {
				return nil, err
			}
			if s != nil {
				password = s.Password
			}
			return protect.Unprotect(tr, unprotectInput, unprotectOutput, password)
		})
		return nil
	},
}

func init() {
	f := protectCmd.Flags()
	f.StringVar(&protectOpts.Input, "input", "", "Input PDF path")
	f.StringVar(&protectOpts.Output, "output", "", "Output PDF path")
	f.StringVar(&protectOpts.UserPassword, "user-password", "", "Password to open the PDF")
	f.StringVar(&protectOpts.OwnerPassword, "owner-password", "", "Password to change permissions (default: user password)")
	f.BoolVar(&protectOpts.Permissions.Print, "allow-print", true, "Allow printing")
	f.BoolVar(&protectOpts.Permissions.Copy, "allow-copy", true, "Allow copying text and graphics")
	f.BoolVar(&protectOpts.Permissions.Modify, "allow-modify", true, "Allow modifying, filling forms and assembling")
	f.BoolVar(&protectOpts.Permissions.Annotate, "allow-annotate", true, "Allow adding annotations")
	f.BoolVar(&stdinSecrets, "stdin-secrets", false, `Read {"user_password", "owner_password"} as JSON from stdin`)
	f.BoolVar(&promptSecrets, "prompt-secrets", false, "Prompt for passwords on the terminal")
	protectCmd.MarkFlagRequired("input")
	protectCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(protectCmd)

	f = unprotectCmd.Flags()
	f.StringVar(&unprotectInput, "input", "", "Input PDF path")
	f.StringVar(&unprotectOutput, "output", "", "Output PDF path")
	f.StringVar(&unprotectPassword, "password", "", "PDF password")
	f.BoolVar(&stdinSecrets, "stdin-secrets", false, `Read {"password"} as JSON from stdin`)
	f.BoolVar(&promptSecrets, "prompt-secrets", false, "Prompt for the password on the terminal")
	unprotectCmd.MarkFlagRequired("input")
	unprotectCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(unprotectCmd)
}
