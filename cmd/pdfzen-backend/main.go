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

// Program pdfzen-backend performs one PDF operation per invocation and
// reports the outcome as a single JSON object on stdout.
package main

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfzen/pdfzen/internal/result"
	"github.com/spf13/cobra"
	"golang.org/x/net/trace"
)

var (
	verbose bool
	tempDir string

	// stdout receives the JSON result.
	stdout io.Writer = os.Stdout

	// exitCode is set by the command which ran.
	exitCode = result.ExitSuccess
)

var rootCmd = &cobra.Command{
	Use:   "pdfzen-backend",
	Short: "PDF operations for the pdfzen frontend",
	Long: `pdfzen-backend rasterizes, composes, encrypts, decrypts and compresses
PDF documents. Every command prints exactly one JSON object to stdout and exits
with status 0 on success and 1 on failure.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(io.Discard)
		if verbose {
			log.SetOutput(os.Stderr)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help()
		return errors.New("no command given")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	rootCmd.PersistentFlags().StringVar(&tempDir, "temp-dir", "", "Directory for intermediate files (default: $TMPDIR)")
	rootCmd.SetOut(os.Stderr)
}

// report runs fn within a request trace and prints its result.
func report(cmd *cobra.Command, fn func(tr trace.Trace) (interface{}, error)) {
	tr := trace.New("pdfzen-backend."+cmd.Name(), uuid.NewString())
	defer tr.Finish()
	exitCode = result.Run(stdout, func() (interface{}, error) {
		payload, err := fn(tr)
		if err != nil {
			tr.LazyPrintf("error: %v", err)
			tr.SetError()
		}
		return payload, err
	})
}

// execute runs the command named by args and returns the exit code.
func execute(args []string) int {
	exitCode = result.ExitSuccess
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return result.Failure(stdout, err)
	}
	return exitCode
}

func main() {
	log.SetOutput(io.Discard)
	api.DisableConfigDir()
	os.Exit(execute(os.Args[1:]))
}
