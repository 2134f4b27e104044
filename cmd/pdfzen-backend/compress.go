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
	"github.com/pdfzen/pdfzen/internal/deps"
	"github.com/pdfzen/pdfzen/internal/recompress"
	"github.com/pdfzen/pdfzen/internal/result"
	"github.com/spf13/cobra"
	"golang.org/x/net/trace"
)

var compressOpts recompress.Options

var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Recompress large embedded images and compact the PDF structure",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report(cmd, func(tr trace.Trace) (interface{}, error) {
			return recompress.Run(tr, compressOpts)
		})
		return nil
	},
}

var checkDepsCmd = &cobra.Command{
	Use:   "check-deps",
	Short: "Report the linked PDF and image libraries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := deps.CheckBinary()
		exitCode = result.Write(stdout, r.AllInstalled(), r, "")
		return nil
	},
}

type installReport struct {
	Message string `json:"message"`
}

var installDepsCmd = &cobra.Command{
	Use:   "install-deps",
	Short: "Succeeds: all libraries are linked into the binary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report(cmd, func(tr trace.Trace) (interface{}, error) {
			return &installReport{
				Message: "Dependencies are linked into pdfzen-backend, nothing to install",
			}, nil
		})
		return nil
	},
}

func init() {
	f := compressCmd.Flags()
	f.StringVar(&compressOpts.Input, "input", "", "Input PDF path")
	f.StringVar(&compressOpts.Output, "output", "", "Output PDF path")
	compressCmd.MarkFlagRequired("input")
	compressCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(compressCmd)

	rootCmd.AddCommand(checkDepsCmd)
	rootCmd.AddCommand(installDepsCmd)
}
