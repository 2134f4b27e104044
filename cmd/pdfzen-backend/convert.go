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
	"github.com/pdfzen/pdfzen/internal/compose"
	"github.com/pdfzen/pdfzen/internal/options"
	"github.com/pdfzen/pdfzen/internal/rasterize"
	"github.com/spf13/cobra"
	"golang.org/x/net/trace"
)

var (
	rasterizeOpts rasterize.Options

	composeInputs string
	composeOpts   compose.Options
)

var rasterizeCmd = &cobra.Command{
	Use:     "pdf-to-images",
	Aliases: []string{"rasterize"},
	Short:   "Render PDF pages to image files",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report(cmd, func(tr trace.Trace) (interface{}, error) {
			if err := options.DPI(rasterizeOpts.DPI); err != nil {
				return nil, err
			}
			return rasterize.Run(tr, rasterizeOpts)
		})
		return nil
	},
}

var composeCmd = &cobra.Command{
	Use:     "images-to-pdf",
	Aliases: []string{"compose"},
	Short:   "Assemble image files into a PDF, one image per page",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report(cmd, func(tr trace.Trace) (interface{}, error) {
			opts := composeOpts
			opts.Inputs = compose.SplitInputs(composeInputs)
			opts.TempDir = tempDir
			return compose.Run(tr, opts)
		})
		return nil
	},
}

func init() {
	f := rasterizeCmd.Flags()
	f.StringVar(&rasterizeOpts.Input, "input", "", "Input PDF path")
	f.StringVar(&rasterizeOpts.OutputDir, "output-dir", "", "Output directory, created if missing")
	f.StringVar(&rasterizeOpts.Format, "format", "png", "Output format: png, jpg or jpeg (others produce PNG)")
	f.IntVar(&rasterizeOpts.DPI, "dpi", 150, "Rendering resolution in dots per inch")
	f.StringVar(&rasterizeOpts.Pages, "pages", "", "Comma-separated page numbers (1-based); default all pages")
	rasterizeCmd.MarkFlagRequired("input")
	rasterizeCmd.MarkFlagRequired("output-dir")
	rootCmd.AddCommand(rasterizeCmd)

	f = composeCmd.Flags()
	f.StringVar(&composeInputs, "inputs", "", "Pipe-separated image paths")
	f.StringVar(&composeOpts.Output, "output", "", "Output PDF path")
	f.StringVar(&composeOpts.PageSize, "page-size", compose.Fit, "Page size: fit, a4, letter, legal, a3 or a5")
	composeCmd.MarkFlagRequired("inputs")
	composeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(composeCmd)
}
