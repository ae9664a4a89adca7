/*
 * Copyright 2024 Iotalang Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package iotac

import (
	"io"
	"os"

	"github.com/iotalang/iotac/internal/opts"
)

// Options controls one compilation run.
type Options struct {
	// Allocator picks the register allocation scheme: "naive" (the
	// circular-spill allocator) or "graph" (interference-graph coloring).
	Allocator string

	// OutputDir is where the .marv file is written.
	OutputDir string

	// Verbose dumps the intermediate representations (tuples, HIR, LIR,
	// liveness sets and intervals) for every method to DumpWriter.
	Verbose bool

	// DumpWriter receives the verbose dumps; defaults to standard output.
	DumpWriter io.Writer
}

// GetDefaultOptions returns the defaults, honoring the IOTAC_* environment
// overrides.
func GetDefaultOptions() Options {
	return Options{
		Allocator:  opts.Allocator,
		OutputDir:  opts.OutputDir,
		DumpWriter: os.Stdout,
	}
}
