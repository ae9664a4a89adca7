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

// Command iotac compiles a .iota source file to Marvin assembly.
//
//	iotac [-g] [-d DIR] [-v] X.iota
//
// An iotac.toml file next to the source provides project defaults for the
// same options.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pterm/pterm"

	"github.com/iotalang/iotac"
)

var graph = flag.Bool("g", false, "allocate registers by graph coloring; default is the naive method")
var outDir = flag.String("d", "", "where to place the output (.marv) file; default = .")
var verbose = flag.Bool("v", false, "display intermediate representations and liveness intervals")

// projectConfig mirrors the iotac.toml keys.
type projectConfig struct {
	Allocator string `toml:"allocator"`
	OutputDir string `toml:"output_dir"`
	Verbose   bool   `toml:"verbose"`
}

func loadConfig(sourceFile string) *projectConfig {
	path := filepath.Join(filepath.Dir(sourceFile), "iotac.toml")
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil
	}
	var cfg projectConfig
	if err := tree.Unmarshal(&cfg); err != nil {
		pterm.Warning.Printfln("ignoring %s: %v", path, err)
		return nil
	}
	return &cfg
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 || filepath.Ext(flag.Arg(0)) != ".iota" {
		pterm.Error.Println("usage: iotac [-g] [-d DIR] [-v] X.iota")
		os.Exit(2)
	}
	sourceFile := flag.Arg(0)

	opt := iotac.GetDefaultOptions()
	if cfg := loadConfig(sourceFile); cfg != nil {
		if cfg.Allocator != "" {
			opt.Allocator = cfg.Allocator
		}
		if cfg.OutputDir != "" {
			opt.OutputDir = cfg.OutputDir
		}
		if cfg.Verbose {
			opt.Verbose = true
		}
	}
	if *graph {
		opt.Allocator = "graph"
	}
	if *outDir != "" {
		opt.OutputDir = *outDir
	}
	if *verbose {
		opt.Verbose = true
	}

	outFile, err := iotac.Compile(sourceFile, opt)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	pterm.Success.Printfln("wrote %s", outFile)
}
