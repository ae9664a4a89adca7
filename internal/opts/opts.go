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

// Package opts holds the environment-tunable defaults of the compiler.
package opts

import (
	"os"
)

const (
	_DefaultAllocator = "naive"
	_DefaultOutputDir = "."
)

var (
	// Allocator is the default register allocation scheme, "naive" or
	// "graph". Overridden by IOTAC_ALLOCATOR.
	Allocator = stringOrDefault("IOTAC_ALLOCATOR", _DefaultAllocator)

	// OutputDir is the default destination directory for .marv files.
	// Overridden by IOTAC_OUTPUT_DIR.
	OutputDir = stringOrDefault("IOTAC_OUTPUT_DIR", _DefaultOutputDir)
)

func stringOrDefault(key string, def string) string {
	if env := os.Getenv(key); env != "" {
		if key == "IOTAC_ALLOCATOR" && env != "naive" && env != "graph" {
			panic("iotac: invalid value for " + key)
		}
		return env
	}
	return def
}
