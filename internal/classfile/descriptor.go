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

package classfile

import (
	"fmt"
	"strings"
)

// Method descriptors use the single-character codes "I" (int), "Z" (boolean)
// and "V" (void), e.g. "(II)I". Booleans are integers at the machine level, so
// every consumer normalizes "Z" to "I" first.

// NormalizeDesc rewrites boolean parameter and return types to integer.
func NormalizeDesc(desc string) string {
	return strings.ReplaceAll(desc, "Z", "I")
}

func splitDesc(desc string) (string, string) {
	i := strings.LastIndexByte(desc, ')')
	if i < 0 || desc[0] != '(' {
		panic(fmt.Sprintf("classfile: malformed descriptor %q", desc))
	}
	return desc[1:i], desc[i+1:]
}

// ArgCount returns the number of formal parameters encoded in the descriptor.
func ArgCount(desc string) int {
	args, _ := splitDesc(desc)
	return len(args)
}

// ArgTypes returns the parameter type codes, in declaration order.
func ArgTypes(desc string) []string {
	args, _ := splitDesc(desc)
	types := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		types = append(types, string(args[i]))
	}
	return types
}

// ReturnType returns the return type code of the descriptor ("V" for void).
func ReturnType(desc string) string {
	_, ret := splitDesc(desc)
	return ret
}
