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
    `fmt`
)

// SyntaxError occurs when the source program fails to scan or parse.
type SyntaxError struct {
    File string
    Err  error
}

func (self SyntaxError) Error() string {
    return fmt.Sprintf("%s: syntax error: %s", self.File, self.Err)
}

func (self SyntaxError) Unwrap() error {
    return self.Err
}

// SemanticError occurs when the source program fails type or name checking.
type SemanticError struct {
    File string
    Err  error
}

func (self SemanticError) Error() string {
    return fmt.Sprintf("%s: semantic error: %s", self.File, self.Err)
}

func (self SemanticError) Unwrap() error {
    return self.Err
}

// EmitterError is an internal compiler error in the back end, naming the
// method whose pipeline failed.
type EmitterError struct {
    Method string
    Reason string
}

func (self EmitterError) Error() string {
    return fmt.Sprintf("internal error compiling %s: %s", self.Method, self.Reason)
}
