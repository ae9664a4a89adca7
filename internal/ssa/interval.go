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

package ssa

import (
    `strings`
)

// UseType marks how an LIR instruction touches the register bound to an
// interval.
type UseType int

const (
    UseRead UseType = iota
    UseWrite
)

// Range is one live span within an interval, in LIR ids.
type Range struct {
    Start int
    Stop  int
}

// Intersects reports whether the two ranges overlap.
func (self *Range) Intersects(other *Range) bool {
    return !(self.Stop < other.Start || other.Stop < self.Start)
}

func (self *Range) String() string {
    return itoa(self.Start) + ", " + itoa(self.Stop)
}

// Interval is the liveness interval of one register: an ordered list of
// ranges plus the positions at which the register is read or written.
type Interval struct {
    RegId        int
    Ranges       []*Range
    UsePositions map[int]UseType
}

// NewInterval creates an empty interval for the given register number.
func NewInterval(regId int) *Interval {
    return &Interval { RegId: regId, UsePositions: make(map[int]UseType) }
}

// FirstRangeFrom shortens the first range to start at the given position.
func (self *Interval) FirstRangeFrom(start int) {
    if len(self.Ranges) != 0 {
        self.Ranges[0].Start = start
    }
}

// AddRange prepends a range, merging it into the first range when it is
// adjacent under the stride-5 numbering or overlaps it.
func (self *Interval) AddRange(r *Range) {
    if len(self.Ranges) != 0 {
        first := self.Ranges[0]
        if r.Stop + 5 == first.Start || r.Intersects(first) {
            first.Start = r.Start
        } else {
            self.Ranges = append([]*Range { r }, self.Ranges...)
        }
    } else {
        self.Ranges = append(self.Ranges, r)
    }
}

// AddUsePosition records a read or write of the register at the given LIR id.
func (self *Interval) AddUsePosition(lirId int, use UseType) {
    self.UsePositions[lirId] = use
}

// Intersects reports whether any range of this interval overlaps any range of
// the other. This is the interference relation of the coloring allocator.
func (self *Interval) Intersects(other *Interval) bool {
    for _, r := range self.Ranges {
        for _, o := range other.Ranges {
            if r.Intersects(o) {
                return true
            }
        }
    }
    return false
}

func (self *Interval) String() string {
    buf := make([]string, 0, len(self.Ranges))
    for _, r := range self.Ranges {
        t := "["
        if use, ok := self.UsePositions[r.Start]; ok {
            if use == UseRead { t += "R " } else { t += "W " }
        } else {
            t += "- "
        }
        t += r.String()
        if use, ok := self.UsePositions[r.Stop]; ok {
            if use == UseRead { t += " R" } else { t += " W" }
        } else {
            t += " -"
        }
        buf = append(buf, t + "]")
    }
    return strings.Join(buf, ", ")
}
