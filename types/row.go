/*
 * Copyright 2025 The RuleGo Authors.
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

package types

import (
	"fmt"
	"strings"
)

// Row is a fixed-length, index-addressed tuple of nullable values.
// A nil element represents SQL NULL.
// Input rows, key rows, state rows and output rows all share this type.
type Row []any

// NewRow creates a row of n NULL values
func NewRow(n int) Row {
	return make(Row, n)
}

// RowOf builds a row from the given values
func RowOf(values ...any) Row {
	r := make(Row, len(values))
	copy(r, values)
	return r
}

// Len returns the fixed width of the row
func (r Row) Len() int {
	return len(r)
}

// Get returns the value at position i
func (r Row) Get(i int) any {
	return r[i]
}

// Set stores v at position i
func (r Row) Set(i int, v any) {
	r[i] = v
}

// IsNull reports whether the value at position i is NULL
func (r Row) IsNull(i int) bool {
	return r[i] == nil
}

// Copy returns a detached copy of the row
func (r Row) Copy() Row {
	if r == nil {
		return nil
	}
	c := make(Row, len(r))
	copy(c, r)
	return c
}

// Project extracts the given columns into a new row, in the order given.
func (r Row) Project(cols []int) Row {
	out := make(Row, len(cols))
	for i, c := range cols {
		out[i] = r[c]
	}
	return out
}

func (r Row) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range r {
		if i > 0 {
			sb.WriteString(", ")
		}
		if v == nil {
			sb.WriteString("NULL")
			continue
		}
		fmt.Fprintf(&sb, "%v", v)
	}
	sb.WriteByte(')')
	return sb.String()
}
