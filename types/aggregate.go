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
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// NoFilter marks an aggregate call without a FILTER clause
const NoFilter = -1

// ExprAggregate defines an aggregate whose state update is written as expressions.
// Inside Add and Result, `arg` names the single operand and `acc[j]` names state slot j.
type ExprAggregate struct {
	Name   string   `json:"name" yaml:"name"`
	Init   []string `json:"init" yaml:"init"`
	Add    []string `json:"add" yaml:"add"`
	Result string   `json:"result" yaml:"result"`
}

// StateWidth returns the number of state slots
func (e ExprAggregate) StateWidth() int {
	return len(e.Init)
}

// AggregateCall describes one aggregate invocation within a GROUP BY query.
type AggregateCall struct {
	Kind AggKind `json:"kind" yaml:"kind"`
	// Name is the function name. Used to resolve Other from the catalog.
	Name string `json:"name" yaml:"name"`
	// Args are input column positions of the operands
	Args []int `json:"args" yaml:"args"`
	// FilterArg is the boolean filter column, NoFilter when absent
	FilterArg  int      `json:"filterArg" yaml:"filterArg"`
	ResultType DataType `json:"resultType" yaml:"resultType"`
	// Inline carries an expression definition supplied by the planner,
	// taking precedence over the catalog.
	Inline *ExprAggregate `json:"inline,omitempty" yaml:"inline,omitempty"`
}

// NewCall creates a call without a filter
func NewCall(kind AggKind, resultType DataType, args ...int) AggregateCall {
	return AggregateCall{
		Kind:       kind,
		Name:       kind.String(),
		Args:       args,
		FilterArg:  NoFilter,
		ResultType: resultType,
	}
}

// HasFilter reports whether a FILTER column is attached
func (c AggregateCall) HasFilter() bool {
	return c.FilterArg >= 0
}

// WithoutFilter returns a copy of the call with the FILTER column removed
func (c AggregateCall) WithoutFilter() AggregateCall {
	c.FilterArg = NoFilter
	return c
}

// WithFilter returns a copy of the call filtered by column col
func (c AggregateCall) WithFilter(col int) AggregateCall {
	c.FilterArg = col
	return c
}

// FunctionName returns the name used in diagnostics and catalog lookups
func (c AggregateCall) FunctionName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Kind.String()
}

// String renders the call, e.g. SUM($2) FILTER $1 : BIGINT
func (c AggregateCall) String() string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(c.FunctionName()))
	sb.WriteByte('(')
	if len(c.Args) == 0 && c.Kind == Count {
		sb.WriteByte('*')
	}
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%d", a)
	}
	sb.WriteByte(')')
	if c.HasFilter() {
		fmt.Fprintf(&sb, " FILTER $%d", c.FilterArg)
	}
	fmt.Fprintf(&sb, " : %s", c.ResultType)
	return sb.String()
}

// GroupSet is one grouping: input column positions forming the key, ascending.
type GroupSet []int

// Contains reports whether col is part of the grouping
func (g GroupSet) Contains(col int) bool {
	i := sort.SearchInts(g, col)
	return i < len(g) && g[i] == col
}

// UnionGroupSets returns the ascending union of all sets
func UnionGroupSets(sets []GroupSet) GroupSet {
	seen := make(map[int]struct{})
	union := GroupSet{}
	for _, s := range sets {
		for _, c := range s {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			union = append(union, c)
		}
	}
	sort.Ints(union)
	return union
}

// SortDirection 排序方向
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// FieldCollation is the sort order promised for one input column
type FieldCollation struct {
	Column     int           `json:"column" yaml:"column"`
	Direction  SortDirection `json:"direction" yaml:"direction"`
	NullsFirst bool          `json:"nullsFirst" yaml:"nullsFirst"`
}

// Collation is the row ordering upstream promises for sort-merge grouping.
// Columns not listed sort ascending with NULLs first.
type Collation []FieldCollation

// For returns the collation of input column col
func (c Collation) For(col int) FieldCollation {
	for _, fc := range c {
		if fc.Column == col {
			return fc
		}
	}
	return FieldCollation{Column: col, Direction: Ascending, NullsFirst: true}
}

// AggregateSpec is the planner-supplied description of one aggregate operator.
type AggregateSpec struct {
	// InputWidth is the width of upstream rows
	InputWidth int             `json:"inputWidth" yaml:"inputWidth"`
	GroupSets  []GroupSet      `json:"groupSets" yaml:"groupSets"`
	Calls      []AggregateCall `json:"calls" yaml:"calls"`
	Collation  Collation       `json:"collation" yaml:"collation"`
}

// Sets returns the grouping sets, a single empty set for a global aggregate
func (s AggregateSpec) Sets() []GroupSet {
	if len(s.GroupSets) == 0 {
		return []GroupSet{{}}
	}
	return s.GroupSets
}

// Union returns the union of all grouping sets
func (s AggregateSpec) Union() GroupSet {
	return UnionGroupSets(s.Sets())
}

// OutputWidth is |union| + |calls|, constant for one operator
func (s AggregateSpec) OutputWidth() int {
	return len(s.Union()) + len(s.Calls)
}

// Validate checks column positions against the input width
func (s AggregateSpec) Validate() error {
	inRange := func(c int) bool { return c >= 0 && c < s.InputWidth }
	for i, set := range s.GroupSets {
		for j, c := range set {
			if !inRange(c) {
				return errors.Newf("group set %d: column %d out of range [0,%d)", i, c, s.InputWidth)
			}
			if j > 0 && set[j-1] >= c {
				return errors.Newf("group set %d: columns must be strictly ascending, got %v", i, []int(set))
			}
		}
	}
	for _, call := range s.Calls {
		for _, a := range call.Args {
			if !inRange(a) {
				return errors.Newf("%s: operand column %d out of range [0,%d)", call, a, s.InputWidth)
			}
		}
		if call.HasFilter() && !inRange(call.FilterArg) {
			return errors.Newf("%s: filter column %d out of range [0,%d)", call, call.FilterArg, s.InputWidth)
		}
	}
	return nil
}
