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

/*
Package types provides the data model shared by the aggregation core.

# Rows

A Row is a fixed-length slice of nullable values. Nil is SQL NULL.

	row := types.RowOf(1, "a", 10)
	key := row.Project([]int{0})

# Aggregate Descriptors

The planner describes one aggregate operator with an AggregateSpec:

	spec := types.AggregateSpec{
		InputWidth: 3,
		GroupSets:  []types.GroupSet{{0}},
		Calls: []types.AggregateCall{
			types.NewCall(types.Count, types.BigInt),
			types.NewCall(types.Sum, types.BigInt, 2),
		},
	}

Output rows carry the union of all grouping-set columns followed by one
column per call. Columns outside the grouping set that produced a row are NULL.

# Configuration

Config holds execution settings and can be loaded from YAML or JSON with LoadConfig.
*/
package types
