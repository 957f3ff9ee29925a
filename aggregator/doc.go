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
Package aggregator implements the accumulators and grouping strategies of the
aggregation core.

# Accumulators

An Accumulator absorbs rows with Send and produces one value with End. A Factory
creates a fresh Accumulator for every group. Resolver.NewFactory picks the strategy
for each aggregate call once, when the plan is built:

	COUNT        count of rows whose operands are all non-null
	SUM, $SUM0   running sum typed by the declared result type (INTEGER, BIGINT, DOUBLE, DECIMAL)
	MIN, MAX     comparator with a type sentinel (INTEGER, BIGINT, FLOAT, DOUBLE, DECIMAL, BOOLEAN)
	AVG          count and sum of the single operand
	OTHER        catalog aggregate: compiled expressions or init/add/merge/result handles

A FILTER column wraps any of these and forwards only rows where the column is true.
NULL operands are skipped. SUM, MIN, MAX and AVG over no rows return NULL, $SUM0 returns zero.

# Compiled Aggregates

Expression aggregates are compiled with expr-lang/expr. The Add expressions of all
state slots are joined into one routine reading a flat context of the input row
followed by the current state. The Compiler caches programs in an LRU keyed by
source and layout.

	compiler, _ := aggregator.NewCompiler(128)
	resolver := aggregator.NewResolver(aggregator.WithCompiler(compiler))
	factories, err := resolver.NewFactories(spec)

# Grouping

SortedGroupIterator streams groups from input sorted by the key of a single grouping
set. HashGroupIterator buffers all groups of all grouping sets and emits them once the
input is exhausted. Output rows hold the union of grouping columns followed by one
value per call; grouping columns outside the producing set are NULL.

	it, err := aggregator.NewGroupIterator(src, spec, factories, types.NewConfig(), nil)
	for {
		row, err := it.Next(ctx)
		if err != nil || row == nil {
			break
		}
	}

# Errors

Build failures are marked ErrUnsupportedShape, ErrCompilation or ErrUnknownAggregate.
Failures while absorbing rows are marked ErrInvocation. Use errors.Is to classify.
*/
package aggregator
