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
Package functions is the catalog of user-defined aggregate functions.

Aggregates without a built-in accumulator are looked up here by name. A catalog
entry is defined in one of three ways.

# Expression Aggregates

State slots are initialized by Init expressions and updated by one Add expression
per slot. Inside the expressions `arg` is the operand and `acc[j]` is state slot j.
Result is optional and defaults to the first slot. The engine compiles these once per query.

	functions.RegisterExpression(functions.Default(), types.ExprAggregate{
		Name: "product",
		Init: []string{"1"},
		Add:  []string{"acc[0] * arg"},
	}, "乘积")

# Typed Aggregates

A generic implementation of Aggregate[S] is called directly, without reflection:

	functions.RegisterAggregate[welford](functions.Default(), "var_pop", "总体方差", varianceAggregate{})

# Reflective Aggregates

Any Go type with Init, Add, Merge and Result methods can be registered. The methods
are resolved once at registration. Zero-size types are invoked statically, others
receive a fresh instance per query.

	functions.RegisterType(functions.Default(), "geomean", "几何平均数", geomeanAggregate{})

Built-in entries: product, sum_sq, bool_and, bool_or, concat_agg, spread,
var_pop, var_samp, stddev_pop, stddev_samp, median, collect,
first_value, last_value, deduplicate, geomean.
*/
package functions
