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
Package sqlagg 是SQL引擎中GROUP BY聚合执行的核心。

上游算子按行提供输入，规划器提供已经类型化的聚合描述（types.AggregateSpec），
sqlagg 负责为每个聚合调用选择累加策略、按分组键归并行，并以拉取式迭代器的形式输出结果行。

# 核心特性

• 内置聚合 - COUNT, SUM, $SUM0, AVG, MIN, MAX，按声明的结果类型选择 int32/int64/float/decimal 实现
• FILTER 子句 - 只有过滤列为 true 的行参与聚合
• 自定义聚合 - 表达式定义（编译执行）、泛型类型化实现、反射解析 init/add/merge/result
• 两种分组策略 - 排序归并（流式，单个分组集）和哈希（支持 GROUPING SETS/ROLLUP/CUBE 展开）
• 标准算子协议 - Open/Next/Close，关闭时总是释放上游

# 入门示例

	engine, err := sqlagg.New()
	if err != nil {
		panic(err)
	}
	spec := types.AggregateSpec{
		InputWidth: 3,
		GroupSets:  []types.GroupSet{{0}},
		Calls: []types.AggregateCall{
			types.NewCall(types.Count, types.BigInt),
			types.NewCall(types.Sum, types.BigInt, 2),
		},
	}
	rows, err := engine.AggregateRows(context.Background(), spec,
		types.RowOf(1, "a", 10),
		types.RowOf(1, "a", 20),
		types.RowOf(2, "b", 5),
	)
	// rows: (1, 2, 30), (2, 1, 5)

# 输出布局

输出行 = 所有分组集的并集列（升序）+ 每个聚合调用一列。
某行所属分组集之外的键列为 NULL，与 SQL 的 GROUPING SETS 语义一致。

# 空值语义

所有聚合都跳过 NULL 操作数。没有任何有效输入的分组中，SUM/AVG/MIN/MAX 返回 NULL，
$SUM0 返回对应类型的零值，COUNT 返回 0。空输入不产生任何输出行。

# 自定义聚合

	reg := functions.NewRegistry()
	_ = functions.RegisterExpression(reg, types.ExprAggregate{
		Name: "product",
		Init: []string{"1"},
		Add:  []string{"acc[0] * arg"},
	}, "乘积")
	engine, _ := sqlagg.New(sqlagg.WithCatalog(reg))

表达式中 arg 表示当前行的操作数，acc[j] 表示第 j 个状态槽。编译结果按表达式和上下文布局缓存。

# 配置

	cfg, err := types.LoadConfig([]byte("strategy: hash\ncheckOrdering: true\n"))
	engine, err := sqlagg.New(sqlagg.WithConfig(cfg))
*/
package sqlagg
