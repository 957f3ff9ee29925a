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

package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rulego/sqlagg/types"
)

// TestFprintRows 测试表格打印功能
func TestFprintRows(t *testing.T) {
	var buf bytes.Buffer
	FprintRows(&buf, []string{"k", "count"}, []types.Row{
		{1, int64(2)},
		{nil, int64(10)},
	})
	expect := "" +
		"+------+-------+\n" +
		"| k    | count |\n" +
		"+------+-------+\n" +
		"| 1    | 2     |\n" +
		"| NULL | 10    |\n" +
		"+------+-------+\n" +
		"(2 rows)\n"
	assert.Equal(t, expect, buf.String())

	// 缺少列名时使用位置名
	buf.Reset()
	FprintRows(&buf, nil, []types.Row{{"a", 1.5}})
	assert.Contains(t, buf.String(), "| $0   | $1   |")
	assert.Contains(t, buf.String(), "| a    | 1.5  |")

	// 测试空数据
	buf.Reset()
	FprintRows(&buf, nil, nil)
	assert.Equal(t, "(0 rows)\n", buf.String())

	// 只有列名
	buf.Reset()
	FprintRows(&buf, []string{"sum"}, nil)
	assert.Contains(t, buf.String(), "(0 rows)")
	assert.Contains(t, buf.String(), "| sum  |")
}

// TestFprintTableBorder 测试边框打印功能
func TestFprintTableBorder(t *testing.T) {
	var buf bytes.Buffer
	FprintTableBorder(&buf, []int{5, 8})
	assert.Equal(t, "+-------+----------+\n", buf.String())

	buf.Reset()
	FprintTableBorder(&buf, []int{})
	assert.Equal(t, "+\n", buf.String())
}

func TestFormatTableData(t *testing.T) {
	var buf bytes.Buffer
	FormatTableData(&buf, types.Row{1, 2}, []string{"a", "b"})
	assert.Contains(t, buf.String(), "(1 rows)")

	buf.Reset()
	FormatTableData(&buf, 42, nil)
	assert.Equal(t, "Result: 42\n", buf.String())

	assert.NotPanics(t, func() {
		PrintRows([]string{"x"}, []types.Row{{1}})
	})
}
