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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rulego/sqlagg/types"
)

// ColumnNames builds default headers $0..$n-1 for rows of width n
func ColumnNames(width int) []string {
	names := make([]string, width)
	for i := range names {
		names[i] = fmt.Sprintf("$%d", i)
	}
	return names
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

// FprintRows writes rows as a text table.
// Missing headers fall back to $i, NULL values are printed as NULL.
func FprintRows(w io.Writer, columns []string, rows []types.Row) {
	width := len(columns)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	headers := ColumnNames(width)
	copy(headers, columns)

	// Calculate maximum width for each column, minimum 4
	colWidths := make([]int, width)
	for i, col := range headers {
		colWidths[i] = max(len(col), 4)
		for _, row := range rows {
			if i < len(row) {
				colWidths[i] = max(colWidths[i], len(formatValue(row[i])))
			}
		}
	}

	FprintTableBorder(w, colWidths)
	fmt.Fprint(w, "|")
	for i, col := range headers {
		fmt.Fprintf(w, " %-*s |", colWidths[i], col)
	}
	fmt.Fprintln(w)
	FprintTableBorder(w, colWidths)

	for _, row := range rows {
		fmt.Fprint(w, "|")
		for i := range headers {
			val := ""
			if i < len(row) {
				val = formatValue(row[i])
			}
			fmt.Fprintf(w, " %-*s |", colWidths[i], val)
		}
		fmt.Fprintln(w)
	}
	FprintTableBorder(w, colWidths)
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// PrintRows prints rows as a text table to stdout
func PrintRows(columns []string, rows []types.Row) {
	FprintRows(os.Stdout, columns, rows)
}

// FprintTableBorder writes a table border
func FprintTableBorder(w io.Writer, columnWidths []int) {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, width := range columnWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteByte('+')
	}
	fmt.Fprintln(w, sb.String())
}

// FormatTableData formats a result set, a single row or any other value
func FormatTableData(w io.Writer, result interface{}, columns []string) {
	switch v := result.(type) {
	case []types.Row:
		FprintRows(w, columns, v)
	case types.Row:
		FprintRows(w, columns, []types.Row{v})
	default:
		// For non-table data, print directly
		fmt.Fprintf(w, "Result: %v\n", result)
	}
}
