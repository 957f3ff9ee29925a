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
	"strings"

	"github.com/cockroachdb/errors"
)

// DataType 声明的结果类型，用于选择类型特化的累加策略
type DataType int

const (
	// Any 未声明类型，不做强制转换
	Any DataType = iota
	// Boolean maps to bool
	Boolean
	// Integer maps to int32
	Integer
	// BigInt maps to int64
	BigInt
	// Float maps to float32
	Float
	// Real maps to float64
	Real
	// Double maps to float64
	Double
	// Decimal maps to decimal.Decimal
	Decimal
	// Varchar maps to string
	Varchar
)

var dataTypeNames = map[DataType]string{
	Any:     "ANY",
	Boolean: "BOOLEAN",
	Integer: "INTEGER",
	BigInt:  "BIGINT",
	Float:   "FLOAT",
	Real:    "REAL",
	Double:  "DOUBLE",
	Decimal: "DECIMAL",
	Varchar: "VARCHAR",
}

var dataTypeAliases = map[string]DataType{
	"ANY":     Any,
	"BOOL":    Boolean,
	"BOOLEAN": Boolean,
	"INT":     Integer,
	"INTEGER": Integer,
	"BIGINT":  BigInt,
	"LONG":    BigInt,
	"FLOAT":   Float,
	"REAL":    Real,
	"DOUBLE":  Double,
	"DECIMAL": Decimal,
	"NUMERIC": Decimal,
	"VARCHAR": Varchar,
	"STRING":  Varchar,
	"TEXT":    Varchar,
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsNumeric reports whether values of t take part in arithmetic
func (t DataType) IsNumeric() bool {
	switch t {
	case Integer, BigInt, Float, Real, Double, Decimal:
		return true
	}
	return false
}

// ParseDataType resolves a type name, case-insensitively
func ParseDataType(name string) (DataType, error) {
	if t, ok := dataTypeAliases[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return Any, errors.Newf("unknown data type %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (t DataType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *DataType) UnmarshalText(text []byte) error {
	parsed, err := ParseDataType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AggKind 聚合函数种类
type AggKind int

const (
	Count AggKind = iota
	Sum
	Sum0
	Avg
	Min
	Max
	// Other covers every aggregate without a built-in accumulator.
	// It is resolved through the catalog.
	Other
)

var aggKindNames = []string{"COUNT", "SUM", "$SUM0", "AVG", "MIN", "MAX", "OTHER"}

func (k AggKind) String() string {
	if int(k) >= 0 && int(k) < len(aggKindNames) {
		return aggKindNames[k]
	}
	return "UNKNOWN"
}

// ParseAggKind maps a function name to its kind.
// Names without a built-in accumulator map to Other.
func ParseAggKind(name string) AggKind {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "COUNT":
		return Count
	case "SUM":
		return Sum
	case "SUM0", "$SUM0":
		return Sum0
	case "AVG":
		return Avg
	case "MIN":
		return Min
	case "MAX":
		return Max
	default:
		return Other
	}
}

// MarshalText implements encoding.TextMarshaler
func (k AggKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *AggKind) UnmarshalText(text []byte) error {
	*k = ParseAggKind(string(text))
	return nil
}
