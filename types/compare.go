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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type numClass int

const (
	notNumeric numClass = iota
	intClass
	floatClass
	decimalClass
)

func classify(v any) (numClass, int64, float64) {
	switch x := v.(type) {
	case int:
		return intClass, int64(x), 0
	case int8:
		return intClass, int64(x), 0
	case int16:
		return intClass, int64(x), 0
	case int32:
		return intClass, int64(x), 0
	case int64:
		return intClass, x, 0
	case uint:
		if uint64(x) > math.MaxInt64 {
			return floatClass, 0, float64(x)
		}
		return intClass, int64(x), 0
	case uint8:
		return intClass, int64(x), 0
	case uint16:
		return intClass, int64(x), 0
	case uint32:
		return intClass, int64(x), 0
	case uint64:
		if x > math.MaxInt64 {
			return floatClass, 0, float64(x)
		}
		return intClass, int64(x), 0
	case float32:
		return floatClass, 0, float64(x)
	case float64:
		return floatClass, 0, x
	case decimal.Decimal:
		return decimalClass, 0, 0
	}
	return notNumeric, 0, 0
}

func toDecimal(v any, class numClass, i int64, f float64) decimal.Decimal {
	switch class {
	case intClass:
		return decimal.NewFromInt(i)
	case floatClass:
		return decimal.NewFromFloat(f)
	}
	return v.(decimal.Decimal)
}

// Compare orders two values: NULL sorts before everything, numbers compare
// across integer, float and decimal representations, booleans order false < true.
// Values of unrelated types fall back to comparing their text forms.
func Compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	ca, ia, fa := classify(a)
	cb, ib, fb := classify(b)
	if ca != notNumeric && cb != notNumeric {
		switch {
		case ca == decimalClass || cb == decimalClass:
			return toDecimal(a, ca, ia, fa).Cmp(toDecimal(b, cb, ib, fb))
		case ca == intClass && cb == intClass:
			return cmpOrdered(ia, ib)
		default:
			if ca == intClass {
				fa = float64(ia)
			}
			if cb == intClass {
				fb = float64(ib)
			}
			return cmpFloat(fa, fb)
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return cmpBool(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// CompareKeys compares two key rows projected from cols under the collation.
func CompareKeys(a, b Row, cols []int, coll Collation) int {
	for i, col := range cols {
		fc := coll.For(col)
		av, bv := a[i], b[i]
		var c int
		if (av == nil) != (bv == nil) {
			// NULL placement is independent of direction
			c = 1
			if (av == nil) == fc.NullsFirst {
				c = -1
			}
		} else {
			c = Compare(av, bv)
			if fc.Direction == Descending {
				c = -c
			}
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// EncodeKey produces a deterministic string for a key row, used as a hash map key.
// Numerically equal values share an encoding across integer widths, floats
// and decimals, so hash grouping agrees with Compare.
func EncodeKey(key Row) string {
	var sb strings.Builder
	for _, v := range key {
		encodeValue(&sb, v)
		sb.WriteByte(0)
	}
	return sb.String()
}

var (
	minIntKey = decimal.NewFromInt(math.MinInt64)
	maxIntKey = decimal.NewFromInt(math.MaxInt64)
)

func encodeValue(sb *strings.Builder, v any) {
	if v == nil {
		sb.WriteString("n")
		return
	}
	class, i, f := classify(v)
	switch class {
	case intClass:
		sb.WriteString("i")
		sb.WriteString(strconv.FormatInt(i, 10))
		return
	case floatClass:
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			sb.WriteString("i")
			sb.WriteString(strconv.FormatInt(int64(f), 10))
			return
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			sb.WriteString("f")
			sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			return
		}
		// fractional floats share the decimal encoding
		sb.WriteString("d")
		sb.WriteString(decimal.NewFromFloat(f).String())
		return
	case decimalClass:
		d := v.(decimal.Decimal)
		if d.IsInteger() && !d.LessThan(minIntKey) && !d.GreaterThan(maxIntKey) {
			sb.WriteString("i")
			sb.WriteString(strconv.FormatInt(d.IntPart(), 10))
			return
		}
		sb.WriteString("d")
		sb.WriteString(d.String())
		return
	}
	switch x := v.(type) {
	case string:
		sb.WriteString("s")
		sb.WriteString(strconv.Itoa(len(x)))
		sb.WriteByte(':')
		sb.WriteString(x)
	case bool:
		if x {
			sb.WriteString("t")
		} else {
			sb.WriteString("b")
		}
	case time.Time:
		sb.WriteString("T")
		sb.WriteString(strconv.FormatInt(x.UnixNano(), 10))
	default:
		s := fmt.Sprintf("%T:%v", v, v)
		sb.WriteString("o")
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	}
}

type ordered interface {
	~int64 | ~float64 | ~string
}

func cmpOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// cmpFloat treats NaN as smaller than every number and equal to itself
func cmpFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	return cmpOrdered(a, b)
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
