/*
 * Copyright 2024 The RuleGo Authors.
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

// Package cast converts loosely typed row values into the concrete Go types
// that typed accumulators operate on.
package cast

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	spf "github.com/spf13/cast"

	"github.com/rulego/sqlagg/types"
)

// ToFloat converts x to float64 and panics on failure.
// Use ToFloat64E when the input is untrusted.
func ToFloat(x any) float64 {
	f, err := ToFloat64E(x)
	if err != nil {
		panic(fmt.Sprintf("invalid operation: float(%T)", x))
	}
	return f
}

func ToString(arg any) string {
	return spf.ToString(arg)
}

func ToInt32E(x any) (int32, error) {
	if d, ok := asDecimal(x); ok {
		return int32(d.IntPart()), nil
	}
	return spf.ToInt32E(x)
}

func ToInt64E(x any) (int64, error) {
	if d, ok := asDecimal(x); ok {
		return d.IntPart(), nil
	}
	return spf.ToInt64E(x)
}

func ToInt64(x any) int64 {
	v, _ := ToInt64E(x)
	return v
}

func ToFloat32E(x any) (float32, error) {
	if d, ok := asDecimal(x); ok {
		f, _ := d.Float64()
		return float32(f), nil
	}
	return spf.ToFloat32E(x)
}

func ToFloat64E(x any) (float64, error) {
	if d, ok := asDecimal(x); ok {
		f, _ := d.Float64()
		return f, nil
	}
	return spf.ToFloat64E(x)
}

func ToBoolE(x any) (bool, error) {
	return spf.ToBoolE(x)
}

// ToDecimalE converts integers, floats, numeric strings and decimals to decimal.Decimal.
func ToDecimalE(x any) (decimal.Decimal, error) {
	if d, ok := asDecimal(x); ok {
		return d, nil
	}
	switch v := x.(type) {
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, fmt.Errorf("unable to cast %v of type %T to decimal", x, x)
		}
		return decimal.NewFromFloat32(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("unable to cast %v of type %T to decimal", x, x)
		}
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unable to cast %q to decimal: %w", v, err)
		}
		return d, nil
	case bool, nil:
		return decimal.Zero, fmt.Errorf("unable to cast %v of type %T to decimal", x, x)
	}
	i, err := spf.ToInt64E(x)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to cast %v of type %T to decimal", x, x)
	}
	return decimal.NewFromInt(i), nil
}

func asDecimal(x any) (decimal.Decimal, bool) {
	switch v := x.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v != nil {
			return *v, true
		}
	}
	return decimal.Zero, false
}

// Coerce converts a non-nil value to the Go representation of t.
// NULL stays NULL and Any leaves the value untouched.
func Coerce(x any, t types.DataType) (any, error) {
	if x == nil {
		return nil, nil
	}
	switch t {
	case types.Boolean:
		return ToBoolE(x)
	case types.Integer:
		return ToInt32E(x)
	case types.BigInt:
		return ToInt64E(x)
	case types.Float:
		return ToFloat32E(x)
	case types.Real, types.Double:
		return ToFloat64E(x)
	case types.Decimal:
		return ToDecimalE(x)
	case types.Varchar:
		return spf.ToStringE(x)
	}
	return x, nil
}
