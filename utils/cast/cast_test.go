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

package cast

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rulego/sqlagg/types"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect int64
		hasErr bool
	}{
		{"int", 123, 123, false},
		{"int8", int8(123), 123, false},
		{"int16", int16(123), 123, false},
		{"int32", int32(123), 123, false},
		{"int64", int64(123), 123, false},
		{"uint", uint(123), 123, false},
		{"uint8", uint8(123), 123, false},
		{"uint16", uint16(123), 123, false},
		{"uint32", uint32(123), 123, false},
		{"uint64", uint64(123), 123, false},
		{"decimal", decimal.NewFromInt(123), 123, false},
		{"string", "123", 123, false},
		{"invalid string", "abc", 0, true},
		{"invalid type", []int{1, 2, 3}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToInt64(tt.input)
			if got != tt.expect {
				t.Errorf("ToInt64() = %v, want %v", got, tt.expect)
			}

			_, err := ToInt64E(tt.input)
			if (err != nil) != tt.hasErr {
				t.Errorf("ToInt64E() error = %v, wantErr %v", err, tt.hasErr)
			}
		})
	}
}

func TestToFloat64E(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect float64
		hasErr bool
	}{
		{"float32", float32(1.5), 1.5, false},
		{"float64", 2.25, 2.25, false},
		{"int", 3, 3, false},
		{"decimal", decimal.RequireFromString("4.5"), 4.5, false},
		{"string", "6.5", 6.5, false},
		{"invalid", "x", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToFloat64E(tt.input)
			if (err != nil) != tt.hasErr {
				t.Fatalf("ToFloat64E() error = %v, wantErr %v", err, tt.hasErr)
			}
			if got != tt.expect {
				t.Errorf("ToFloat64E() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestToFloatPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("ToFloat should panic on invalid input")
		}
	}()
	ToFloat("abc")
}

func TestToDecimalE(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect string
		hasErr bool
	}{
		{"int", 12, "12", false},
		{"int64", int64(-7), "-7", false},
		{"float64", 1.25, "1.25", false},
		{"string", "10.50", "10.5", false},
		{"decimal pointer", func() *decimal.Decimal { d := decimal.NewFromInt(3); return &d }(), "3", false},
		{"bool", true, "", true},
		{"bad string", "1.2.3", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDecimalE(tt.input)
			if (err != nil) != tt.hasErr {
				t.Fatalf("ToDecimalE() error = %v, wantErr %v", err, tt.hasErr)
			}
			if !tt.hasErr && got.String() != tt.expect {
				t.Errorf("ToDecimalE() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		typ    types.DataType
		expect interface{}
	}{
		{"null", nil, types.BigInt, nil},
		{"any", "x", types.Any, "x"},
		{"integer", int64(5), types.Integer, int32(5)},
		{"bigint", 5, types.BigInt, int64(5)},
		{"float", 1.5, types.Float, float32(1.5)},
		{"double", float32(2.5), types.Double, 2.5},
		{"real", 3, types.Real, 3.0},
		{"boolean", "true", types.Boolean, true},
		{"varchar", 42, types.Varchar, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.input, tt.typ)
			if err != nil {
				t.Fatalf("Coerce() error = %v", err)
			}
			if got != tt.expect {
				t.Errorf("Coerce() = %#v, want %#v", got, tt.expect)
			}
		})
	}

	d, err := Coerce(7, types.Decimal)
	if err != nil || !d.(decimal.Decimal).Equal(decimal.NewFromInt(7)) {
		t.Errorf("Coerce(7, DECIMAL) = %v, %v", d, err)
	}
	if _, err := Coerce("abc", types.BigInt); err == nil {
		t.Errorf("Coerce(abc, BIGINT) should fail")
	}
}
