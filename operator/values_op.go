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

package operator

import (
	"context"

	"github.com/rulego/sqlagg/types"
)

// ValuesOp produces a fixed list of rows
type ValuesOp struct {
	BaseOp
	rows []types.Row
	pos  int
}

// NewValuesOp creates an operator over rows. The rows are not copied.
func NewValuesOp(rows ...types.Row) *ValuesOp {
	return &ValuesOp{rows: rows}
}

func (o *ValuesOp) Open(ctx context.Context) error {
	if o.IsClosed() {
		return ErrClosed
	}
	o.state = stateOpen
	return nil
}

func (o *ValuesOp) Next(ctx context.Context) (types.Row, error) {
	if err := o.checkNext(); err != nil {
		return nil, err
	}
	if o.pos >= len(o.rows) {
		return nil, nil
	}
	row := o.rows[o.pos]
	o.pos++
	return row, nil
}

// Rewind restarts the stream from the first row
func (o *ValuesOp) Rewind() {
	o.pos = 0
}

func (o *ValuesOp) Close() error {
	o.markClosed()
	return nil
}

func (o *ValuesOp) IsRewindSupported() bool {
	return true
}
