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

	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/types"
)

// LimitOp passes at most Limit rows of its input through
type LimitOp struct {
	BaseOp
	input Operator
	Limit int
	count int
}

// NewLimitOp caps input at limit rows
func NewLimitOp(input Operator, limit int) (*LimitOp, error) {
	if limit < 0 {
		return nil, errors.Newf("limit must not be negative, got %d", limit)
	}
	return &LimitOp{input: input, Limit: limit}, nil
}

func (o *LimitOp) Open(ctx context.Context) error {
	if o.IsClosed() {
		return ErrClosed
	}
	if o.IsOpen() {
		return nil
	}
	if err := o.input.Open(ctx); err != nil {
		return err
	}
	o.state = stateOpen
	return nil
}

func (o *LimitOp) Next(ctx context.Context) (types.Row, error) {
	if err := o.checkNext(); err != nil {
		return nil, err
	}
	// stop pulling once the limit is reached
	if o.count >= o.Limit {
		return nil, nil
	}
	row, err := o.input.Next(ctx)
	if err != nil || row == nil {
		return row, err
	}
	o.count++
	return row, nil
}

func (o *LimitOp) Close() error {
	if !o.markClosed() {
		return nil
	}
	return o.input.Close()
}

func (o *LimitOp) IsRewindSupported() bool {
	return o.input.IsRewindSupported()
}
