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

var (
	// ErrNotOpen is returned by Next before Open
	ErrNotOpen = errors.New("operator not open")
	// ErrClosed is returned by Open and Next after Close
	ErrClosed = errors.New("operator closed")
)

// Operator is the pull protocol between plan nodes.
// Next returns a nil row once the stream is exhausted.
type Operator interface {
	Open(ctx context.Context) error
	Next(ctx context.Context) (types.Row, error)
	// Close releases resources. Safe to call at any point and more than once.
	Close() error
	// IsRewindSupported reports whether the operator can replay its output from the start
	IsRewindSupported() bool
}

type opState int

const (
	stateUnopened opState = iota
	stateOpen
	stateClosed
)

// BaseOp tracks the lifecycle shared by all operators
type BaseOp struct {
	state opState
}

// checkNext reports whether Next may pull rows
func (o *BaseOp) checkNext() error {
	switch o.state {
	case stateUnopened:
		return ErrNotOpen
	case stateClosed:
		return ErrClosed
	}
	return nil
}

// markClosed switches to closed and reports whether this call did it
func (o *BaseOp) markClosed() bool {
	if o.state == stateClosed {
		return false
	}
	o.state = stateClosed
	return true
}

// IsOpen 是否处于打开状态
func (o *BaseOp) IsOpen() bool {
	return o.state == stateOpen
}

// IsClosed 是否已关闭
func (o *BaseOp) IsClosed() bool {
	return o.state == stateClosed
}
