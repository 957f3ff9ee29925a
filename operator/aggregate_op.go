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

	"github.com/rulego/sqlagg/aggregator"
	"github.com/rulego/sqlagg/logger"
	"github.com/rulego/sqlagg/types"
)

// AggregateOp exposes a grouping iterator through the Operator protocol.
// It owns its input and closes it exactly once.
type AggregateOp struct {
	BaseOp
	input     Operator
	spec      types.AggregateSpec
	factories []aggregator.Factory
	cfg       types.Config
	log       logger.Logger
	iter      aggregator.GroupIterator
}

// NewAggregateOp creates an aggregate operator over input.
// factories must be in call order, one per call of spec.
func NewAggregateOp(input Operator, spec types.AggregateSpec, factories []aggregator.Factory, cfg types.Config, log logger.Logger) (*AggregateOp, error) {
	if input == nil {
		return nil, errors.New("aggregate operator requires an input")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(factories) != len(spec.Calls) {
		return nil, errors.Newf("%d factories for %d aggregate calls", len(factories), len(spec.Calls))
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &AggregateOp{
		input:     input,
		spec:      spec,
		factories: factories,
		cfg:       cfg,
		log:       log,
	}, nil
}

// Spec returns the AggregateSpec the operator executes
func (o *AggregateOp) Spec() types.AggregateSpec {
	return o.spec
}

// Width returns the output row width: union key columns followed by one column per call
func (o *AggregateOp) Width() int {
	return o.spec.OutputWidth()
}

// Open opens the input and builds the grouping iterator.
// Calls after the first successful one are no-ops.
func (o *AggregateOp) Open(ctx context.Context) error {
	if o.IsClosed() {
		return ErrClosed
	}
	if o.iter != nil {
		return nil
	}
	if err := o.input.Open(ctx); err != nil {
		return errors.Wrap(err, "open aggregate input")
	}
	iter, err := aggregator.NewGroupIterator(o.input, o.spec, o.factories, o.cfg, o.log)
	if err != nil {
		o.log.Warn("aggregate open failed: %v", err)
		return err
	}
	o.iter = iter
	o.state = stateOpen
	o.log.Debug("aggregate opened, %d grouping sets, %d calls", len(o.spec.Sets()), len(o.spec.Calls))
	return nil
}

// Next returns the next output row, nil once every group was emitted
func (o *AggregateOp) Next(ctx context.Context) (types.Row, error) {
	if err := o.checkNext(); err != nil {
		return nil, err
	}
	row, err := o.iter.Next(ctx)
	if err != nil {
		o.log.Warn("aggregate failed: %v", err)
		return nil, err
	}
	return row, nil
}

// Close closes the input. Further calls return nil.
func (o *AggregateOp) Close() error {
	if !o.markClosed() {
		return nil
	}
	o.iter = nil
	o.log.Debug("aggregate closed")
	return o.input.Close()
}

// IsRewindSupported is true: output is a pure function of the input,
// so replaying the input replays the output.
func (o *AggregateOp) IsRewindSupported() bool {
	return true
}
