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

package sqlagg

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/aggregator"
	"github.com/rulego/sqlagg/functions"
	"github.com/rulego/sqlagg/logger"
	"github.com/rulego/sqlagg/operator"
	"github.com/rulego/sqlagg/types"
)

// Engine builds aggregate operators from planner-supplied specifications.
// An Engine is safe to share; every operator it builds is single-threaded.
//
// 使用示例:
//
//	engine, err := sqlagg.New(sqlagg.WithStrategy(types.StrategyHash))
//	op, err := engine.Aggregate(upstream, spec)
//	rows, err := sqlagg.Collect(ctx, op)
type Engine struct {
	cfg      types.Config
	catalog  aggregator.Catalog
	log      logger.Logger
	compiler *aggregator.Compiler
	resolver *aggregator.Resolver
}

// New 创建一个新的聚合引擎。
// 配置在所有选项生效后统一校验。
//
// 示例:
//
//	// 创建默认实例
//	engine, err := sqlagg.New()
//
//	// 哈希分组并关闭日志
//	engine, err := sqlagg.New(sqlagg.WithStrategy(types.StrategyHash), sqlagg.WithDiscardLog())
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     types.NewConfig(),
		catalog: functions.Default(),
	}
	for _, option := range options {
		option(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine config")
	}
	if e.log == nil {
		level, err := logger.ParseLevel(e.cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		e.log = logger.NewLogger(level, os.Stdout)
	}
	compiler, err := aggregator.NewCompiler(e.cfg.ProgramCacheSize)
	if err != nil {
		return nil, err
	}
	compiler.SetLogger(e.log)
	e.compiler = compiler
	e.resolver = aggregator.NewResolver(
		aggregator.WithCatalog(e.catalog),
		aggregator.WithCompiler(compiler),
		aggregator.WithDecimalPrecision(e.cfg.DecimalDivisionPrecision),
		aggregator.WithLogger(e.log),
	)
	e.log.Debug("aggregate engine created, strategy=%s checkOrdering=%v", e.cfg.Strategy, e.cfg.CheckOrdering)
	return e, nil
}

// Config returns the effective configuration
func (e *Engine) Config() types.Config {
	return e.cfg
}

// Logger returns the engine logger
func (e *Engine) Logger() logger.Logger {
	return e.log
}

// CachedPrograms returns the number of compiled expression programs held by the engine
func (e *Engine) CachedPrograms() int {
	return e.compiler.CachedPrograms()
}

// Aggregate resolves every call of spec and wraps input in an aggregate operator.
// All resolution errors surface here, before any row is read.
func (e *Engine) Aggregate(input operator.Operator, spec types.AggregateSpec) (*operator.AggregateOp, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	factories, err := e.resolver.NewFactories(spec)
	if err != nil {
		e.log.Warn("resolve aggregate calls: %v", err)
		return nil, err
	}
	return operator.NewAggregateOp(input, spec, factories, e.cfg, e.log)
}

// AggregateRows aggregates rows already held in memory
func (e *Engine) AggregateRows(ctx context.Context, spec types.AggregateSpec, rows ...types.Row) ([]types.Row, error) {
	op, err := e.Aggregate(operator.NewValuesOp(rows...), spec)
	if err != nil {
		return nil, err
	}
	return Collect(ctx, op)
}

// Collect opens op, reads it to the end and closes it.
// op is closed even when reading fails.
func Collect(ctx context.Context, op operator.Operator) (rows []types.Row, err error) {
	defer func() {
		err = errors.CombineErrors(err, op.Close())
	}()
	if err = op.Open(ctx); err != nil {
		return nil, err
	}
	for {
		row, err := op.Next(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return rows, nil
		}
		rows = append(rows, row)
	}
}
