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
	"io"

	"github.com/rulego/sqlagg/aggregator"
	"github.com/rulego/sqlagg/logger"
	"github.com/rulego/sqlagg/types"
)

// Option 表示对Engine默认行为的修改配置。
// 选项按传入顺序依次生效，后面的选项覆盖前面的同名设置。
type Option func(*Engine)

// WithConfig 使用完整配置替换默认配置。
// 通常与types.LoadConfig配合，从YAML或JSON文件加载。
//
// 示例:
//
//	cfg, err := types.LoadConfig(data)
//	engine, err := sqlagg.New(sqlagg.WithConfig(cfg))
func WithConfig(cfg types.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger 设置自定义日志记录器。
//
// 参数:
//   - log: 实现了logger.Logger接口的日志记录器
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	engine, err := sqlagg.New(sqlagg.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithLogLevel 设置日志级别，覆盖配置中的logLevel。
//
// 参数:
//   - level: 日志级别，可选值：DEBUG, INFO, WARN, ERROR, OFF
func WithLogLevel(level logger.Level) Option {
	return func(e *Engine) {
		e.cfg.LogLevel = level.String()
		if e.log != nil {
			e.log.SetLevel(level)
		}
	}
}

// WithLogOutput 设置日志输出目标。
//
// 示例:
//
//	logFile, _ := os.OpenFile("sqlagg.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	engine, err := sqlagg.New(sqlagg.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(e *Engine) {
		e.log = logger.NewLogger(level, output)
	}
}

// WithDiscardLog 禁用所有日志输出
func WithDiscardLog() Option {
	return func(e *Engine) {
		e.log = logger.NewDiscardLogger()
	}
}

// WithStrategy 设置分组策略。
//
// 策略选项:
//   - types.StrategyAuto: 单个分组集使用排序归并，多个分组集使用哈希（默认）
//   - types.StrategySort: 排序归并，要求输入已按分组键排序，只支持单个分组集
//   - types.StrategyHash: 哈希分组，对输入顺序无要求，需要缓存全部分组
func WithStrategy(strategy types.Strategy) Option {
	return func(e *Engine) {
		e.cfg.Strategy = strategy
	}
}

// WithCheckOrdering 开启排序归并输入的顺序校验。
// 开启后，乱序输入返回aggregator.ErrUnsortedInput，而不是输出重复分组。
func WithCheckOrdering(check bool) Option {
	return func(e *Engine) {
		e.cfg.CheckOrdering = check
	}
}

// WithCatalog 设置自定义聚合函数目录，默认使用functions.Default()
//
// 示例:
//
//	reg := functions.NewRegistry()
//	_ = functions.RegisterType(reg, "geomean", "几何平均数", geomean{})
//	engine, err := sqlagg.New(sqlagg.WithCatalog(reg))
func WithCatalog(catalog aggregator.Catalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithProgramCacheSize 设置表达式聚合编译缓存的容量
func WithProgramCacheSize(size int) Option {
	return func(e *Engine) {
		e.cfg.ProgramCacheSize = size
	}
}

// WithDecimalPrecision 设置DECIMAL平均值的小数位数
func WithDecimalPrecision(precision int32) Option {
	return func(e *Engine) {
		e.cfg.DecimalDivisionPrecision = precision
	}
}
