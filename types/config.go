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
	"gopkg.in/yaml.v3"
)

// Strategy 分组策略
type Strategy string

const (
	// StrategyAuto picks sort-merge for a single grouping set and hash otherwise
	StrategyAuto Strategy = "auto"
	// StrategySort streams groups from input sorted by the key columns
	StrategySort Strategy = "sort"
	// StrategyHash buffers every group of every grouping set until end of input
	StrategyHash Strategy = "hash"
)

// Config 聚合执行配置
type Config struct {
	// 分组策略: auto, sort, hash
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	// 排序合并分组时校验输入是否按键有序
	CheckOrdering bool `json:"checkOrdering" yaml:"checkOrdering"`
	// 编译后表达式程序的缓存容量
	ProgramCacheSize int `json:"programCacheSize" yaml:"programCacheSize"`
	// DECIMAL 平均值除法保留的小数位
	DecimalDivisionPrecision int32 `json:"decimalDivisionPrecision" yaml:"decimalDivisionPrecision"`
	// 日志级别: debug, info, warn, error, off
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		Strategy:                 StrategyAuto,
		CheckOrdering:            false,
		ProgramCacheSize:         128,
		DecimalDivisionPrecision: 16,
		LogLevel:                 "info",
	}
}

// LoadConfig parses a YAML or JSON document over the defaults.
// Keys absent from the document keep their default values.
func LoadConfig(data []byte) (Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	return cfg, cfg.Validate()
}

type callDoc struct {
	Kind       AggKind        `yaml:"kind"`
	Name       string         `yaml:"name"`
	Args       []int          `yaml:"args"`
	FilterArg  *int           `yaml:"filterArg"`
	ResultType DataType       `yaml:"resultType"`
	Inline     *ExprAggregate `yaml:"inline"`
}

type specDoc struct {
	InputWidth int        `yaml:"inputWidth"`
	GroupSets  []GroupSet `yaml:"groupSets"`
	Calls      []callDoc  `yaml:"calls"`
	Collation  Collation  `yaml:"collation"`
}

// LoadAggregateSpec parses an aggregate description from YAML or JSON.
// Calls without an explicit filterArg are unfiltered.
func LoadAggregateSpec(data []byte) (AggregateSpec, error) {
	var doc specDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return AggregateSpec{}, errors.Wrap(err, "parse aggregate spec")
	}
	spec := AggregateSpec{
		InputWidth: doc.InputWidth,
		GroupSets:  doc.GroupSets,
		Collation:  doc.Collation,
		Calls:      make([]AggregateCall, 0, len(doc.Calls)),
	}
	for _, c := range doc.Calls {
		call := AggregateCall{
			Kind:       c.Kind,
			Name:       c.Name,
			Args:       c.Args,
			FilterArg:  NoFilter,
			ResultType: c.ResultType,
			Inline:     c.Inline,
		}
		if c.FilterArg != nil {
			call.FilterArg = *c.FilterArg
		}
		if call.Name == "" {
			call.Name = call.Kind.String()
		}
		spec.Calls = append(spec.Calls, call)
	}
	return spec, spec.Validate()
}

// Validate 校验配置
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyAuto, StrategySort, StrategyHash:
	default:
		return errors.Newf("invalid strategy %q, expected one of auto, sort, hash", c.Strategy)
	}
	if c.ProgramCacheSize <= 0 {
		return errors.Newf("programCacheSize must be positive, got %d", c.ProgramCacheSize)
	}
	if c.DecimalDivisionPrecision < 0 {
		return errors.Newf("decimalDivisionPrecision must not be negative, got %d", c.DecimalDivisionPrecision)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error", "off":
	default:
		return errors.Newf("invalid logLevel %q", c.LogLevel)
	}
	return nil
}
