package functions

import (
	"github.com/cockroachdb/errors"
)

// BaseFunction 基础函数实现，提供通用功能
type BaseFunction struct {
	name        string
	fnType      FunctionType
	description string
	minArgs     int
	maxArgs     int // -1 表示无限制
}

// NewBaseFunction 创建基础函数
func NewBaseFunction(name string, fnType FunctionType, description string, minArgs, maxArgs int) *BaseFunction {
	return &BaseFunction{
		name:        name,
		fnType:      fnType,
		description: description,
		minArgs:     minArgs,
		maxArgs:     maxArgs,
	}
}

func (bf *BaseFunction) GetName() string {
	return bf.name
}

func (bf *BaseFunction) GetType() FunctionType {
	return bf.fnType
}

func (bf *BaseFunction) GetDescription() string {
	return bf.description
}

// ValidateArgCount 验证参数数量
func (bf *BaseFunction) ValidateArgCount(argCount int) error {
	if argCount < bf.minArgs {
		return errors.Newf("function %s requires at least %d arguments, got %d", bf.name, bf.minArgs, argCount)
	}
	if bf.maxArgs != -1 && argCount > bf.maxArgs {
		return errors.Newf("function %s accepts at most %d arguments, got %d", bf.name, bf.maxArgs, argCount)
	}
	return nil
}
