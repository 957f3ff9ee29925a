package functions

import (
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/rulego/sqlagg/types"
)

// FunctionType 聚合函数的定义方式
type FunctionType string

const (
	// 表达式定义的聚合，执行前编译
	TypeExpression FunctionType = "expression"
	// 泛型类型化的 init/add/merge/result 实现
	TypeTyped FunctionType = "typed"
	// 通过反射解析 Init/Add/Merge/Result 方法
	TypeReflective FunctionType = "reflective"
)

// ErrAlreadyRegistered is returned when a name is taken
var ErrAlreadyRegistered = errors.New("aggregate function already registered")

// AggregateFunction is a catalog entry for a user-defined aggregate
type AggregateFunction interface {
	// GetName 获取函数名称
	GetName() string
	// GetType 获取定义方式
	GetType() FunctionType
	// GetDescription 获取函数描述
	GetDescription() string
	// ValidateArgCount 校验参数个数
	ValidateArgCount(argCount int) error
}

// ExpressionFunction is implemented by aggregates whose state update is written as expressions
type ExpressionFunction interface {
	AggregateFunction
	Definition() types.ExprAggregate
}

// HandleFunction is implemented by aggregates that expose init/add/merge/result handles
type HandleFunction interface {
	AggregateFunction
	// Handles resolves the operation handles. Called once per factory;
	// non-static aggregates get a fresh instance on every call.
	Handles() (AggregateHandles, error)
}

// Registry 聚合函数注册表
type Registry struct {
	mu        sync.RWMutex
	functions map[string]AggregateFunction
	byType    map[FunctionType][]AggregateFunction
}

// 全局注册表实例
var globalRegistry = NewRegistry()

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		functions: make(map[string]AggregateFunction),
		byType:    make(map[FunctionType][]AggregateFunction),
	}
}

// Register 注册函数，名称大小写不敏感
func (r *Registry) Register(fn AggregateFunction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(fn.GetName())
	if name == "" {
		return errors.New("aggregate function name must not be empty")
	}
	if _, exists := r.functions[name]; exists {
		return errors.Wrapf(ErrAlreadyRegistered, "register %s", name)
	}
	r.functions[name] = fn
	r.byType[fn.GetType()] = append(r.byType[fn.GetType()], fn)
	return nil
}

// Get 获取函数
func (r *Registry) Get(name string) (AggregateFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.functions[strings.ToLower(name)]
	return fn, exists
}

// GetByType 按定义方式获取函数列表
func (r *Registry) GetByType(fnType FunctionType) []AggregateFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AggregateFunction, len(r.byType[fnType]))
	copy(out, r.byType[fnType])
	return out
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister 注销函数
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(name)
	fn, exists := r.functions[name]
	if !exists {
		return false
	}
	delete(r.functions, name)

	fnType := fn.GetType()
	funcs := r.byType[fnType]
	for i, f := range funcs {
		if strings.ToLower(f.GetName()) == name {
			r.byType[fnType] = append(funcs[:i:i], funcs[i+1:]...)
			break
		}
	}
	return true
}

// Default returns the process-wide registry holding the built-in aggregates
func Default() *Registry {
	return globalRegistry
}

// 全局函数注册和获取方法
func Register(fn AggregateFunction) error {
	return globalRegistry.Register(fn)
}

func Get(name string) (AggregateFunction, bool) {
	return globalRegistry.Get(name)
}

func Unregister(name string) bool {
	return globalRegistry.Unregister(name)
}
