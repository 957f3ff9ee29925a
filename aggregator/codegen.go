package aggregator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru"

	"github.com/rulego/sqlagg/logger"
	"github.com/rulego/sqlagg/types"
	"github.com/rulego/sqlagg/utils/cast"
)

const (
	// operand placeholder in add expressions
	argIdent = "arg"
	// state placeholder, indexed as acc[j]
	accIdent = "acc"
	// the single variable compiled programs read from
	valuesIdent = "values"
)

// Compiler synthesizes and compiles expression aggregates.
// Compiled programs are immutable and cached by source and context layout,
// so repeated queries over the same aggregate skip compilation.
type Compiler struct {
	cache *lru.Cache
	log   logger.Logger
}

// NewCompiler creates a compiler caching up to cacheSize programs
func NewCompiler(cacheSize int) (*Compiler, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create program cache")
	}
	return &Compiler{cache: cache, log: logger.GetDefault()}, nil
}

// SetLogger sets the logger for cache and compilation events
func (c *Compiler) SetLogger(l logger.Logger) {
	if l != nil {
		c.log = l
	}
}

// CachedPrograms returns the number of programs in the cache
func (c *Compiler) CachedPrograms() int {
	return c.cache.Len()
}

// slotPatcher rewrites `arg` and `acc[j]` into positions of the flat values context
type slotPatcher struct {
	argCol     int
	accOffset  int
	stateWidth int
	err        error
}

func valuesAt(i int) *ast.MemberNode {
	return &ast.MemberNode{
		Node:     &ast.IdentifierNode{Value: valuesIdent},
		Property: &ast.IntegerNode{Value: i},
	}
}

func (p *slotPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if n.Value != argIdent {
			return
		}
		if p.argCol < 0 {
			p.fail(errors.Newf("%q is not available here", argIdent))
			return
		}
		ast.Patch(node, valuesAt(p.argCol))
	case *ast.MemberNode:
		id, ok := n.Node.(*ast.IdentifierNode)
		if !ok || id.Value != accIdent {
			return
		}
		idx, ok := n.Property.(*ast.IntegerNode)
		if !ok {
			p.fail(errors.Newf("%s must be indexed by an integer literal", accIdent))
			return
		}
		if idx.Value < 0 || idx.Value >= p.stateWidth {
			p.fail(errors.Newf("%s[%d] out of range, state has %d slots", accIdent, idx.Value, p.stateWidth))
			return
		}
		ast.Patch(node, valuesAt(p.accOffset+idx.Value))
	}
}

func (p *slotPatcher) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// compile returns the cached program for source under the given layout
func (c *Compiler) compile(source string, width int, patcher *slotPatcher) (*vm.Program, error) {
	key := fmt.Sprintf("%s|w=%d|arg=%d|acc=%d+%d", source, width, patcher.argCol, patcher.accOffset, patcher.stateWidth)
	if p, ok := c.cache.Get(key); ok {
		c.log.Debug("program cache hit: %s", source)
		return p.(*vm.Program), nil
	}
	env := map[string]interface{}{valuesIdent: make([]interface{}, width)}
	program, err := expr.Compile(source, expr.Env(env), expr.Patch(patcher))
	if patcher.err != nil {
		return nil, patcher.err
	}
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, program)
	c.log.Debug("compiled aggregate program: %s", source)
	return program, nil
}

// synthesizeAdd joins the per-slot update expressions into one routine
// producing the next state as a list
func synthesizeAdd(exprs []string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = "(" + e + ")"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Build compiles def into a routine bound to call and an input row width.
// The result is shared by every group of one operator.
func (c *Compiler) Build(call types.AggregateCall, def types.ExprAggregate, inputWidth int) (*CompiledAggregate, error) {
	if len(call.Args) != 1 {
		return nil, unsupportedShape(call, "expression aggregate takes exactly one operand, got %d", len(call.Args))
	}
	stateWidth := def.StateWidth()
	if stateWidth == 0 {
		return nil, compilationError(call, errors.New("no state slots defined"))
	}
	if len(def.Add) != stateWidth {
		return nil, compilationError(call, errors.Newf("%d add expressions for %d state slots", len(def.Add), stateWidth))
	}

	init := make([]any, stateWidth)
	for i, src := range def.Init {
		v, err := expr.Eval(src, nil)
		if err != nil {
			return nil, compilationError(call, errors.Wrapf(err, "init[%d]", i))
		}
		init[i] = v
	}

	addProgram, err := c.compile(synthesizeAdd(def.Add), inputWidth+stateWidth, &slotPatcher{
		argCol:     call.Args[0],
		accOffset:  inputWidth,
		stateWidth: stateWidth,
	})
	if err != nil {
		return nil, compilationError(call, errors.Wrap(err, "add"))
	}

	var resultProgram *vm.Program
	if strings.TrimSpace(def.Result) != "" {
		resultProgram, err = c.compile(def.Result, stateWidth, &slotPatcher{
			argCol:     -1,
			accOffset:  0,
			stateWidth: stateWidth,
		})
		if err != nil {
			return nil, compilationError(call, errors.Wrap(err, "result"))
		}
	}

	sendCtx := make([]any, inputWidth+stateWidth)
	endCtx := make([]any, stateWidth)
	return &CompiledAggregate{
		call:       call,
		inputWidth: inputWidth,
		stateWidth: stateWidth,
		arg:        call.Args[0],
		init:       init,
		add:        addProgram,
		result:     resultProgram,
		sendCtx:    sendCtx,
		endCtx:     endCtx,
		sendEnv:    map[string]any{valuesIdent: sendCtx},
		endEnv:     map[string]any{valuesIdent: endCtx},
	}, nil
}

// CompiledAggregate is a compiled update and finalize routine plus the
// scratch contexts they evaluate in. The contexts are reused across groups.
// State buffers belong to the accumulators.
type CompiledAggregate struct {
	call       types.AggregateCall
	inputWidth int
	stateWidth int
	arg        int
	init       []any
	add        *vm.Program
	result     *vm.Program
	sendCtx    []any
	endCtx     []any
	sendEnv    map[string]any
	endEnv     map[string]any
}

// StateWidth returns the number of state slots
func (c *CompiledAggregate) StateWidth() int {
	return c.stateWidth
}

func (c *CompiledAggregate) newState() []any {
	state := make([]any, c.stateWidth)
	copy(state, c.init)
	return state
}

// send evaluates the update routine over row and state, writing the next state back
func (c *CompiledAggregate) send(row types.Row, state []any) error {
	n := copy(c.sendCtx[:c.inputWidth], row)
	for i := n; i < c.inputWidth; i++ {
		c.sendCtx[i] = nil
	}
	copy(c.sendCtx[c.inputWidth:], state)
	out, err := expr.Run(c.add, c.sendEnv)
	if err != nil {
		return invocationError(c.call, err)
	}
	next, ok := out.([]any)
	if !ok || len(next) != c.stateWidth {
		return invocationError(c.call, errors.Newf("update produced %T, want %d state values", out, c.stateWidth))
	}
	copy(state, next)
	return nil
}

// end evaluates the finalize routine over state; without one the first slot is the result
func (c *CompiledAggregate) end(state []any) (any, error) {
	copy(c.endCtx, state)
	var (
		out any
		err error
	)
	if c.result == nil {
		out = c.endCtx[0]
	} else if out, err = expr.Run(c.result, c.endEnv); err != nil {
		return nil, invocationError(c.call, err)
	}
	out, err = cast.Coerce(out, c.call.ResultType)
	if err != nil {
		return nil, invocationError(c.call, err)
	}
	return out, nil
}

// scalarAccumulator owns one group's state buffer for a CompiledAggregate
type scalarAccumulator struct {
	compiled *CompiledAggregate
	state    []any
}

func (s *scalarAccumulator) Send(row types.Row) error {
	if row[s.compiled.arg] == nil {
		return nil
	}
	return s.compiled.send(row, s.state)
}

func (s *scalarAccumulator) End() (any, error) {
	return s.compiled.end(s.state)
}

func newScalarFactory(compiled *CompiledAggregate) Factory {
	return FactoryFunc(func() (Accumulator, error) {
		return &scalarAccumulator{compiled: compiled, state: compiled.newState()}, nil
	})
}
