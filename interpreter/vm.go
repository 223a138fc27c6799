package interpreter

import (
	"fmt"
	"io"

	"arlindohall.com/glox/compiler"
	"arlindohall.com/glox/debug"
	"arlindohall.com/glox/glerror"
	"arlindohall.com/glox/memory"
	"arlindohall.com/glox/value"
)

type VM struct {
	heap   *memory.Heap
	flags  debug.Flags
	stdout io.Writer
	diag   io.Writer

	chunk   *compiler.Chunk
	ip      int
	stack   []value.Value
	globals map[string]value.Value
}

// NewVM returns a VM whose stack and globals are roots of heap. print
// writes to stdout; execution traces go to diagnostics.
func NewVM(heap *memory.Heap, flags debug.Flags, stdout, diagnostics io.Writer) *VM {
	vm := &VM{
		heap:    heap,
		flags:   flags,
		stdout:  stdout,
		diag:    diagnostics,
		globals: make(map[string]value.Value),
	}

	heap.AddRoots(vm.markRoots)

	return vm
}

func (vm *VM) markRoots(mark func(value.Value)) {
	for _, v := range vm.stack {
		mark(v)
	}

	for _, v := range vm.globals {
		mark(v)
	}

	if vm.chunk != nil {
		for _, c := range vm.chunk.Constants {
			mark(c)
		}
	}
}

// Global returns the named global, or nil when it was never set.
func (vm *VM) Global(name string) value.Value {
	v, ok := vm.globals[name]
	if !ok {
		return value.Nil{}
	}

	return v
}

// Interpret runs function to completion. Globals survive between calls;
// the stack does not.
func (vm *VM) Interpret(function *compiler.Function) (value.Value, error) {
	vm.chunk = function.Chunk
	vm.ip = 0
	vm.stack = vm.stack[:0]

	if vm.flags.TraceExecution() {
		traceFunction(vm.diag, function.Name)
	}

	val, err := vm.run()

	vm.stack = vm.stack[:0]

	return val, err
}

func (vm *VM) run() (value.Value, error) {
	executed := 0
	defer func() {
		vm.heap.Metrics().IncrCounter([]string{"vm", "instructions"}, float32(executed))
	}()

	for {
		if vm.flags.TraceExecution() {
			vm.trace()
		}

		start := vm.ip
		op := vm.readByte()
		executed++

		switch op {
		case compiler.OpConstant:
			vm.push(vm.readConstant())
		case compiler.OpNil:
			vm.push(value.Nil{})
		case compiler.OpTrue:
			vm.push(value.Boolean(true))
		case compiler.OpFalse:
			vm.push(value.Boolean(false))
		case compiler.OpPop:
			vm.pop()
		case compiler.OpGetLocal:
			vm.push(vm.stack[vm.readByte()])
		case compiler.OpSetLocal:
			vm.stack[vm.readByte()] = vm.peek(0)
		case compiler.OpGetGlobal:
			vm.push(vm.Global(vm.readConstant().String()))
		case compiler.OpSetGlobal:
			vm.globals[vm.readConstant().String()] = vm.peek(0)
		case compiler.OpCreateTable:
			vm.push(vm.heap.NewTable())
		case compiler.OpInitTable:
			val := vm.pop()
			key := vm.pop()

			if !vm.peek(0).(*value.Table).Set(key, val) {
				return nil, vm.error(start, fmt.Sprint("table index is ", key.Type()))
			}
		case compiler.OpInsertTable:
			val := vm.pop()
			vm.peek(0).(*value.Table).Insert(val)
		case compiler.OpGetTable:
			key := vm.pop()
			table, ok := vm.pop().(*value.Table)

			if !ok {
				return nil, vm.error(start, "attempt to index a non-table value")
			}

			vm.push(table.Get(key))
		case compiler.OpSetTable:
			val := vm.pop()
			key := vm.pop()
			table, ok := vm.pop().(*value.Table)

			if !ok {
				return nil, vm.error(start, "attempt to index a non-table value")
			}

			if !table.Set(key, val) {
				return nil, vm.error(start, fmt.Sprint("table index is ", key.Type()))
			}

			vm.push(val)
		case compiler.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Boolean(value.Equal(a, b)))
		case compiler.OpGreater:
			if err := vm.compare(start, func(c int) bool { return c > 0 }); err != nil {
				return nil, err
			}
		case compiler.OpLess:
			if err := vm.compare(start, func(c int) bool { return c < 0 }); err != nil {
				return nil, err
			}
		case compiler.OpAdd:
			if err := vm.arithmetic(start, func(a, b float64) float64 { return a + b }); err != nil {
				return nil, err
			}
		case compiler.OpSubtract:
			if err := vm.arithmetic(start, func(a, b float64) float64 { return a - b }); err != nil {
				return nil, err
			}
		case compiler.OpMult:
			if err := vm.arithmetic(start, func(a, b float64) float64 { return a * b }); err != nil {
				return nil, err
			}
		case compiler.OpDivide:
			if err := vm.arithmetic(start, func(a, b float64) float64 { return a / b }); err != nil {
				return nil, err
			}
		case compiler.OpConcat:
			if err := vm.concat(start); err != nil {
				return nil, err
			}
		case compiler.OpNot:
			vm.push(value.Boolean(!vm.pop().Truthy()))
		case compiler.OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return nil, vm.error(start, fmt.Sprint("attempt to perform arithmetic on a ", vm.peek(0).Type(), " value"))
			}

			vm.stack[len(vm.stack)-1] = -n
		case compiler.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())
		case compiler.OpAssert:
			if !vm.pop().Truthy() {
				return nil, vm.error(start, "assertion failed!")
			}
		case compiler.OpJump:
			vm.ip += vm.readShort()
		case compiler.OpJumpIfFalse:
			offset := vm.readShort()
			if !vm.peek(0).Truthy() {
				vm.ip += offset
			}
		case compiler.OpLoop:
			offset := vm.readShort()
			vm.ip -= offset
		case compiler.OpReturn:
			if len(vm.stack) == 0 {
				return value.Nil{}, nil
			}

			return vm.pop(), nil
		default:
			return nil, vm.error(start, fmt.Sprint("Do not know how to perform: ", compiler.ByteName(op)))
		}
	}
}

func (vm *VM) arithmetic(start int, op func(float64, float64) float64) error {
	b, okB := vm.peek(0).(value.Number)
	a, okA := vm.peek(1).(value.Number)

	if !okA || !okB {
		bad := vm.peek(1)
		if okA {
			bad = vm.peek(0)
		}

		return vm.error(start, fmt.Sprint("attempt to perform arithmetic on a ", bad.Type(), " value"))
	}

	vm.pop()
	vm.pop()
	vm.push(value.Number(op(float64(a), float64(b))))

	return nil
}

// compare orders two numbers or two strings; test receives -1, 0 or 1.
func (vm *VM) compare(start int, test func(int) bool) error {
	b := vm.pop()
	a := vm.pop()

	var c int

	switch {
	case isNumber(a) && isNumber(b):
		x, y := a.(value.Number), b.(value.Number)
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	case isString(a) && isString(b):
		x, y := a.String(), b.String()
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	default:
		return vm.error(start, fmt.Sprintf("attempt to compare %s with %s", a.Type(), b.Type()))
	}

	vm.push(value.Boolean(test(c)))

	return nil
}

// concat leaves both operands on the stack until the result is allocated,
// so a collection triggered by the allocation still sees them.
func (vm *VM) concat(start int) error {
	b := vm.peek(0)
	a := vm.peek(1)

	for _, v := range []value.Value{a, b} {
		if !isString(v) && !isNumber(v) {
			return vm.error(start, fmt.Sprint("attempt to concatenate a ", v.Type(), " value"))
		}
	}

	result := vm.heap.NewString(a.String() + b.String())

	vm.pop()
	vm.pop()
	vm.push(result)

	return nil
}

func isNumber(v value.Value) bool {
	_, ok := v.(value.Number)
	return ok
}

func isString(v value.Value) bool {
	_, ok := v.(*value.String)
	return ok
}

func (vm *VM) push(val value.Value) {
	vm.stack = append(vm.stack, val)
}

func (vm *VM) pop() value.Value {
	last := len(vm.stack) - 1
	val := vm.stack[last]
	vm.stack[last] = nil
	vm.stack = vm.stack[:last]

	return val
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++

	return b
}

func (vm *VM) readShort() int {
	upper := vm.readByte()
	lower := vm.readByte()

	return compiler.MergeBytes(upper, lower)
}

func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

func (vm *VM) error(start int, message string) error {
	return glerror.RuntimeError{
		Message: message,
		Line:    vm.chunk.Lines[start],
	}
}
