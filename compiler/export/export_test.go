package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/cfgdump/compiler/cfg"
)

func TestJumpChain(t *testing.T) {
	b1 := &cfg.BasicBlock{Exit: cfg.MainExit{}}
	b0 := &cfg.BasicBlock{Exit: cfg.Jump{Target: b1}}

	doc := Export(&cfg.Graph{Entry: b0})
	require.Len(t, doc, 4)

	assert.Equal(t, Block{ID: "Block0", Instructions: []Op{}, Exit: "Block0Exit", Type: "BasicBlock"}, doc[0])
	assert.Equal(t, Exit{ID: "Block0Exit", Instructions: []string{}, Exit: []string{"Block1"}, Type: "Jump"}, doc[1])
	assert.Equal(t, Block{ID: "Block1", Instructions: []Op{}, Exit: "Block1Exit", Type: "BasicBlock"}, doc[2])
	assert.Equal(t, Exit{ID: "Block1Exit", Instructions: []string{}, Exit: []string{"Block1"}, Type: "MainExit"}, doc[3])
}

func TestConditionalSuccessorOrder(t *testing.T) {
	zero := &cfg.BasicBlock{Exit: cfg.MainExit{}}
	nonzero := &cfg.BasicBlock{Exit: cfg.Terminated{}}
	b0 := &cfg.BasicBlock{
		Exit: cfg.CondJump{Cond: cfg.VarSlot("x"), Zero: zero, NonZero: nonzero},
	}

	doc := Export(&cfg.Graph{Entry: b0})
	require.Len(t, doc, 6)

	x := doc[1].(Exit)
	assert.Equal(t, "ConditionalJump", x.Type)
	assert.Equal(t, []string{"Block1", "Block2"}, x.Exit)
	assert.Equal(t, []string{"x"}, x.Cond)

	assert.Equal(t, "MainExit", doc[3].(Exit).Type)
	assert.Equal(t, "Terminated", doc[5].(Exit).Type)
}

func TestLoop(t *testing.T) {
	done := &cfg.BasicBlock{Exit: cfg.MainExit{}}
	head := &cfg.BasicBlock{}
	body := &cfg.BasicBlock{Exit: cfg.Jump{Target: head}}
	head.Exit = cfg.CondJump{Cond: cfg.VarSlot("i"), Zero: done, NonZero: body}

	doc := Export(&cfg.Graph{Entry: head})
	require.Len(t, doc, 6)

	var blocks []string
	for i := 0; i < len(doc); i += 2 {
		b := doc[i].(Block)
		blocks = append(blocks, b.ID)

		// every block is paired with its own exit fragment
		assert.Equal(t, b.Exit, doc[i+1].(Exit).ID)
	}

	assert.Equal(t, []string{"Block0", "Block1", "Block2"}, blocks)

	// the back edge references the already visited head
	assert.Equal(t, []string{"Block0"}, doc[5].(Exit).Exit)
}

func TestFunctionRoots(t *testing.T) {
	fn := &cfg.FuncInfo{Name: "double"}
	fn.Entry = &cfg.BasicBlock{Exit: cfg.FuncReturn{Func: fn}}

	main := &cfg.BasicBlock{Exit: cfg.Terminated{}}

	// function body is not reachable from main, it is a root of its own
	doc := Export(&cfg.Graph{Entry: main, Funcs: []*cfg.FuncInfo{fn}})
	require.Len(t, doc, 4)

	assert.Equal(t, Exit{ID: "Block0Exit", Instructions: []string{}, Exit: []string{"Block0"}, Type: "Terminated"}, doc[1])
	assert.Equal(t, Exit{ID: "Block1Exit", Instructions: []string{"double"}, Exit: []string{"Block1"}, Type: "FunctionReturn"}, doc[3])
}

func TestDeterminism(t *testing.T) {
	fn := &cfg.FuncInfo{Name: "f"}
	fn.Entry = &cfg.BasicBlock{Exit: cfg.FuncReturn{Func: fn}}

	done := &cfg.BasicBlock{Exit: cfg.MainExit{}}
	head := &cfg.BasicBlock{
		Ops: []cfg.Operation{{
			Out:  []cfg.StackSlot{cfg.VarSlot("x")},
			Kind: cfg.FuncCall{Func: fn},
		}},
	}
	head.Exit = cfg.CondJump{Cond: cfg.VarSlot("x"), Zero: done, NonZero: head}

	g := &cfg.Graph{Entry: head, Funcs: []*cfg.FuncInfo{fn}}

	assert.Equal(t, Export(g), Export(g))
}

func TestOperations(t *testing.T) {
	fn := &cfg.FuncInfo{Name: "f"}
	fn.Entry = &cfg.BasicBlock{Exit: cfg.FuncReturn{Func: fn}}

	b := &cfg.BasicBlock{
		Ops: []cfg.Operation{
			{
				In:   []cfg.StackSlot{cfg.VarSlot("x"), cfg.LiteralSlot(5), cfg.TempSlot(1)},
				Out:  []cfg.StackSlot{cfg.VarSlot("y"), cfg.JunkSlot{}},
				Kind: cfg.FuncCall{Func: fn},
			},
			{
				In:   []cfg.StackSlot{cfg.VarSlot("y")},
				Kind: cfg.Assignment{Vars: []cfg.StackSlot{cfg.VarSlot("a"), cfg.VarSlot("b")}},
			},
		},
		Exit: cfg.MainExit{},
	}

	doc := Export(&cfg.Graph{Entry: b, Funcs: []*cfg.FuncInfo{fn}})

	ops := doc[0].(Block).Instructions
	require.Len(t, ops, 2)

	assert.Equal(t, Op{Op: "f", In: []string{"x", "5", "TMP[1]"}, Out: []string{"y", "JUNK"}}, ops[0])
	assert.Equal(t, Op{Assignment: []string{"a", "b"}, In: []string{"y"}, Out: []string{}}, ops[1])
}

func TestBuiltinLiteralArgs(t *testing.T) {
	builtin := &cfg.Builtin{Name: "datasize", LiteralArgs: []bool{true}}

	b := &cfg.BasicBlock{
		Ops: []cfg.Operation{{
			Out:  []cfg.StackSlot{cfg.TempSlot(0)},
			Kind: cfg.BuiltinCall{Builtin: builtin, Args: []cfg.StackSlot{cfg.LiteralSlot(5)}},
		}},
		Exit: cfg.MainExit{},
	}

	doc := Export(&cfg.Graph{Entry: b})

	ops := doc[0].(Block).Instructions
	require.Len(t, ops, 1)

	assert.Equal(t, Op{Op: "datasize", BuiltinArgs: []string{"5"}, In: []string{}, Out: []string{"TMP[0]"}}, ops[0])
}

func TestBuiltinWithoutLiterals(t *testing.T) {
	builtin := &cfg.Builtin{Name: "add"}

	b := &cfg.BasicBlock{
		Ops: []cfg.Operation{{
			In:   []cfg.StackSlot{cfg.VarSlot("x"), cfg.VarSlot("y")},
			Out:  []cfg.StackSlot{cfg.TempSlot(0)},
			Kind: cfg.BuiltinCall{Builtin: builtin, Args: []cfg.StackSlot{cfg.VarSlot("x"), cfg.VarSlot("y")}},
		}},
		Exit: cfg.MainExit{},
	}

	doc := Export(&cfg.Graph{Entry: b})

	op := doc[0].(Block).Instructions[0]
	assert.Equal(t, "add", op.Op)
	assert.Nil(t, op.BuiltinArgs)
}

func TestBuiltinLiteralArgViolation(t *testing.T) {
	builtin := &cfg.Builtin{Name: "datasize", LiteralArgs: []bool{true}}

	b := &cfg.BasicBlock{
		Ops: []cfg.Operation{{
			Kind: cfg.BuiltinCall{Builtin: builtin, Args: []cfg.StackSlot{cfg.VarSlot("x")}},
		}},
		Exit: cfg.MainExit{},
	}

	assert.Panics(t, func() {
		Export(&cfg.Graph{Entry: b})
	})
}

func TestJSON(t *testing.T) {
	b1 := &cfg.BasicBlock{Exit: cfg.MainExit{}}
	b0 := &cfg.BasicBlock{Exit: cfg.Jump{Target: b1}}

	data, err := JSON(&cfg.Graph{Entry: b0})
	require.NoError(t, err)

	var back []map[string]any
	err = json.Unmarshal(data, &back)
	require.NoError(t, err)
	require.Len(t, back, 4)

	assert.Equal(t, "Block0", back[0]["id"])
	assert.Equal(t, "BasicBlock", back[0]["type"])
	assert.Equal(t, []any{}, back[0]["instructions"])
	assert.Equal(t, "Block0Exit", back[0]["exit"])

	assert.Equal(t, []any{"Block1"}, back[1]["exit"])

	_, ok := back[1]["cond"]
	assert.False(t, ok, "cond is only present on conditional jumps")
}
