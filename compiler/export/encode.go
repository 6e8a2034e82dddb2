package export

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/slowlang/cfgdump/compiler/cfg"
)

type (
	// Block is one basic block fragment. Exit names the paired Exit
	// fragment sharing the same base identifier.
	Block struct {
		ID           string `json:"id"`
		Instructions []Op   `json:"instructions"`
		Exit         string `json:"exit"`
		Type         string `json:"type"`
	}

	// Exit is the synthetic control transfer fragment paired with a
	// Block. Exit lists successor identifiers: one for Jump, zero
	// branch then non-zero branch for ConditionalJump, and the block
	// itself for the kinds with no successor.
	Exit struct {
		ID           string   `json:"id"`
		Instructions []string `json:"instructions"`
		Exit         []string `json:"exit"`
		Cond         []string `json:"cond,omitempty"`
		Type         string   `json:"type"`
	}

	Op struct {
		Op          string   `json:"op,omitempty"`
		BuiltinArgs []string `json:"builtinArgs,omitempty"`
		Assignment  []string `json:"assignment,omitempty"`
		In          []string `json:"in"`
		Out         []string `json:"out"`
	}
)

func (e *exporter) blockName(b *cfg.BasicBlock) string {
	return "Block" + strconv.Itoa(e.blockID(b))
}

func (e *exporter) encodeBlock(b *cfg.BasicBlock) Block {
	blk := Block{
		ID:           e.blockName(b),
		Instructions: []Op{},
		Exit:         e.blockName(b) + "Exit",
		Type:         "BasicBlock",
	}

	for _, op := range b.Ops {
		blk.Instructions = append(blk.Instructions, encodeOp(op))
	}

	return blk
}

func (e *exporter) encodeExit(b *cfg.BasicBlock) Exit {
	frag := Exit{
		ID:           e.blockName(b) + "Exit",
		Instructions: []string{},
	}

	switch x := b.Exit.(type) {
	case cfg.MainExit:
		frag.Exit = []string{e.blockName(b)}
		frag.Type = "MainExit"
	case cfg.Jump:
		frag.Exit = []string{e.blockName(x.Target)}
		frag.Type = "Jump"
	case cfg.CondJump:
		frag.Exit = []string{e.blockName(x.Zero), e.blockName(x.NonZero)}
		frag.Cond = []string{x.Cond.String()}
		frag.Type = "ConditionalJump"
	case cfg.FuncReturn:
		frag.Instructions = append(frag.Instructions, x.Func.Name)
		frag.Exit = []string{e.blockName(b)}
		frag.Type = "FunctionReturn"
	case cfg.Terminated:
		frag.Exit = []string{e.blockName(b)}
		frag.Type = "Terminated"
	default:
		panic(x)
	}

	return frag
}

func encodeOp(op cfg.Operation) Op {
	frag := Op{
		In:  encodeStack(op.In),
		Out: encodeStack(op.Out),
	}

	switch k := op.Kind.(type) {
	case cfg.FuncCall:
		frag.Op = k.Func.Name
	case cfg.BuiltinCall:
		frag.Op = k.Builtin.Name
		frag.BuiltinArgs = literalArgs(k)
	case cfg.Assignment:
		frag.Assignment = encodeStack(k.Vars)
	default:
		panic(k)
	}

	return frag
}

// literalArgs collects call site values at the builtin's literal-only
// parameter positions. The builder guarantees those are literals; a
// non-literal there means a broken earlier stage, not a recoverable
// condition.
func literalArgs(c cfg.BuiltinCall) []string {
	var args []string

	for i, lit := range c.Builtin.LiteralArgs {
		if !lit || i >= len(c.Args) {
			continue
		}

		l, ok := c.Args[i].(cfg.LiteralSlot)
		if !ok {
			panic(errors.New("builtin %v: literal argument expected at %d, got %T", c.Builtin.Name, i, c.Args[i]))
		}

		args = append(args, l.String())
	}

	return args
}

func encodeStack(stack []cfg.StackSlot) []string {
	out := make([]string, len(stack))

	for i, s := range stack {
		out[i] = s.String()
	}

	return out
}
