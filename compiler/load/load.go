// Package load builds control flow graphs from a small yaml
// description. It exists for the cfgdump tool and for tests: the
// compilers this tool debugs hand over graphs in memory, the yaml form
// is how a human writes one down.
package load

import (
	"context"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/cfgdump/compiler/cfg"
)

type (
	file struct {
		Entry     string       `yaml:"entry"`
		Functions []funcDef    `yaml:"functions"`
		Builtins  []builtinDef `yaml:"builtins"`
		Blocks    []blockDef   `yaml:"blocks"`
	}

	funcDef struct {
		Name  string `yaml:"name"`
		Entry string `yaml:"entry"`
	}

	builtinDef struct {
		Name string `yaml:"name"`

		// Literal lists parameter positions that only accept a
		// constant at the call site.
		Literal []int `yaml:"literal"`
	}

	blockDef struct {
		Name string  `yaml:"name"`
		Ops  []opDef `yaml:"ops"`
		Exit exitDef `yaml:"exit"`
	}

	// opDef is one of three kinds: call, builtin or assign.
	// Exactly one of those keys must be set.
	opDef struct {
		Call    string   `yaml:"call"`
		Builtin string   `yaml:"builtin"`
		Assign  []string `yaml:"assign"`

		Args []string `yaml:"args"`
		In   []string `yaml:"in"`
		Out  []string `yaml:"out"`
	}

	exitDef struct {
		Type    string `yaml:"type"` // main | jump | cond | return | terminated
		To      string `yaml:"to"`
		Cond    string `yaml:"cond"`
		Zero    string `yaml:"zero"`
		NonZero string `yaml:"nonzero"`
		Func    string `yaml:"func"`
	}

	state struct {
		blocks   map[string]*cfg.BasicBlock
		funcs    map[string]*cfg.FuncInfo
		builtins map[string]*cfg.Builtin
	}
)

func LoadFile(ctx context.Context, name string) (*cfg.Graph, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Load(ctx, text)
}

func Load(ctx context.Context, text []byte) (*cfg.Graph, error) {
	var f file

	err := yaml.Unmarshal(text, &f)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshal yaml")
	}

	st := &state{
		blocks:   map[string]*cfg.BasicBlock{},
		funcs:    map[string]*cfg.FuncInfo{},
		builtins: map[string]*cfg.Builtin{},
	}

	for _, b := range f.Blocks {
		if b.Name == "" {
			return nil, errors.New("unnamed block")
		}
		if _, ok := st.blocks[b.Name]; ok {
			return nil, errors.New("duplicate block %v", b.Name)
		}

		st.blocks[b.Name] = &cfg.BasicBlock{}
	}

	for _, d := range f.Builtins {
		b, err := builtin(d)
		if err != nil {
			return nil, errors.Wrap(err, "builtin %v", d.Name)
		}

		st.builtins[d.Name] = b
	}

	g := &cfg.Graph{}

	g.Entry, err = st.block(f.Entry)
	if err != nil {
		return nil, errors.Wrap(err, "entry")
	}

	for _, d := range f.Functions {
		if _, ok := st.funcs[d.Name]; ok {
			return nil, errors.New("duplicate function %v", d.Name)
		}

		entry, err := st.block(d.Entry)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", d.Name)
		}

		fn := &cfg.FuncInfo{Name: d.Name, Entry: entry}

		st.funcs[d.Name] = fn
		g.Funcs = append(g.Funcs, fn)
	}

	for _, d := range f.Blocks {
		err = st.fill(st.blocks[d.Name], d)
		if err != nil {
			return nil, errors.Wrap(err, "block %v", d.Name)
		}
	}

	tlog.SpanFromContext(ctx).Printw("graph loaded", "blocks", len(st.blocks), "funcs", len(g.Funcs))

	return g, nil
}

func (st *state) fill(b *cfg.BasicBlock, d blockDef) (err error) {
	for i, o := range d.Ops {
		op, err := st.op(o)
		if err != nil {
			return errors.Wrap(err, "op %d", i)
		}

		b.Ops = append(b.Ops, op)
	}

	b.Exit, err = st.exit(d.Exit)
	if err != nil {
		return errors.Wrap(err, "exit")
	}

	return nil
}

func (st *state) op(d opDef) (op cfg.Operation, err error) {
	op.In = slots(d.In)
	op.Out = slots(d.Out)

	switch {
	case d.Call != "":
		fn, ok := st.funcs[d.Call]
		if !ok {
			return op, errors.New("unknown function %v", d.Call)
		}

		op.Kind = cfg.FuncCall{Func: fn}
	case d.Builtin != "":
		bt, ok := st.builtins[d.Builtin]
		if !ok {
			bt = &cfg.Builtin{Name: d.Builtin}
			st.builtins[d.Builtin] = bt
		}

		op.Kind = cfg.BuiltinCall{Builtin: bt, Args: slots(d.Args)}
	case len(d.Assign) != 0:
		op.Kind = cfg.Assignment{Vars: slots(d.Assign)}
	default:
		return op, errors.New("op kind is not set: want call, builtin or assign")
	}

	return op, nil
}

func (st *state) exit(d exitDef) (cfg.Exit, error) {
	switch d.Type {
	case "main":
		return cfg.MainExit{}, nil
	case "jump":
		to, err := st.block(d.To)
		if err != nil {
			return nil, err
		}

		return cfg.Jump{Target: to}, nil
	case "cond":
		zero, err := st.block(d.Zero)
		if err != nil {
			return nil, err
		}

		nonzero, err := st.block(d.NonZero)
		if err != nil {
			return nil, err
		}

		if d.Cond == "" {
			return nil, errors.New("cond slot is not set")
		}

		return cfg.CondJump{Cond: slot(d.Cond), Zero: zero, NonZero: nonzero}, nil
	case "return":
		fn, ok := st.funcs[d.Func]
		if !ok {
			return nil, errors.New("unknown function %v", d.Func)
		}

		return cfg.FuncReturn{Func: fn}, nil
	case "terminated":
		return cfg.Terminated{}, nil
	default:
		return nil, errors.New("unsupported exit type: %v", d.Type)
	}
}

func (st *state) block(name string) (*cfg.BasicBlock, error) {
	if name == "" {
		return nil, errors.New("block name is not set")
	}

	b, ok := st.blocks[name]
	if !ok {
		return nil, errors.New("unknown block %v", name)
	}

	return b, nil
}

// maxBuiltinArgs bounds literal positions. Builtins take a handful of
// arguments at most.
const maxBuiltinArgs = 128

func builtin(d builtinDef) (*cfg.Builtin, error) {
	b := &cfg.Builtin{Name: d.Name}

	for _, pos := range d.Literal {
		if pos < 0 || pos >= maxBuiltinArgs {
			return nil, errors.New("literal position out of range: %d", pos)
		}

		for len(b.LiteralArgs) <= pos {
			b.LiteralArgs = append(b.LiteralArgs, false)
		}

		b.LiteralArgs[pos] = true
	}

	return b, nil
}

func slots(toks []string) []cfg.StackSlot {
	out := make([]cfg.StackSlot, len(toks))

	for i, t := range toks {
		out[i] = slot(t)
	}

	return out
}

// slot parses the canonical slot rendering back: numbers are literals,
// TMP[n] is a temporary, JUNK is junk, everything else is a variable.
func slot(tok string) cfg.StackSlot {
	if tok == "JUNK" {
		return cfg.JunkSlot{}
	}

	if v, err := strconv.ParseUint(tok, 0, 64); err == nil {
		return cfg.LiteralSlot(v)
	}

	if in, ok := strings.CutPrefix(tok, "TMP["); ok {
		if in, ok := strings.CutSuffix(in, "]"); ok {
			if n, err := strconv.Atoi(in); err == nil {
				return cfg.TempSlot(n)
			}
		}
	}

	return cfg.VarSlot(tok)
}
