package cfg

type (
	// Graph is a fully built control flow graph. It is read-only as far
	// as this module is concerned: the builder that produced it owns
	// every block and keeps it alive for the duration of any export.
	Graph struct {
		Entry *BasicBlock

		Funcs []*FuncInfo
	}

	FuncInfo struct {
		Name  string
		Entry *BasicBlock
	}

	// BasicBlock identity is pointer identity. Two structurally equal
	// blocks at different graph positions are distinct blocks.
	BasicBlock struct {
		Ops  []Operation
		Exit Exit
	}

	Operation struct {
		In  []StackSlot
		Out []StackSlot

		Kind OpKind
	}

	OpKind interface{ opKind() }

	FuncCall struct {
		Func *FuncInfo
	}

	BuiltinCall struct {
		Builtin *Builtin

		// Args are the call site arguments. Positions marked
		// literal-only by the builtin must hold a LiteralSlot.
		Args []StackSlot
	}

	Assignment struct {
		Vars []StackSlot
	}

	Builtin struct {
		Name string

		// LiteralArgs marks parameter positions that only accept a
		// compile time constant at the call site.
		LiteralArgs []bool
	}

	Exit interface{ exit() }

	// MainExit terminates the program normally. No successors.
	MainExit struct{}

	Jump struct {
		Target *BasicBlock
	}

	// CondJump transfers to Zero when Cond is zero, NonZero otherwise.
	CondJump struct {
		Cond    StackSlot
		Zero    *BasicBlock
		NonZero *BasicBlock
	}

	FuncReturn struct {
		Func *FuncInfo
	}

	// Terminated halts execution abnormally. No successors.
	Terminated struct{}
)

func (FuncCall) opKind()    {}
func (BuiltinCall) opKind() {}
func (Assignment) opKind()  {}

func (MainExit) exit()   {}
func (Jump) exit()       {}
func (CondJump) exit()   {}
func (FuncReturn) exit() {}
func (Terminated) exit() {}
