package cfg

import "strconv"

type (
	// StackSlot is a value carrying location consumed and produced by
	// operations. String is the canonical rendering used everywhere a
	// slot appears in exported documents.
	StackSlot interface {
		String() string

		slot()
	}

	VarSlot     string
	LiteralSlot uint64
	TempSlot    int
	JunkSlot    struct{}
)

func (VarSlot) slot()     {}
func (LiteralSlot) slot() {}
func (TempSlot) slot()    {}
func (JunkSlot) slot()    {}

func (s VarSlot) String() string { return string(s) }

func (s LiteralSlot) String() string { return strconv.FormatUint(uint64(s), 10) }

func (s TempSlot) String() string { return "TMP[" + strconv.Itoa(int(s)) + "]" }

func (s JunkSlot) String() string { return "JUNK" }
