package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotString(t *testing.T) {
	for _, tc := range []struct {
		slot StackSlot
		want string
	}{
		{VarSlot("x"), "x"},
		{LiteralSlot(0), "0"},
		{LiteralSlot(5), "5"},
		{TempSlot(3), "TMP[3]"},
		{JunkSlot{}, "JUNK"},
	} {
		assert.Equal(t, tc.want, tc.slot.String())
	}
}
