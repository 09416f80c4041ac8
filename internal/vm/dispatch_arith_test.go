package vm

import (
	"testing"

	"github.com/cnkfz/lumen/internal/bytecode"
)

// Frem/Drem must compute the floating remainder (fmod), not truncating
// integer modulo: frem(5.5, 2.0) is 1.5, not 1.0.
func TestBinaryOp_FremIsFloatingRemainder(t *testing.T) {
	v, err := binaryOp(bytecode.Frem, MakeFloat(5.5), MakeFloat(2.0))
	if err != nil {
		t.Fatalf("Frem: %v", err)
	}
	if got := v.Float(); got != 1.5 {
		t.Errorf("frem(5.5, 2.0) = %v, want 1.5", got)
	}
}

func TestBinaryOp_DremIsFloatingRemainder(t *testing.T) {
	v, err := binaryOp(bytecode.Drem, MakeDouble(5.5), MakeDouble(2.0))
	if err != nil {
		t.Fatalf("Drem: %v", err)
	}
	if got := v.Double(); got != 1.5 {
		t.Errorf("drem(5.5, 2.0) = %v, want 1.5", got)
	}
}
