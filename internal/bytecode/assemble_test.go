package bytecode

import "testing"

func TestAssemble_SimpleArithmetic(t *testing.T) {
	consts := NewConstants()
	instrs := []Instr{
		{Op: Iconst1},
		{Op: Iconst2},
		{Op: Iadd},
		{Op: Ireturn},
	}
	code, err := Assemble(instrs, nil, consts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{byte(Iconst1), byte(Iconst2), byte(Iadd), byte(Ireturn)}
	if len(code) != len(want) {
		t.Fatalf("code = %v, want %v", code, want)
	}
	for i := range want {
		if code[i] != want[i] {
			t.Errorf("code[%d] = %d, want %d", i, code[i], want[i])
		}
	}
}

func TestAssemble_BranchToLabel(t *testing.T) {
	consts := NewConstants()
	instrs := []Instr{
		{Op: Iconst0},           // 0
		{Op: Ifeq, Label: "end"}, // 1
		{Op: Iconst1},           // 2 (skipped)
		{Op: Return},            // 3, labeled "end"
	}
	labelOf := map[int]string{3: "end"}
	code, err := Assemble(instrs, labelOf, consts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// Ifeq is at pc 1, operand size 2, so instr occupies [1,4); Iconst1 is
	// at pc 4, so Return is at pc 5.
	offset := I16(code, 2)
	if int(offset) != 5-1 {
		t.Errorf("branch offset = %d, want %d", offset, 5-1)
	}
}

func TestAssemble_UndefinedLabel(t *testing.T) {
	consts := NewConstants()
	instrs := []Instr{{Op: Goto, Label: "nowhere"}}
	if _, err := Assemble(instrs, nil, consts); err == nil {
		t.Error("expected error for undefined label")
	}
}

func TestAssemble_InternsSymbols(t *testing.T) {
	consts := NewConstants()
	instrs := []Instr{
		{Op: Ldc, Symbol: "hello"},
		{Op: Ldc, Symbol: "world"},
		{Op: Ldc, Symbol: "hello"}, // reused
	}
	code, err := Assemble(instrs, nil, consts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if consts.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", consts.Len())
	}
	firstIdx := U16(code, 1)
	thirdIdx := U16(code, 7)
	if firstIdx != thirdIdx {
		t.Errorf("expected reused constant index, got %d and %d", firstIdx, thirdIdx)
	}
	if consts.At(int(firstIdx)) != "hello" {
		t.Errorf("At(%d) = %q, want hello", firstIdx, consts.At(int(firstIdx)))
	}
}

func TestAssemble_FConstDConstRoundTrip(t *testing.T) {
	consts := NewConstants()
	instrs := []Instr{FConst(3.5), DConst(-2.25)}
	code, err := Assemble(instrs, nil, consts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got := F32(code, 1); got != 3.5 {
		t.Errorf("F32 = %v, want 3.5", got)
	}
	if got := F64(code, 6); got != -2.25 {
		t.Errorf("F64 = %v, want -2.25", got)
	}
}

func TestAssemble_Tableswitch(t *testing.T) {
	consts := NewConstants()
	instrs := []Instr{
		{Op: Iload, Operand: 0},
		{Op: Tableswitch, Switch: &SwitchSpec{
			Low: 0, High: 1,
			Targets: []string{"case0", "case1"},
			Default: "def",
		}},
		{Op: Iconst0, Label: "case0"},
		{Op: Ireturn},
		{Op: Iconst1, Label: "case1"},
		{Op: Ireturn},
		{Op: IconstM1, Label: "def"},
		{Op: Ireturn},
	}
	labelOf := map[int]string{2: "case0", 4: "case1", 6: "def"}
	code, err := Assemble(instrs, labelOf, consts)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	swPC := 2 // after Iload (2 bytes)
	if Op(code[swPC]) != Tableswitch {
		t.Fatalf("expected Tableswitch at pc %d, got %v", swPC, Op(code[swPC]))
	}
	sw := DecodeTableswitch(code, swPC)
	if sw.Low != 0 || sw.High != 1 {
		t.Errorf("Low/High = %d/%d, want 0/1", sw.Low, sw.High)
	}
	if len(sw.Targets) != 2 {
		t.Fatalf("Targets = %v, want 2 entries", sw.Targets)
	}
}

func TestOperandSize_And_Len(t *testing.T) {
	if OperandSize(Iadd) != 0 {
		t.Errorf("OperandSize(Iadd) = %d, want 0", OperandSize(Iadd))
	}
	if OperandSize(Sipush) != 2 {
		t.Errorf("OperandSize(Sipush) = %d, want 2", OperandSize(Sipush))
	}
	code := []byte{byte(Sipush), 0, 5, byte(Return)}
	if n := Len(code, 0); n != 3 {
		t.Errorf("Len(Sipush) = %d, want 3", n)
	}
	if n := Len(code, 3); n != 1 {
		t.Errorf("Len(Return) = %d, want 1", n)
	}
}
