package classfile

import (
	"encoding/json"
	"fmt"

	"github.com/cnkfz/lumen/internal/bytecode"
)

// Parser is the consumed external collaborator of §6: a function from a
// byte sequence to an immutable ClassDescriptor, or a parse error. The
// real bytecode-platform class-file format is out of scope (§1); only
// this interface is specified. JSONParser below is a reference
// implementation that makes the system runnable end to end without a
// full binary class-file codec.
type Parser interface {
	Parse(data []byte) (*ClassDescriptor, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(data []byte) (*ClassDescriptor, error)

// Parse implements Parser.
func (f ParserFunc) Parse(data []byte) (*ClassDescriptor, error) { return f(data) }

// jsonClass is the on-disk shape JSONParser decodes. Method bodies are
// symbolic instructions (see jsonMethod) so the parser can exercise the
// real assembler in internal/bytecode rather than embedding raw bytes.
type jsonClass struct {
	Name       string            `json:"name"`
	Super      string            `json:"super"`
	Interfaces []string          `json:"interfaces"`
	Access     []string          `json:"access"`
	Fields     []jsonField       `json:"fields"`
	Methods    []jsonMethod      `json:"methods"`
}

type jsonField struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Access []string `json:"access"`
}

type jsonMethod struct {
	Name       string            `json:"name"`
	Descriptor string            `json:"descriptor"`
	Access     []string          `json:"access"`
	MaxLocals  int               `json:"maxLocals"`
	MaxStack   int               `json:"maxStack"`
	Code       []jsonInstr       `json:"code"`
	Handlers   []ExceptionHandler `json:"handlers"`
}

type jsonInstr struct {
	Label    string              `json:"label,omitempty"`
	Op       string              `json:"op"`
	Operand  int64               `json:"operand,omitempty"`
	FOperand float32             `json:"foperand,omitempty"`
	DOperand float64             `json:"doperand,omitempty"`
	Symbol   string              `json:"symbol,omitempty"`
	Target   string              `json:"target,omitempty"`
	Switch   *jsonSwitch         `json:"switch,omitempty"`
}

type jsonSwitch struct {
	Low     int32    `json:"low,omitempty"`
	High    int32    `json:"high,omitempty"`
	Keys    []int32  `json:"keys,omitempty"`
	Targets []string `json:"targets"`
	Default string   `json:"default"`
}

// JSONParser is the reference Parser implementation: it decodes the
// jsonClass document shape and assembles each method's symbolic
// instructions into real bytecode via internal/bytecode.Assemble.
type JSONParser struct{}

// Parse implements Parser.
func (JSONParser) Parse(data []byte) (*ClassDescriptor, error) {
	var jc jsonClass
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, &ParseError{Offset: -1, Reason: err.Error()}
	}
	if jc.Name == "" {
		return nil, &ParseError{Offset: -1, Reason: "missing class name"}
	}

	cls := &ClassDescriptor{
		Name:       jc.Name,
		Super:      jc.Super,
		Interfaces: jc.Interfaces,
		Access:     parseAccessFlags(jc.Access),
	}

	for _, jf := range jc.Fields {
		t, err := ParseType(jf.Type)
		if err != nil {
			return nil, &ParseError{Offset: -1, Reason: fmt.Sprintf("field %s: %v", jf.Name, err)}
		}
		cls.Fields = append(cls.Fields, FieldDescriptor{
			Name:   jf.Name,
			Type:   t,
			Access: parseAccessFlags(jf.Access),
		})
	}

	for _, jm := range jc.Methods {
		desc, err := ParseDescriptor(jm.Descriptor)
		if err != nil {
			return nil, &ParseError{Offset: -1, Reason: fmt.Sprintf("method %s: %v", jm.Name, err)}
		}
		method := MethodDescriptor{
			Signature: Signature{Name: jm.Name, Descriptor: desc},
			Access:    parseAccessFlags(jm.Access),
			Handlers:  jm.Handlers,
			MaxLocals: jm.MaxLocals,
			MaxStack:  jm.MaxStack,
		}
		if !method.IsAbstract() && !method.IsNative() && len(jm.Code) > 0 {
			code, consts, err := assembleMethod(jm.Code)
			if err != nil {
				return nil, &ParseError{Offset: -1, Reason: fmt.Sprintf("method %s: %v", jm.Name, err)}
			}
			method.Bytecode = code
			method.Constants = consts
		}
		cls.Methods = append(cls.Methods, method)
	}

	return cls, nil
}

func assembleMethod(code []jsonInstr) ([]byte, *bytecode.Constants, error) {
	instrs := make([]bytecode.Instr, len(code))
	labelOf := make(map[int]string)
	consts := bytecode.NewConstants()
	for i, ji := range code {
		op, ok := bytecode.OpByName(ji.Op)
		if !ok {
			return nil, nil, fmt.Errorf("unknown opcode %q", ji.Op)
		}
		if ji.Label != "" {
			labelOf[i] = ji.Label
		}
		in := bytecode.Instr{Op: op, Operand: ji.Operand, Symbol: ji.Symbol, Label: ji.Target}
		switch op {
		case bytecode.FconstConst:
			in = bytecode.FConst(ji.FOperand)
		case bytecode.DconstConst:
			in = bytecode.DConst(ji.DOperand)
		}
		if ji.Switch != nil {
			in.Switch = &bytecode.SwitchSpec{
				Low: ji.Switch.Low, High: ji.Switch.High,
				Keys: ji.Switch.Keys, Targets: ji.Switch.Targets,
				Default: ji.Switch.Default,
			}
		}
		instrs[i] = in
	}
	code2, err := bytecode.Assemble(instrs, labelOf, consts)
	if err != nil {
		return nil, nil, err
	}
	return code2, consts, nil
}

func parseAccessFlags(names []string) AccessFlags {
	var f AccessFlags
	for _, n := range names {
		switch n {
		case "public":
			f |= Public
		case "private":
			f |= Private
		case "protected":
			f |= Protected
		case "static":
			f |= Static
		case "final":
			f |= Final
		case "super":
			f |= Super
		case "volatile":
			f |= Volatile
		case "transient":
			f |= Transient
		case "native":
			f |= Native
		case "interface":
			f |= Interface
		case "abstract":
			f |= Abstract
		case "strict":
			f |= Strict
		}
	}
	return f
}
