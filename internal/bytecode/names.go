package bytecode

// opcodeByName maps the reference assembler's lowercase mnemonics (as
// used by internal/classfile's JSONParser and by hand-written test
// fixtures) to their Op values.
var opcodeByName = map[string]Op{
	"nop":  Nop,
	"pop":  Pop,
	"dup":  Dup,
	"swap": Swap,

	"aconst_null": AconstNull,
	"iconst_m1":   IconstM1,
	"iconst_0":    Iconst0,
	"iconst_1":    Iconst1,
	"iconst_2":    Iconst2,
	"iconst_3":    Iconst3,
	"iconst_4":    Iconst4,
	"iconst_5":    Iconst5,
	"lconst":      LconstConst,
	"fconst":      FconstConst,
	"dconst":      DconstConst,
	"bipush":      Bipush,
	"sipush":      Sipush,
	"ldc":         Ldc,

	"iload": Iload, "lload": Lload, "fload": Fload, "dload": Dload, "aload": Aload,
	"istore": Istore, "lstore": Lstore, "fstore": Fstore, "dstore": Dstore, "astore": Astore,

	"newarray":    Newarray,
	"anewarray":   Anewarray,
	"arraylength": Arraylength,
	"iaload":      Iaload, "laload": Laload, "faload": Faload, "daload": Daload,
	"aaload": Aaload, "baload": Baload, "caload": Caload, "saload": Saload,
	"iastore": Iastore, "lastore": Lastore, "fastore": Fastore, "dastore": Dastore,
	"aastore": Aastore, "bastore": Bastore, "castore": Castore, "sastore": Sastore,

	"new":       New,
	"getfield":  Getfield,
	"putfield":  Putfield,
	"getstatic": Getstatic,
	"putstatic": Putstatic,

	"iadd": Iadd, "isub": Isub, "imul": Imul, "idiv": Idiv, "irem": Irem, "ineg": Ineg,
	"iand": Iand, "ior": Ior, "ixor": Ixor, "ishl": Ishl, "ishr": Ishr, "iushr": Iushr,
	"ladd": Ladd, "lsub": Lsub, "lmul": Lmul, "ldiv": Ldiv, "lrem": Lrem, "lneg": Lneg,
	"land": Land, "lor": Lor, "lxor": Lxor, "lshl": Lshl, "lshr": Lshr, "lushr": Lushr,
	"fadd": Fadd, "fsub": Fsub, "fmul": Fmul, "fdiv": Fdiv, "frem": Frem, "fneg": Fneg,
	"dadd": Dadd, "dsub": Dsub, "dmul": Dmul, "ddiv": Ddiv, "drem": Drem, "dneg": Dneg,

	"i2l": I2l, "i2f": I2f, "i2d": I2d,
	"l2i": L2i, "l2f": L2f, "l2d": L2d,
	"f2i": F2i, "f2l": F2l, "f2d": F2d,
	"d2i": D2i, "d2l": D2l, "d2f": D2f,
	"i2b": I2b, "i2c": I2c, "i2s": I2s,

	"lcmp": Lcmp, "fcmpl": Fcmpl, "fcmpg": Fcmpg, "dcmpl": Dcmpl, "dcmpg": Dcmpg,

	"ifeq": Ifeq, "ifne": Ifne, "iflt": Iflt, "ifge": Ifge, "ifgt": Ifgt, "ifle": Ifle,
	"if_icmpeq": IfIcmpeq, "if_icmpne": IfIcmpne, "if_icmplt": IfIcmplt,
	"if_icmpge": IfIcmpge, "if_icmpgt": IfIcmpgt, "if_icmple": IfIcmple,
	"if_acmpeq": IfAcmpeq, "if_acmpne": IfAcmpne,
	"ifnull": Ifnull, "ifnonnull": Ifnonnull, "goto": Goto,

	"tableswitch":  Tableswitch,
	"lookupswitch": Lookupswitch,

	"invokestatic":    Invokestatic,
	"invokevirtual":   Invokevirtual,
	"invokespecial":   Invokespecial,
	"invokeinterface": Invokeinterface,

	"ireturn": Ireturn, "lreturn": Lreturn, "freturn": Freturn,
	"dreturn": Dreturn, "areturn": Areturn, "return": Return,

	"athrow":       Athrow,
	"monitorenter": Monitorenter,
	"monitorexit":  Monitorexit,

	"checkcast":  Checkcast,
	"instanceof": Instanceof,
}

// Name returns op's reference mnemonic, or "" if op has none (opCount and
// any unused byte value).
func Name(op Op) string {
	for name, o := range opcodeByName {
		if o == op {
			return name
		}
	}
	return ""
}

// OpByName resolves a reference mnemonic (as used by internal/classfile's
// JSONParser) to its Op value.
func OpByName(name string) (Op, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}
