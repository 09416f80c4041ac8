package classfile

import (
	"fmt"
	"strings"
)

// ParseType decodes the reference textual type syntax used by JSONParser
// and test fixtures: primitive names ("int", "boolean", ...), class names
// (anything containing '/', or "L<name>;"), and a trailing "[]" per array
// dimension ("int[]", "java/lang/String[]").
func ParseType(s string) (Type, error) {
	if s == "" {
		return Type{}, fmt.Errorf("empty type")
	}
	dims := 0
	for strings.HasSuffix(s, "[]") {
		dims++
		s = strings.TrimSuffix(s, "[]")
	}
	base, err := parseBaseType(s)
	if err != nil {
		return Type{}, err
	}
	for i := 0; i < dims; i++ {
		base = ArrayType(base)
	}
	return base, nil
}

func parseBaseType(s string) (Type, error) {
	switch s {
	case "boolean":
		return PrimitiveType(Boolean), nil
	case "byte":
		return PrimitiveType(Byte), nil
	case "short":
		return PrimitiveType(Short), nil
	case "char":
		return PrimitiveType(Char), nil
	case "int":
		return PrimitiveType(Int), nil
	case "long":
		return PrimitiveType(Long), nil
	case "float":
		return PrimitiveType(Float), nil
	case "double":
		return PrimitiveType(Double), nil
	case "void":
		return PrimitiveType(Void), nil
	}
	if strings.HasPrefix(s, "L") && strings.HasSuffix(s, ";") {
		return ClassType(s[1 : len(s)-1]), nil
	}
	if strings.Contains(s, "/") || strings.Contains(s, ".") {
		return ClassType(strings.ReplaceAll(s, ".", "/")), nil
	}
	return Type{}, fmt.Errorf("unrecognized type %q", s)
}

// ParseDescriptor decodes the reference textual method descriptor syntax:
// "(param,param,...)return", each element parsed by ParseType.
func ParseDescriptor(s string) (Descriptor, error) {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open != 0 || close < open {
		return Descriptor{}, fmt.Errorf("malformed descriptor %q", s)
	}
	var params []Type
	inner := strings.TrimSpace(s[open+1 : close])
	if inner != "" {
		for _, p := range strings.Split(inner, ",") {
			t, err := ParseType(strings.TrimSpace(p))
			if err != nil {
				return Descriptor{}, fmt.Errorf("descriptor %q: %w", s, err)
			}
			params = append(params, t)
		}
	}
	ret, err := ParseType(strings.TrimSpace(s[close+1:]))
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor %q: %w", s, err)
	}
	return Descriptor{Params: params, Return: ret}, nil
}
