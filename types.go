package ember

import "strings"

// TypeKind tags the variant of a Type.
type TypeKind int

const (
	TInt TypeKind = iota
	TLong
	TDouble
	TChar
	TString
	TBool
	TVoid
	TNil
	TAny
	TArray
	TFunction
)

// Type is the sum `Int | Long | Double | Char | String | Bool | Void | Nil
// | Any | Array(Elem) | Function(Ret, Params)`. Values are constructed
// through the package-level constructors below and compared structurally
// with Equals; Nil is assignable to any reference-shaped type and Any
// inhibits strict checks (see AssignableTo).
type Type struct {
	Kind   TypeKind
	Elem   *Type   // Array
	Ret    *Type   // Function
	Params []*Type // Function
}

var (
	Int    = &Type{Kind: TInt}
	Long   = &Type{Kind: TLong}
	Double = &Type{Kind: TDouble}
	Char   = &Type{Kind: TChar}
	String = &Type{Kind: TString}
	Bool   = &Type{Kind: TBool}
	Void   = &Type{Kind: TVoid}
	Nil    = &Type{Kind: TNil}
	Any    = &Type{Kind: TAny}
)

// ArrayOf constructs an array-of-elem Type.
func ArrayOf(elem *Type) *Type { return &Type{Kind: TArray, Elem: elem} }

// FuncType constructs a function Type with the given return type and
// positional parameter types.
func FuncType(ret *Type, params ...*Type) *Type {
	return &Type{Kind: TFunction, Ret: ret, Params: params}
}

// IsNumeric reports whether t is one of int/long/double.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == TInt || t.Kind == TLong || t.Kind == TDouble)
}

// IsPrimitive reports whether t is one of the scalar types that may cross a
// `private` region boundary: int, long, double, char, bool.
func (t *Type) IsPrimitive() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TInt, TLong, TDouble, TChar, TBool:
		return true
	default:
		return false
	}
}

// IsPrintable reports whether a rt_string_to_string_<kind> exists for t, as
// required of every expression embedded in an interpolated string.
func (t *Type) IsPrintable() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TInt, TLong, TDouble, TChar, TBool, TString:
		return true
	case TArray:
		return t.Elem.IsPrintable()
	default:
		return false
	}
}

// Equals reports deep structural equality.
func (t *Type) Equals(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TArray:
		return t.Elem.Equals(o.Elem)
	case TFunction:
		if !t.Ret.Equals(o.Ret) || len(t.Params) != len(o.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equals(o.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// AssignableTo reports whether a value of type t may be assigned where a
// value of type target is expected: equal types, Nil into any reference
// shape (Array/String/Function/Any), and the empty-array-literal's
// Array(Nil) into any array type.
func (t *Type) AssignableTo(target *Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t.Equals(target) || target.Kind == TAny || t.Kind == TAny {
		return true
	}
	if t.Kind == TNil {
		switch target.Kind {
		case TString, TArray, TFunction, TAny:
			return true
		}
		return false
	}
	if t.Kind == TArray && t.Elem.Kind == TNil && target.Kind == TArray {
		return true
	}
	return false
}

// String renders t the way Ember source spells it, used both by
// diagnostics and by the faithful unparser.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TInt:
		return "int"
	case TLong:
		return "long"
	case TDouble:
		return "double"
	case TChar:
		return "char"
	case TString:
		return "str"
	case TBool:
		return "bool"
	case TVoid:
		return "void"
	case TNil:
		return "nil"
	case TAny:
		return "any"
	case TArray:
		return t.Elem.String() + "[]"
	case TFunction:
		var parts []string
		for _, p := range t.Params {
			parts = append(parts, p.String())
		}
		return "fn(" + strings.Join(parts, ", ") + "): " + t.Ret.String()
	default:
		return "?"
	}
}

// PromoteNumeric returns the result type of a binary arithmetic op over a
// and b per the promotion rule: double beats long beats int, and the
// result is long whenever neither operand is double (int and long share a
// runtime representation; see DESIGN.md on the int/long unification).
func PromoteNumeric(a, b *Type) *Type {
	if a.Kind == TDouble || b.Kind == TDouble {
		return Double
	}
	return Long
}
