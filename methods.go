package ember

// MethodSig describes one member of the array or string method tables:
// its name, the positional parameter types it expects (a nil entry
// stands for "the array's element type" and is resolved per call site),
// its return-type rule, and the runtime function name the generator
// lowers a call to.
//
// This table is the single authoritative source the Redesign Flag in the
// distilled spec calls for: both the type checker (member-access typing)
// and the code generator (runtime name lowering) read it, so no member can
// exist in one stage without the other.
type MethodSig struct {
	Name    string
	Params  []*Type // nil entries mean "element type of the receiver"
	Return  func(receiver *Type) *Type
	Runtime string // rt_<Runtime> is the emitted function name
}

func elemOf(t *Type) *Type {
	if t.Kind == TArray {
		return t.Elem
	}
	return Any
}

// ArrayMethods is the authoritative member table for array-typed
// receivers.
var ArrayMethods = map[string]MethodSig{
	"push": {
		Name:    "push",
		Params:  []*Type{nil},
		Return:  func(*Type) *Type { return Void },
		Runtime: "array_push",
	},
	"pop": {
		Name:    "pop",
		Params:  nil,
		Return:  func(r *Type) *Type { return elemOf(r) },
		Runtime: "array_pop",
	},
	"clear": {
		Name:    "clear",
		Params:  nil,
		Return:  func(*Type) *Type { return Void },
		Runtime: "array_clear",
	},
	"concat": {
		Name:    "concat",
		Params:  []*Type{nil},
		Return:  func(r *Type) *Type { return r },
		Runtime: "array_concat",
	},
	"reverse": {
		Name:    "reverse",
		Params:  nil,
		Return:  func(r *Type) *Type { return r },
		Runtime: "array_reverse",
	},
	"remove": {
		Name:    "remove",
		Params:  []*Type{Long},
		Return:  func(r *Type) *Type { return elemOf(r) },
		Runtime: "array_remove",
	},
	"insert": {
		Name:    "insert",
		Params:  []*Type{Long, nil},
		Return:  func(*Type) *Type { return Void },
		Runtime: "array_insert",
	},
	"contains": {
		Name:    "contains",
		Params:  []*Type{nil},
		Return:  func(*Type) *Type { return Bool },
		Runtime: "array_contains",
	},
	"indexOf": {
		Name:    "indexOf",
		Params:  []*Type{nil},
		Return:  func(*Type) *Type { return Long },
		Runtime: "array_index_of",
	},
	"clone": {
		Name:    "clone",
		Params:  nil,
		Return:  func(r *Type) *Type { return r },
		Runtime: "array_clone",
	},
	"join": {
		Name:    "join",
		Params:  []*Type{String},
		Return:  func(*Type) *Type { return String },
		Runtime: "array_join",
	},
}

// ArrayFieldLength is the one non-callable array member: `.length`.
const ArrayFieldLength = "length"

// StringMethods is the authoritative member table for string-typed
// receivers.
var StringMethods = map[string]MethodSig{
	"substring": {
		Params: []*Type{Long, Long}, Return: func(*Type) *Type { return String }, Runtime: "str_substring",
	},
	"trim": {
		Params: nil, Return: func(*Type) *Type { return String }, Runtime: "str_trim",
	},
	"toUpper": {
		Params: nil, Return: func(*Type) *Type { return String }, Runtime: "str_to_upper",
	},
	"toLower": {
		Params: nil, Return: func(*Type) *Type { return String }, Runtime: "str_to_lower",
	},
	"startsWith": {
		Params: []*Type{String}, Return: func(*Type) *Type { return Bool }, Runtime: "str_starts_with",
	},
	"endsWith": {
		Params: []*Type{String}, Return: func(*Type) *Type { return Bool }, Runtime: "str_ends_with",
	},
	"contains": {
		Params: []*Type{String}, Return: func(*Type) *Type { return Bool }, Runtime: "str_contains",
	},
	"replace": {
		Params: []*Type{String, String}, Return: func(*Type) *Type { return String }, Runtime: "str_replace",
	},
	"charAt": {
		Params: []*Type{Long}, Return: func(*Type) *Type { return Char }, Runtime: "str_char_at",
	},
	"indexOf": {
		Params: []*Type{String}, Return: func(*Type) *Type { return Long }, Runtime: "str_index_of",
	},
	"split": {
		Params: []*Type{String}, Return: func(*Type) *Type { return ArrayOf(String) }, Runtime: "str_split",
	},
}

// StringFieldLength is the one non-callable string member: `.length`.
const StringFieldLength = "length"

// MemberNames returns the candidate set used to compute "did you mean"
// suggestions for a bad member access on a receiver of the given type.
func MemberNames(receiver *Type) []string {
	var names []string
	switch receiver.Kind {
	case TArray:
		names = append(names, ArrayFieldLength)
		for name := range ArrayMethods {
			names = append(names, name)
		}
	case TString:
		names = append(names, StringFieldLength)
		for name := range StringMethods {
			names = append(names, name)
		}
	}
	return names
}
