package ember

import "fmt"

// Kind identifies what a Token represents.
type Kind int

const (
	ERROR Kind = iota
	EOF
	NEWLINE
	INDENT
	DEDENT

	// literals
	IDENT
	INT
	LONG
	DOUBLE
	CHAR
	STRING
	ISTRING // `$"..."`, payload is the escape-decoded interpolation body

	// keywords
	KW_FN
	KW_IF
	KW_ELSE
	KW_FOR
	KW_WHILE
	KW_RETURN
	KW_VAR
	KW_IMPORT
	KW_TRUE
	KW_FALSE
	KW_INT
	KW_LONG
	KW_DOUBLE
	KW_CHAR
	KW_BOOL
	KW_STR
	KW_VOID
	KW_NIL
	KW_ANY
	KW_AS
	KW_VAL
	KW_REF
	KW_SHARED
	KW_PRIVATE
	KW_BREAK
	KW_CONTINUE
	KW_IN

	// punctuation / operators
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	SEMICOLON
	DOT

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	BANG

	EQ
	NEQ
	LT
	LTE
	GT
	GTE

	INC
	DEC

	ARROW     // ->
	FATARROW  // =>
	AND       // &&
	OR        // ||
	RANGE     // ..
	SPREAD    // ...
)

var kindNames = map[Kind]string{
	ERROR: "ERROR", EOF: "EOF", NEWLINE: "NEWLINE", INDENT: "INDENT", DEDENT: "DEDENT",
	IDENT: "IDENT", INT: "INT", LONG: "LONG", DOUBLE: "DOUBLE", CHAR: "CHAR",
	STRING: "STRING", ISTRING: "ISTRING",
	KW_FN: "fn", KW_IF: "if", KW_ELSE: "else", KW_FOR: "for", KW_WHILE: "while",
	KW_RETURN: "return", KW_VAR: "var", KW_IMPORT: "import", KW_TRUE: "true",
	KW_FALSE: "false", KW_INT: "int", KW_LONG: "long", KW_DOUBLE: "double",
	KW_CHAR: "char", KW_BOOL: "bool", KW_STR: "str", KW_VOID: "void", KW_NIL: "nil",
	KW_ANY: "any", KW_AS: "as", KW_VAL: "val", KW_REF: "ref", KW_SHARED: "shared",
	KW_PRIVATE: "private", KW_BREAK: "break", KW_CONTINUE: "continue", KW_IN: "in",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", COLON: ":", SEMICOLON: ";", DOT: ".",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", ASSIGN: "=", BANG: "!",
	EQ: "==", NEQ: "!=", LT: "<", LTE: "<=", GT: ">", GTE: ">=",
	INC: "++", DEC: "--", ARROW: "->", FATARROW: "=>", AND: "&&", OR: "||",
	RANGE: "..", SPREAD: "...",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords maps the maximal alphabetic run the lexer reads to its keyword
// Kind. Anything not present here is an IDENT.
var keywords = map[string]Kind{
	"fn": KW_FN, "if": KW_IF, "else": KW_ELSE, "for": KW_FOR, "while": KW_WHILE,
	"return": KW_RETURN, "var": KW_VAR, "import": KW_IMPORT, "true": KW_TRUE,
	"false": KW_FALSE, "int": KW_INT, "long": KW_LONG, "double": KW_DOUBLE,
	"char": KW_CHAR, "bool": KW_BOOL, "str": KW_STR, "void": KW_VOID, "nil": KW_NIL,
	"any": KW_ANY, "as": KW_AS, "val": KW_VAL, "ref": KW_REF, "shared": KW_SHARED,
	"private": KW_PRIVATE, "break": KW_BREAK, "continue": KW_CONTINUE, "in": KW_IN,
}

// LookupIdentifier returns the keyword Kind for an identifier-shaped lexeme,
// or IDENT if it isn't one of the reserved words.
func LookupIdentifier(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Literal carries the decoded payload of a literal token, tagged by the
// owning Token's Kind so only one field is meaningful at a time.
type Literal struct {
	Int    int64
	Double float64
	Char   rune
	Str    string
	Bool   bool
}

// Token is the value produced by the Lexer: a kind, the lexeme span, its
// source location, and a decoded literal payload where applicable. Lexemes
// are copied into the compiler's Arena whenever a Token must outlive the
// source buffer it was scanned from (see Lexer.intern).
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	File    string
	Literal Literal
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) @ %s:%d", t.Kind, t.Lexeme, t.File, t.Line)
}
