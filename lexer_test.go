package ember

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()
	arena := NewArena()
	lex := NewLexer(arena, []byte(src), "test.em")
	var toks []Token
	for {
		tok := lex.NextToken()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
		require.LessOrEqual(t, len(toks), 10000, "token stream did not terminate")
	}
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerIndentDedentBracketsBlock(t *testing.T) {
	src := "if x => \n    y = 1\n    z = 2\n"
	toks := kinds(scanAll(t, src))
	want := []Kind{KW_IF, IDENT, FATARROW, NEWLINE, INDENT,
		IDENT, ASSIGN, INT, NEWLINE,
		IDENT, ASSIGN, INT, NEWLINE, DEDENT, EOF}
	require.Equal(t, want, toks)
}

func TestLexerNestedDedentsAtEOF(t *testing.T) {
	src := "fn f(): void =>\n    if a =>\n        x = 1\n"
	toks := kinds(scanAll(t, src))
	require.Equal(t, EOF, toks[len(toks)-1])
	dedents := 0
	for _, k := range toks {
		if k == DEDENT {
			dedents++
		}
	}
	require.Equal(t, 2, dedents, "DEDENT tokens at EOF unwind")
}

func TestLexerMixedTabsAndSpacesIsError(t *testing.T) {
	src := "if x =>\n\t    y = 1\n"
	toks := scanAll(t, src)
	sawErr := false
	for _, tok := range toks {
		if tok.Kind == ERROR {
			sawErr = true
		}
	}
	require.True(t, sawErr, "expected an ERROR token for mixed tab/space indentation")
}

func TestLexerNumberSuffixes(t *testing.T) {
	toks := scanAll(t, "3 3l 3.5 3.5d\n")
	require.Equal(t, INT, toks[0].Kind)
	require.EqualValues(t, 3, toks[0].Literal.Int)
	require.Equal(t, LONG, toks[1].Kind)
	require.EqualValues(t, 3, toks[1].Literal.Int)
	require.Equal(t, DOUBLE, toks[2].Kind)
	require.Equal(t, 3.5, toks[2].Literal.Double)
	require.Equal(t, DOUBLE, toks[3].Kind)
	require.Equal(t, 3.5, toks[3].Literal.Double)
}

func TestLexerInterpolatedStringCapturesDecodedPayload(t *testing.T) {
	toks := scanAll(t, `$"n={x}\n"`+"\n")
	require.Equal(t, ISTRING, toks[0].Kind)
	require.Equal(t, "n={x}\n", toks[0].Lexeme)
}

func TestLexerOperators(t *testing.T) {
	toks := kinds(scanAll(t, "a..b a...b a<=b a>=b a==b a!=b a&&b||c a++ --a a->b\n"))
	want := []Kind{
		IDENT, RANGE, IDENT,
		IDENT, SPREAD, IDENT,
		IDENT, LTE, IDENT,
		IDENT, GTE, IDENT,
		IDENT, EQ, IDENT,
		IDENT, NEQ, IDENT,
		IDENT, AND, IDENT, OR, IDENT,
		IDENT, INC,
		DEC, IDENT,
		IDENT, ARROW, IDENT,
		NEWLINE, EOF,
	}
	require.Equal(t, want, toks)
}
