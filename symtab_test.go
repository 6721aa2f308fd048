package ember

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolTablePushPopRestoresActiveScope(t *testing.T) {
	arena := NewArena()
	st := NewSymbolTable(arena)
	before := st.Current()
	st.PushScope()
	st.AddSymbol("x", Int, SymLocal, QualNone)
	st.PopScope()
	require.Same(t, before, st.Current())
}

func TestSymbolTablePopPropagatesDeepestOffset(t *testing.T) {
	arena := NewArena()
	st := NewSymbolTable(arena)
	st.PushScope()
	parentBefore := st.Current().nextLocalOffset
	st.AddSymbol("a", Int, SymLocal, QualNone)
	st.PushScope()
	st.AddSymbol("b", Int, SymLocal, QualNone)
	st.AddSymbol("c", Int, SymLocal, QualNone)
	child := st.Current()
	st.PopScope()
	parent := st.Current()
	require.LessOrEqual(t, parent.nextLocalOffset, child.nextLocalOffset,
		"parent offset not propagated from deeper child offset")
	require.Less(t, parent.nextLocalOffset, parentBefore,
		"parent offset should have moved past its pre-push value")
}

func TestSymbolTableLookupWalksEnclosingChain(t *testing.T) {
	arena := NewArena()
	st := NewSymbolTable(arena)
	st.AddGlobalSymbol("g", Int, SymGlobal, QualNone)
	st.PushScope()
	st.AddSymbol("x", String, SymLocal, QualNone)
	_, ok := st.Lookup("g")
	require.True(t, ok, "expected to find global symbol from nested scope")
	_, ok = st.Lookup("x")
	require.True(t, ok, "expected to find local symbol in its own scope")
	st.PopScope()
	_, ok = st.LookupCurrent("x")
	require.False(t, ok, "x should not be visible after its scope is popped")
}

func TestSymbolTableRedeclarationReplacesInPlace(t *testing.T) {
	arena := NewArena()
	st := NewSymbolTable(arena)
	first := st.AddSymbol("x", Int, SymLocal, QualNone)
	second := st.AddSymbol("x", Double, SymLocal, QualNone)
	require.Same(t, first, second, "redeclaration in the same scope should reuse the existing *Symbol")
	require.Equal(t, Double, first.Type)
}
