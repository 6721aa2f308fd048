package ember

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer is a faithful unparser: it walks a Module and reconstructs Ember
// source text an independent parse of which produces an equivalent AST.
// It always renders blocks in their canonical indented form (never the
// one-line `=> a; b` shorthand), so Print is not required to reproduce
// the original byte-for-byte, only its meaning — the property the
// round-trip test in ast_printer_test.go checks. Operator, assignment and
// range expressions are always parenthesized, since the parser keeps no
// node for source parentheses.
type Printer struct {
	sb     strings.Builder
	indent int
}

// NewPrinter returns an empty Printer ready for Print.
func NewPrinter() *Printer { return &Printer{} }

// Print renders an entire Module.
func Print(m *Module) string {
	p := NewPrinter()
	for _, s := range m.Stmts {
		p.printStmt(s)
	}
	return p.sb.String()
}

func (p *Printer) writeIndent() {
	p.sb.WriteString(strings.Repeat("    ", p.indent))
}

func (p *Printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

// printStmt dispatches to the right Visit via Accept, matching every
// other stage's visitor-driven walk.
func (p *Printer) printStmt(s Stmt) {
	_ = s.Accept(p)
}

func (p *Printer) exprText(e Expr) string {
	sub := NewPrinter()
	_ = e.Accept(sub)
	switch e.(type) {
	case *BinaryExpr, *UnaryExpr, *AssignExpr, *RangeExpr:
		return "(" + sub.sb.String() + ")"
	}
	return sub.sb.String()
}

// ---- block helper ----

func (p *Printer) printBlockBody(mod RegionMod, stmts []Stmt) {
	if mod != RegionDefault {
		p.sb.WriteString(mod.String() + " ")
	}
	p.sb.WriteString("=>\n")
	p.indent++
	for _, s := range stmts {
		p.printStmt(s)
	}
	p.indent--
}

// ---- StmtVisitor ----

func (p *Printer) VisitExprStmt(s *ExprStmt) error {
	p.line("%s", p.exprText(s.X))
	return nil
}

func (p *Printer) VisitVarDecl(s *VarDecl) error {
	p.writeIndent()
	fmt.Fprintf(&p.sb, "var %s: %s", s.Name, s.Type.String())
	if s.Init != nil {
		fmt.Fprintf(&p.sb, " = %s", p.exprText(s.Init))
	}
	if s.Qual != QualNone {
		fmt.Fprintf(&p.sb, " %s", s.Qual.String())
	}
	p.sb.WriteByte('\n')
	return nil
}

func (p *Printer) VisitFuncDecl(s *FuncDecl) error {
	p.writeIndent()
	if s.Mod != RegionDefault {
		fmt.Fprintf(&p.sb, "%s ", s.Mod.String())
	}
	fmt.Fprintf(&p.sb, "fn %s(", s.Name)
	for i, param := range s.Params {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		fmt.Fprintf(&p.sb, "%s: %s", param.Name, param.Type.String())
		if param.Qual != QualNone {
			fmt.Fprintf(&p.sb, " %s", param.Qual.String())
		}
	}
	fmt.Fprintf(&p.sb, "): %s ", s.RetType.String())
	p.printBlockBody(RegionDefault, s.Body.Stmts)
	return nil
}

func (p *Printer) VisitReturn(s *ReturnStmt) error {
	if s.Value == nil {
		p.line("return")
		return nil
	}
	p.line("return %s", p.exprText(s.Value))
	return nil
}

func (p *Printer) VisitBlock(s *BlockStmt) error {
	p.writeIndent()
	p.printBlockBody(s.Mod, s.Stmts)
	return nil
}

func (p *Printer) VisitIf(s *IfStmt) error {
	p.writeIndent()
	p.printIfFrom(s)
	return nil
}

// printIfFrom renders an if/else chain assuming the caller has already
// written the leading indentation, so an `else if` can recurse into it
// without duplicating indent.
func (p *Printer) printIfFrom(s *IfStmt) {
	fmt.Fprintf(&p.sb, "if %s ", p.exprText(s.Cond))
	p.printBlockBody(RegionDefault, s.Then.Stmts)
	if s.Else != nil {
		p.writeIndent()
		p.sb.WriteString("else ")
		switch els := s.Else.(type) {
		case *IfStmt:
			p.printIfFrom(els)
		case *BlockStmt:
			p.printBlockBody(els.Mod, els.Stmts)
		}
	}
}

func (p *Printer) VisitWhile(s *WhileStmt) error {
	p.writeIndent()
	fmt.Fprintf(&p.sb, "while %s ", p.exprText(s.Cond))
	p.printBlockBody(RegionDefault, s.Body.Stmts)
	return nil
}

func (p *Printer) VisitFor(s *ForStmt) error {
	p.writeIndent()
	p.sb.WriteString("for ")
	if s.Init != nil {
		p.sb.WriteString(forHeaderClauseText(s.Init))
	}
	p.sb.WriteString("; ")
	if s.Cond != nil {
		p.sb.WriteString(p.exprText(s.Cond))
	}
	p.sb.WriteString("; ")
	if s.Step != nil {
		p.sb.WriteString(forHeaderClauseText(s.Step))
	}
	p.sb.WriteString(" ")
	p.printBlockBody(RegionDefault, s.Body.Stmts)
	return nil
}

// forHeaderClauseText renders a for-loop init/step clause inline: the
// parser only ever produces a *VarDecl or an *ExprStmt here.
func forHeaderClauseText(s Stmt) string {
	p := NewPrinter()
	switch clause := s.(type) {
	case *VarDecl:
		fmt.Fprintf(&p.sb, "var %s: %s", clause.Name, clause.Type.String())
		if clause.Init != nil {
			fmt.Fprintf(&p.sb, " = %s", p.exprText(clause.Init))
		}
		if clause.Qual != QualNone {
			fmt.Fprintf(&p.sb, " %s", clause.Qual.String())
		}
	case *ExprStmt:
		p.sb.WriteString(p.exprText(clause.X))
	}
	return p.sb.String()
}

func (p *Printer) VisitForEach(s *ForEachStmt) error {
	p.writeIndent()
	fmt.Fprintf(&p.sb, "for var %s in %s ", s.Name, p.exprText(s.Iterable))
	p.printBlockBody(RegionDefault, s.Body.Stmts)
	return nil
}

func (p *Printer) VisitBreak(s *BreakStmt) error {
	p.line("break")
	return nil
}

func (p *Printer) VisitContinue(s *ContinueStmt) error {
	p.line("continue")
	return nil
}

func (p *Printer) VisitImport(s *ImportStmt) error {
	p.line("import %s", s.Name)
	return nil
}

// ---- ExprVisitor ----

func (p *Printer) VisitLiteral(e *LiteralExpr) error {
	switch e.LitKind {
	case INT:
		fmt.Fprintf(&p.sb, "%d", e.Value.Int)
	case LONG:
		fmt.Fprintf(&p.sb, "%dl", e.Value.Int)
	case DOUBLE:
		text := strconv.FormatFloat(e.Value.Double, 'f', -1, 64)
		if !strings.Contains(text, ".") {
			text += ".0"
		}
		p.sb.WriteString(text)
	case CHAR:
		p.sb.WriteString("'" + escapeRune(e.Value.Char) + "'")
	case STRING:
		p.sb.WriteString("\"" + escapeString(e.Value.Str) + "\"")
	case KW_TRUE:
		p.sb.WriteString("true")
	case KW_FALSE:
		p.sb.WriteString("false")
	case KW_NIL:
		p.sb.WriteString("nil")
	}
	return nil
}

func escapeRune(r rune) string {
	switch r {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\\':
		return `\\`
	case '\'':
		return `\'`
	default:
		return string(r)
	}
}

func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (p *Printer) VisitIdent(e *IdentExpr) error {
	p.sb.WriteString(e.Name)
	return nil
}

func (p *Printer) VisitAssign(e *AssignExpr) error {
	fmt.Fprintf(&p.sb, "%s = %s", p.exprText(e.Target), p.exprText(e.Value))
	return nil
}

func (p *Printer) VisitBinary(e *BinaryExpr) error {
	fmt.Fprintf(&p.sb, "%s %s %s", p.exprText(e.Left), e.Op.String(), p.exprText(e.Right))
	return nil
}

func (p *Printer) VisitUnary(e *UnaryExpr) error {
	fmt.Fprintf(&p.sb, "%s%s", e.Op.String(), p.exprText(e.Operand))
	return nil
}

func (p *Printer) VisitIncDec(e *IncDecExpr) error {
	if e.Prefix {
		fmt.Fprintf(&p.sb, "%s%s", e.Op.String(), p.exprText(e.Operand))
	} else {
		fmt.Fprintf(&p.sb, "%s%s", p.exprText(e.Operand), e.Op.String())
	}
	return nil
}

func (p *Printer) VisitCall(e *CallExpr) error {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = p.exprText(a)
	}
	fmt.Fprintf(&p.sb, "%s(%s)", p.exprText(e.Callee), strings.Join(args, ", "))
	return nil
}

func (p *Printer) VisitArrayLit(e *ArrayLitExpr) error {
	elems := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = p.exprText(el)
	}
	fmt.Fprintf(&p.sb, "{%s}", strings.Join(elems, ", "))
	return nil
}

func (p *Printer) VisitIndex(e *IndexExpr) error {
	fmt.Fprintf(&p.sb, "%s[%s]", p.exprText(e.Base), p.exprText(e.Index))
	return nil
}

func (p *Printer) VisitSlice(e *SliceExpr) error {
	p.sb.WriteString(p.exprText(e.Base))
	p.sb.WriteByte('[')
	if e.Start != nil {
		p.sb.WriteString(p.exprText(e.Start))
	}
	p.sb.WriteByte(':')
	if e.End != nil {
		p.sb.WriteString(p.exprText(e.End))
	}
	if e.Step != nil {
		p.sb.WriteByte(':')
		p.sb.WriteString(p.exprText(e.Step))
	}
	p.sb.WriteByte(']')
	return nil
}

func (p *Printer) VisitRange(e *RangeExpr) error {
	fmt.Fprintf(&p.sb, "%s..%s", p.exprText(e.Start), p.exprText(e.End))
	return nil
}

func (p *Printer) VisitSpread(e *SpreadExpr) error {
	fmt.Fprintf(&p.sb, "...%s", p.exprText(e.Operand))
	return nil
}

func (p *Printer) VisitMember(e *MemberExpr) error {
	fmt.Fprintf(&p.sb, "%s.%s", p.exprText(e.Base), e.Name)
	return nil
}

func (p *Printer) VisitInterp(e *InterpExpr) error {
	p.sb.WriteString(`$"`)
	for _, part := range e.Parts {
		if part.Expr == nil {
			p.sb.WriteString(escapeString(part.Text))
			continue
		}
		p.sb.WriteByte('{')
		p.sb.WriteString(p.exprText(part.Expr))
		if part.Format != "" {
			p.sb.WriteByte(':')
			p.sb.WriteString(part.Format)
		}
		p.sb.WriteByte('}')
	}
	p.sb.WriteByte('"')
	return nil
}
