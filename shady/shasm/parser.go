// Package shasm is the text-source front end for the Shady VM: it
// turns line-oriented assembly source into bitcode by driving the
// shady/asm typed builder, the same way the teacher's parser+encoder
// pair turns ARM assembly text into machine code (parser/lexer.go,
// parser/parser.go, encoder/encoder.go), but collapsed into one pass
// since Shasm's grammar is one-instruction-per-line with no macros or
// directives.
package shasm

import (
	"strconv"
	"strings"

	"github.com/kannanvijayan/renfrew-river/shady"
	"github.com/kannanvijayan/renfrew-river/shady/asm"
)

// Parse compiles shasm source into bitcode. On any error it returns a
// nil program and the full accumulated ErrorList (every failing line,
// not just the first — spec.md §7).
func Parse(source string) ([]shady.Instruction, *ErrorList) {
	errs := &ErrorList{}
	b := asm.NewBuilder()

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if label, ok := parseLabelLine(trimmed); ok {
			b.BindLabel(label)
			continue
		}
		parseInstructionLine(b, trimmed, lineNo, errs)
	}

	if errs.HasErrors() {
		return nil, errs
	}

	prog, err := b.Assemble()
	if err != nil {
		errs.add(0, ErrorUnknownLabel, "%s", err.Error())
		return nil, errs
	}
	return prog, errs
}

// Validate runs Parse purely for its side effect of validation,
// returning the ErrorList (empty if the source is well formed). Ruleset
// validation calls Parse directly instead, since it also keeps the
// bitcode.
func Validate(source string) *ErrorList {
	_, errs := Parse(source)
	if errs == nil {
		errs = &ErrorList{}
	}
	return errs
}

// parseLabelLine recognizes "^\s*@<ident>:\s*$" against an
// already-trimmed line.
func parseLabelLine(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "@") {
		return "", false
	}
	if !strings.HasSuffix(trimmed, ":") {
		return "", false
	}
	ident := trimmed[1 : len(trimmed)-1]
	if ident == "" || !isIdent(ident) {
		return "", false
	}
	return ident, true
}

func isIdent(s string) bool {
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

type opEmitter func(b *asm.Builder, dst shady.Dest, s1, s2 shady.Operand)

var opTable = map[string]opEmitter{
	"add":    func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.Add(d, s1, s2) },
	"sub":    func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.Sub(d, s1, s2) },
	"mul":    func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.Mul(d, s1, s2) },
	"div":    func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.Div(d, s1, s2) },
	"mod":    func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.Mod(d, s1, s2) },
	"bitand": func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.BitAnd(d, s1, s2) },
	"bitor":  func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.BitOr(d, s1, s2) },
	"bitxor": func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.BitXor(d, s1, s2) },
	"max":    func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.Max(d, s1, s2) },
	"min":    func(b *asm.Builder, d shady.Dest, s1, s2 shady.Operand) { b.Min(d, s1, s2) },
}

var condTable = map[string]shady.Cond{
	"ifeq": shady.CondEqual,
	"ifne": shady.CondNotEqual,
	"iflt": shady.CondLess,
	"ifle": shady.CondLessEqual,
	"ifgt": shady.CondGreater,
	"ifge": shady.CondGreaterEqual,
}

func parseInstructionLine(b *asm.Builder, line string, lineNo int, errs *ErrorList) {
	toks := lexLine(line, lineNo, errs)
	p := &lineParser{toks: toks, lineNo: lineNo, errs: errs}

	if w, ok := p.peekWord(); ok && strings.EqualFold(w, "noflags") {
		p.pos++
		b.WithSuppressFlags()
	}
	if w, ok := p.peekWord(); ok {
		if cond, known := condTable[strings.ToLower(w)]; known {
			p.pos++
			b.WithIf(cond)
		}
	}

	mnemonic, ok := p.takeWord()
	if !ok {
		errs.add(lineNo, ErrorSyntax, "expected an instruction")
		return
	}
	lower := strings.ToLower(mnemonic)

	switch {
	case lower == "ret":
		b.Ret()
	case lower == "goto" || lower == "call":
		target, ok := p.takeWord()
		if !ok {
			errs.add(lineNo, ErrorSyntax, "expected a label after %q", lower)
			return
		}
		if lower == "goto" {
			b.Jump(target)
		} else {
			b.Call(target)
		}
	case lower == "imm32load":
		dst, ok := p.parseDest()
		if !ok {
			return
		}
		if !p.expect(tokComma) {
			return
		}
		val, ok := p.takeSignedInt32()
		if !ok {
			errs.add(lineNo, ErrorOperand, "expected a signed integer immediate")
			return
		}
		b.LoadImm32(dst, val)
	default:
		emit, known := opTable[lower]
		if !known {
			errs.add(lineNo, ErrorUnknownMnemonic, "Error parsing instruction: unknown mnemonic %q", mnemonic)
			return
		}
		dst, ok := p.parseDest()
		if !ok {
			return
		}
		if !p.expect(tokComma) {
			return
		}
		src1, ok := p.parseSrc()
		if !ok {
			return
		}
		if !p.expect(tokComma) {
			return
		}
		src2, ok := p.parseSrc()
		if !ok {
			return
		}
		emit(b, dst, src1, src2)
	}

	if !p.atEOF() {
		errs.add(lineNo, ErrorSyntax, "unexpected trailing tokens")
	}
}

type lineParser struct {
	toks   []token
	pos    int
	lineNo int
	errs   *ErrorList
}

func (p *lineParser) atEOF() bool { return p.toks[p.pos].kind == tokEOF }

func (p *lineParser) peekWord() (string, bool) {
	t := p.toks[p.pos]
	if t.kind != tokWord {
		return "", false
	}
	return t.text, true
}

func (p *lineParser) takeWord() (string, bool) {
	t := p.toks[p.pos]
	if t.kind != tokWord {
		return "", false
	}
	p.pos++
	return t.text, true
}

func (p *lineParser) expect(k tokenKind) bool {
	if p.toks[p.pos].kind != k {
		p.errs.add(p.lineNo, ErrorSyntax, "Error parsing instruction: expected a comma")
		return false
	}
	p.pos++
	return true
}

func (p *lineParser) takeSignedInt32() (int32, bool) {
	w, ok := p.takeWord()
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(w, 10, 64)
	if err != nil {
		p.errs.add(p.lineNo, ErrorOperand, "Error parsing instruction: %q is not an integer", w)
		return 0, false
	}
	if n < -2147483648 || n > 2147483647 {
		p.errs.add(p.lineNo, ErrorRange, "Error parsing instruction: %d does not fit a 32-bit immediate", n)
		return 0, false
	}
	return int32(n), true
}

func (p *lineParser) takeSignedInt16() (int16, bool) {
	w, ok := p.takeWord()
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(w, 10, 64)
	if err != nil {
		return 0, false
	}
	if n < -32768 || n > 32767 {
		p.errs.add(p.lineNo, ErrorRange, "Error parsing instruction: immediate %d out of range [-32768,32767]", n)
		return 0, false
	}
	return int16(n), true
}

// registerByName resolves r_pc / r_vmid / r<n> to a register index.
func (p *lineParser) registerByName(w string) (uint8, bool) {
	switch strings.ToLower(w) {
	case "r_pc":
		return shady.RegPC, true
	case "r_vmid":
		return shady.RegVMID, true
	}
	if len(w) < 2 || (w[0] != 'r' && w[0] != 'R') {
		return 0, false
	}
	n, err := strconv.Atoi(w[1:])
	if err != nil || n < 0 || n > 239 {
		return 0, false
	}
	return uint8(n), true
}

// parseDest parses: [(bump <int> [; neg])] [*] r<n>|r_pc|r_vmid
func (p *lineParser) parseDest() (shady.Dest, bool) {
	var bump int8
	var negateBump bool
	hasBump := false

	if p.toks[p.pos].kind == tokLParen {
		p.pos++
		w, ok := p.takeWord()
		if !ok || !strings.EqualFold(w, "bump") {
			p.errs.add(p.lineNo, ErrorSyntax, "Error parsing instruction: expected 'bump' inside (...)")
			return shady.Dest{}, false
		}
		v, ok := p.takeSignedInt16()
		if !ok {
			p.errs.add(p.lineNo, ErrorOperand, "Error parsing instruction: expected a bump amount")
			return shady.Dest{}, false
		}
		if v < -64 || v > 63 {
			p.errs.add(p.lineNo, ErrorRange, "Error parsing instruction: bump %d out of range [-64,63]", v)
			return shady.Dest{}, false
		}
		bump = int8(v)
		hasBump = true
		if p.toks[p.pos].kind == tokSemicolon {
			p.pos++
			w2, ok := p.takeWord()
			if !ok || !strings.EqualFold(w2, "neg") {
				p.errs.add(p.lineNo, ErrorSyntax, "Error parsing instruction: expected 'neg' after ';'")
				return shady.Dest{}, false
			}
			negateBump = true
		}
		if p.toks[p.pos].kind != tokRParen {
			p.errs.add(p.lineNo, ErrorSyntax, "Error parsing instruction: expected ')'")
			return shady.Dest{}, false
		}
		p.pos++
	}

	indirect := false
	if p.toks[p.pos].kind == tokStar {
		indirect = true
		p.pos++
	}

	w, ok := p.takeWord()
	if !ok {
		p.errs.add(p.lineNo, ErrorSyntax, "Error parsing instruction: expected a destination register")
		return shady.Dest{}, false
	}
	reg, ok := p.registerByName(w)
	if !ok {
		p.errs.add(p.lineNo, ErrorOperand, "Error parsing instruction: %q is not a valid register", w)
		return shady.Dest{}, false
	}

	d := shady.Dest{Reg: reg, Indirect: indirect}
	if hasBump {
		d.Bump = bump
		d.Negate = negateBump
	}
	return d, true
}

// parseSrc parses: <signed-int> | [*] r<n>|r_pc|r_vmid ['shift' <int>] ['neg']
func (p *lineParser) parseSrc() (shady.Operand, bool) {
	if p.toks[p.pos].kind == tokWord {
		if n, err := strconv.ParseInt(p.toks[p.pos].text, 10, 64); err == nil {
			p.pos++
			if n < -32768 || n > 32767 {
				p.errs.add(p.lineNo, ErrorRange, "Error parsing instruction: immediate %d out of range [-32768,32767]", n)
				return shady.Operand{}, false
			}
			return shady.Operand{Imm: true, ImmValue: int16(n)}, true
		}
	}

	indirect := false
	if p.toks[p.pos].kind == tokStar {
		indirect = true
		p.pos++
	}

	w, ok := p.takeWord()
	if !ok {
		p.errs.add(p.lineNo, ErrorSyntax, "Error parsing instruction: expected a source operand")
		return shady.Operand{}, false
	}
	reg, ok := p.registerByName(w)
	if !ok {
		p.errs.add(p.lineNo, ErrorOperand, "Error parsing instruction: %q is not a valid register or immediate", w)
		return shady.Operand{}, false
	}

	op := shady.Operand{Reg: reg, Indirect: indirect}

	if w2, ok := p.peekWord(); ok && strings.EqualFold(w2, "shift") {
		p.pos++
		v, ok := p.takeSignedInt16()
		if !ok {
			p.errs.add(p.lineNo, ErrorOperand, "Error parsing instruction: expected a shift amount")
			return shady.Operand{}, false
		}
		if v < -32 || v > 31 {
			p.errs.add(p.lineNo, ErrorRange, "Error parsing instruction: shift %d out of range [-32,31]", v)
			return shady.Operand{}, false
		}
		op.Shift = int8(v)
	}
	if w2, ok := p.peekWord(); ok && strings.EqualFold(w2, "neg") {
		p.pos++
		op.Negate = true
	}
	return op, true
}
