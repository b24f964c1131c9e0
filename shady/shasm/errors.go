package shasm

import "fmt"

// ErrorKind categorizes a shasm parse failure.
type ErrorKind int

const (
	ErrorSyntax ErrorKind = iota
	ErrorUnknownMnemonic
	ErrorUnknownLabel
	ErrorDuplicateLabel
	ErrorOperand
	ErrorRange
)

// Error is one line-precise parse failure. Field names match the JSON
// shape spec.md's S2 scenario expects: {"lineNo":1,"message":"..."}.
type Error struct {
	LineNo  int    `json:"lineNo"`
	Message string `json:"message"`
	Kind    ErrorKind `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.LineNo, e.Message)
}

// ErrorList accumulates every failing line rather than stopping at the
// first, per spec.md §7 ("Shasm parse errors accumulate").
type ErrorList struct {
	Errors []*Error
}

func (el *ErrorList) add(line int, kind ErrorKind, format string, args ...interface{}) {
	el.Errors = append(el.Errors, &Error{
		LineNo:  line,
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	})
}

// HasErrors reports whether any line failed to parse.
func (el *ErrorList) HasErrors() bool { return len(el.Errors) > 0 }

func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	s := ""
	for _, e := range el.Errors {
		s += e.Error() + "\n"
	}
	return s
}
