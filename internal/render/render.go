// Package render turns a finished ir.Program into target-language source
// text. It is a pure function of the AST — no RNG, no scope state — so the
// same Program always renders to the same bytes, grounded on the teacher's
// buffer-writing renderer in cmd/internal/c/generator.go but restructured
// around ir.Program's fmt.Stringer tree instead of a shared bytes.Buffer
// visitor.
package render

import (
	"io"
	"strings"

	"github.com/banditmoscow1337/smith/internal/ir"
)

const preamble = `#![allow(warnings)]
use serde::Serialize;
use serde_json;
use runtime::ops::*;
`

// WriteProgram renders the full file directly into w: preamble, struct
// declarations, non-main function declarations, then main — each section
// separated by a blank line, matching the source's emitted file layout.
// Callers generating many programs in one run should pass a pooled
// *bytes.Buffer (see internal/bufpool) to avoid a fresh allocation per file.
func WriteProgram(w io.Writer, p ir.Program) {
	io.WriteString(w, preamble)

	for _, s := range p.Structs {
		io.WriteString(w, "\n")
		io.WriteString(w, s.String())
		io.WriteString(w, "\n")
	}
	for _, f := range p.Funcs {
		io.WriteString(w, "\n")
		io.WriteString(w, f.String())
		io.WriteString(w, "\n")
	}
	io.WriteString(w, "\n")
	io.WriteString(w, p.Main.String())
	io.WriteString(w, "\n")
}

// Program renders p to a plain string. Most callers want WriteProgram
// directly against a pooled buffer; this remains for tests and one-off
// callers that just want the bytes.
func Program(p ir.Program) string {
	var out strings.Builder
	WriteProgram(&out, p)
	return out.String()
}
