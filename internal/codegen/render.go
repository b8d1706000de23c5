// Package codegen renders complete, buildable program text from accumulated
// session buffers and the current execution mode.
//
// Rendering is deterministic and idempotent: identical input always yields
// byte-identical output. Buffer lines are emitted verbatim and in order; the
// generator never rewrites, reorders, or normalizes user text.
package codegen

import (
	"fmt"
	"strings"

	"rsh/internal/program"
)

// TargetName is the cargo binary target the generated file builds as.
const TargetName = "__rsh"

// entryFn is the fallible routine that receives all body lines.
const entryFn = "__rsh_session"

// Render produces the full program text for the given buffers and mode.
//
// Preamble lines are emitted first at module scope, separated from the rest
// by one blank line when present. Body lines go inside the entry routine,
// indented one level, followed by an explicit Ok(()). The main harness
// depends on the mode: a plain caller in sync mode, or one of three fixed
// per-runtime harnesses in async mode.
//
// Returns an error only for an unrecognized async runtime.
func Render(preamble, body []string, mode program.Mode) (string, error) {
	var b strings.Builder

	for _, line := range preamble {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(preamble) > 0 {
		b.WriteByte('\n')
	}

	if !mode.Async {
		renderSync(&b, body)
		return b.String(), nil
	}
	if err := renderAsync(&b, body, mode.Runtime); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderSync(b *strings.Builder, body []string) {
	b.WriteString("fn " + entryFn + "() -> Result<(), Box<dyn std::error::Error>> {\n")
	writeBody(b, body)
	b.WriteString("    Ok(())\n")
	b.WriteString("}\n\n")
	b.WriteString("fn main() {\n")
	b.WriteString("    if let Err(e) = " + entryFn + "() {\n")
	b.WriteString("        eprintln!(\"{}\", e);\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

func renderAsync(b *strings.Builder, body []string, rt program.Runtime) error {
	b.WriteString("async fn " + entryFn + "() -> Result<(), Box<dyn std::error::Error>> {\n")
	writeBody(b, body)
	b.WriteString("    Ok(())\n")
	b.WriteString("}\n\n")

	switch rt {
	case program.RuntimeTokio:
		b.WriteString("#[tokio::main]\n")
		writeAsyncMain(b)
	case program.RuntimeAsyncStd:
		b.WriteString("#[async_std::main]\n")
		writeAsyncMain(b)
	case program.RuntimeSmol:
		// smol ships no proc-macro main; drive the future manually.
		b.WriteString("fn main() {\n")
		b.WriteString("    smol::block_on(async {\n")
		b.WriteString("        if let Err(e) = " + entryFn + "().await {\n")
		b.WriteString("            eprintln!(\"{}\", e);\n")
		b.WriteString("        }\n")
		b.WriteString("    });\n")
		b.WriteString("}\n")
	default:
		return fmt.Errorf("unsupported runtime: %q", rt)
	}
	return nil
}

func writeAsyncMain(b *strings.Builder) {
	b.WriteString("async fn main() {\n")
	b.WriteString("    if let Err(e) = " + entryFn + "().await {\n")
	b.WriteString("        eprintln!(\"{}\", e);\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

func writeBody(b *strings.Builder, body []string) {
	for _, line := range body {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
