// Package diagnose inspects captured build diagnostics for the one pattern
// class the session reacts to: code that needs an async execution context.
//
// The marker table below is the entire heuristic. Diagnostics are otherwise
// opaque: nothing else in the tool parses, filters, or rewrites compiler
// output.
package diagnose

import "strings"

// asyncMarkers are substrings of rustc output that indicate an await point
// or async entry requirement outside an async context. Matching is plain
// containment against raw stderr text.
var asyncMarkers = []string{
	"E0728",
	"E0752",
	"only allowed inside `async` functions",
	"only allowed inside async functions",
	"cannot be used in a `fn` item that is not `async`",
	"future cannot be sent between threads safely",
	"cannot be sent between threads safely",
	"async fn main",
}

// LooksAsync reports whether stderr carries any recognized async-failure
// marker. It decides only whether a mode switch is offered; it never alters
// what the user sees.
func LooksAsync(stderr string) bool {
	for _, marker := range asyncMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
