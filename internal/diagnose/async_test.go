package diagnose

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksAsyncRecognizedMarkers(t *testing.T) {
	samples := []string{
		"error[E0728]: `await` is only allowed inside `async` functions and blocks",
		"error[E0752]: `main` function is not allowed to be `async`",
		"`await` is only allowed inside `async` functions and blocks",
		"await is only allowed inside async functions",
		"error: `await` cannot be used in a `fn` item that is not `async`",
		"error: future cannot be sent between threads safely",
		"note: cannot be sent between threads safely",
		"error: to use `async fn main`, add a runtime attribute",
	}

	for _, stderr := range samples {
		assert.True(t, LooksAsync(stderr), "stderr: %q", stderr)
	}
}

func TestLooksAsyncMarkerBuriedInFullOutput(t *testing.T) {
	stderr := `   Compiling demo v0.1.0 (/tmp/demo)
error[E0728]: ` + "`await`" + ` is only allowed inside ` + "`async`" + ` functions and blocks
  --> src/bin/__rsh.rs:3:24
   |
 3 |     let x = fetch().await;
   |                        ^^^^^ only allowed inside ` + "`async`" + ` functions and blocks
error: could not compile ` + "`demo`" + ` (bin "__rsh") due to 1 previous error
`
	assert.True(t, LooksAsync(stderr))
}

func TestLooksAsyncOrdinaryErrors(t *testing.T) {
	samples := []string{
		"",
		"error[E0425]: cannot find value `x` in this scope",
		"error: expected `;`, found `}`",
		"error[E0308]: mismatched types",
		"warning: unused variable: `y`",
	}

	for _, stderr := range samples {
		assert.False(t, LooksAsync(stderr), "stderr: %q", stderr)
	}
}

func TestLooksAsyncIsCaseSensitive(t *testing.T) {
	// Markers mirror rustc's exact casing; unrelated text that merely
	// mentions async concepts in other casing must not trigger a switch.
	assert.False(t, LooksAsync("ASYNC FN MAIN mentioned in a string literal"))
	assert.True(t, LooksAsync("async fn main"))
}
