package program

import (
	"strings"
	"unicode"
)

// preamblePrefixes routes a line to the preamble when the line's leading
// trimmed text starts with any entry. Matching is prefix comparison only:
// continuation lines of a multi-line item do not match and land in the body.
// That is an accepted limitation of lexical classification, not a defect.
var preamblePrefixes = []string{
	"use ",
	"mod ",
	"extern crate",
	"#![",
	"#[",
	"struct ",
	"enum ",
	"type ",
	"trait ",
	"fn ",
	"const ",
	"static ",
	"impl ",
	"impl<",
}

// Classify routes one line of input to the segment it belongs to.
//
// Leading whitespace is ignored for matching but the line itself is stored
// and emitted verbatim by the caller. Classify never inspects more than the
// line's prefix and has no side effects.
func Classify(line string) Segment {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	for _, prefix := range preamblePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return SegmentPreamble
		}
	}
	return SegmentBody
}
