// Package program provides the core value types for an rsh session.
//
// This package contains type definitions and the line classifier only. All
// other internal packages import program; program imports nothing internal.
// This keeps it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Lines are raw text and are never re-interpreted structurally
//   - Classification is lexical prefix matching, never parsing
//   - Mode moves forward only (sync to async), except on reset or rollback
package program
