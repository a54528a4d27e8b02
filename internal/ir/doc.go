// Package ir provides the canonical intermediate representation for Charta
// ladder programs.
//
// This package contains the IR type definitions, the JSON parser, and the
// CUE schema validator. All other internal packages import ir; ir imports
// nothing internal. This keeps the IR the foundational layer with no
// circular dependencies.
//
// Key design constraints:
//   - Parse checks syntactic and structural well-formedness only.
//     Cross-reference checks (undeclared contact targets, duplicate names)
//     belong to the engine's program-load validation.
//   - All names are normalized to Unicode NFC at parse time so that lookups
//     by name are byte-comparable regardless of the source encoding.
//   - All JSON tags use snake_case.
package ir
