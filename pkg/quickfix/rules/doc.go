// Package rules provides the built-in quick-fix rules.
//
// # Rules
//
//   - Declarations:
//
//   - QF001: split-declaration - One declaration per declared variable
//
//   - QF008: move-declaration-out-of-if - Declare the condition variable before the if
//
//   - QF009: move-declaration-out-of-while - Declare the condition variable before the loop
//
//   - QF015: insert-declaration - Declare an out-of-line member function in its class
//
//   - Statements:
//
//   - QF002: add-braces - Wrap control statement bodies in a compound statement
//
//   - QF003: split-if - Split an if on the && or || of its condition
//
//   - QF005: complete-switch - Add the enumerators a switch does not handle yet
//
//   - QF012: optimize-for-loop - Prefix increment and a hoisted loop bound
//
//   - Literals:
//
//   - QF004: convert-numeric-literal - Change the radix of an integer literal
//
//   - QF007: extract-literal-as-parameter - Turn a literal into a defaulted parameter
//
//   - Functions:
//
//   - QF006: extract-function - Move selected statements into a new function
//
//   - QF011: rearrange-parameters - Swap a parameter with its neighbour
//
//   - Naming:
//
//   - QF010: convert-to-camel-case - Rename a snake_case symbol everywhere it is used
//
//   - Comments:
//
//   - QF013: convert-comment-style - Switch between // and /* */ comments
//
//   - QF014: move-function-comments - Move function documentation between declaration and definition
//
// # Options
//
// Rules that introduce a name read it from the "name" option: QF006
// defaults to "extracted", QF007 to "newParameter" and QF012 to "total".
// QF006 also reads "access", the access section member function
// declarations are added to.
//
// # Registration
//
// RegisterAll adds every rule to a caller-owned registry, and NewRegistry
// returns a fresh registry holding them. There is no package-level
// registry. Each rule implements quickfix.Rule and reports its edits through
// fix.ChangeSet, so no rule writes to a buffer directly.
package rules
