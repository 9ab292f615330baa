// Package robot generates Robot Framework script text from a resolved
// scenario document and its flattened action sequence.
//
// The emitted script is plain-text table syntax: a settings table, one test
// case per scenario, and a keyword table carrying the shared helper keywords
// for the platform. Cells are normalized before writing because Robot treats
// runs of two or more spaces as the column delimiter: embedded runs collapse
// to a single space, and an empty optional cell becomes ${EMPTY} so columns
// to its right stay aligned.
//
// Every action step closes with a Doc Web Step / Doc Desktop Step call. That
// keyword captures the step-scoped screenshot and is what the downstream
// artifacts converter looks for in the execution log. Static annotations ride
// along as a single-line DOC_ANNOTATIONS:<json> payload for the same
// converter.
package robot
