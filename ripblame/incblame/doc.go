// Package incblame parses the output of git blame --incremental into an ordered set of blocks.
//
// Each block of the output starts with a header line
//	<commit> <original start line> <start line> <line count>
// followed by tag lines ("author Alice", "summary fix", ...) up to and including a filename tag.
// Full commit metadata is only printed the first time a commit appears, so later blocks for the
// same commit reuse the Commit created for the first one. Blocks arrive in no particular order
// and are kept sorted by start line.
//
// Parsing has no side effects and shares no state between calls. See tests for examples.
package incblame
