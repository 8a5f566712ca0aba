// Package changelog classifies release commits and renders them as markdown
// changelogs.
//
// This package implements:
//   - Releases file loading and validation (YAML or JSON)
//   - Commit classification by category label or scope heuristic
//   - Grouping of commits by affected package
//   - Per-commit markdown lines with issue-closing references, type markers
//     and contributor credits
//   - Single-document and per-group document rendering
//   - The committers section
//   - A colored terminal preview
//
// Every rendered document passes through a Formatter before it is returned
// or handed to a DocumentSink.
package changelog
