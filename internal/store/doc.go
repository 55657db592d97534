// Package store contains the adapters that read and write single parameters
// inside the pipeline's configuration files, plus the session-scoped backup
// manager that guards every mutation.
//
// Two adapter families exist. Document adapters (YAML, JSON) parse the whole
// file, address a value by dotted path, and re-serialize while preserving key
// order and formatting. The pattern adapter edits source-like text through
// per-key anchored substitutions so surrounding code and comments survive
// byte-for-byte. All writes go through an atomic temp-file-and-rename so a
// crash mid-write never truncates a config file.
//
// Failures are reported through the typed errors in errors.go; callers decide
// which are fatal. A single bad file degrades only its own parameters.
package store
