// Package runner stamps files on disk.
//
// A run reads the target file, resolves its dependency globs, reconciles the
// stamp, and then either rewrites the file (write mode) or reports whether it
// is up to date (verify mode). In verify mode an out-of-date file prints a
// diff of the change that write mode would make.
//
// Console messages go to Params.Out and Params.Err and are suppressed when
// Params.Silent is set. Only failures to read or write files are returned as
// errors; every stamp outcome, including ERROR outcomes, is returned in the
// Result so the caller decides whether to exit non-zero
// (Result.ShouldFatalIfDesired).
package runner
