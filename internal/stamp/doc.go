// Package stamp implements the CodeStamp engine: a pure, deterministic
// reconciler that embeds a content-derived marker in generated artifacts.
//
// A stamp is the literal text CodeStamp<<hex>>, where hex is the first 32
// hex characters of a SHA-256 digest. The digest covers the dependency
// contents followed by the target content, with the target's own stamp
// replaced by a fixed placeholder so the hash never depends on itself.
//
// Apply reconciles content and reports one of five outcomes:
//   - OKOutcome: the embedded stamp is valid
//   - NewOutcome: no stamp was present and one was placed
//   - UpdateOutcome: a stale stamp was replaced
//   - MultipleStampsOutcome: two or more stamps were found
//   - PlacerOutcome: the placement strategy produced invalid output
//
// Failures are returned as data, never panics or errors, so callers decide
// how to exit. Verify is the read-only counterpart that returns an *Error.
//
// # Placement
//
// On first stamping a Placer decides where the stamp goes: the zero value
// prepends the default banner, TemplatePlacer substitutes %STAMP% and
// %CONTENT%, FuncPlacer calls a function. A stamp placed by the default
// banner can be migrated to a new placer later. A stamp placed by a custom
// placer keeps its surrounding format forever; only its payload is updated.
//
// The package performs no I/O. Its only shared state is the bounded
// memoization cache inside Hasher, which is safe for concurrent use.
package stamp
