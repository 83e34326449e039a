package testutil

// FixedRunID generates the same batch run ID every time.
//
// This enables deterministic batch output and golden snapshot comparison:
// the same config run twice with the same FixedRunID produces byte-identical
// JSON.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a fixed run ID generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run ID.
//
// Implements runner.RunIDGenerator.
func (g *FixedRunID) Generate() string {
	return g.id
}
