package stamp

// VerifyParams is the input to Verify.
type VerifyParams struct {
	DependencyContentList        []string
	TargetContent                string
	ContentTransformerForHashing Transformer
}

// Verify checks p with the default engine. See Engine.Verify.
func Verify(p VerifyParams) error {
	return defaultEngine.Verify(p)
}

// Verify checks that p.TargetContent carries exactly one stamp and that it
// matches the dependencies. It never rewrites content. The returned error is
// an *Error with code MISSING_STAMP, MULTIPLE_STAMPS or STAMP_MISMATCH.
//
// Verify succeeds exactly when Apply with a zero Placer returns OKOutcome.
func (e *Engine) Verify(p VerifyParams) error {
	matches := Extract(p.TargetContent)

	switch len(matches) {
	case 0:
		return &Error{
			Code:    ErrCodeMissingStamp,
			Message: "Unable to find stamp in " + Quote(p.TargetContent),
		}
	case 1:
	default:
		return multipleStamps(matches).Err()
	}

	placed := replaceHash(p.TargetContent, PlaceholderHash)
	expected := FormatStamp(e.hash(p.DependencyContentList, placed, p.ContentTransformerForHashing))
	received := matches[0].Stamp

	if expected != received {
		return &Error{
			Code:     ErrCodeStampMismatch,
			Message:  "Stamps don't match.",
			Expected: expected,
			Received: received,
		}
	}
	return nil
}
