package stamp

import (
	"errors"
	"strings"
)

// ErrorCode categorizes stamp errors.
type ErrorCode string

const (
	// ErrCodeMissingStamp indicates verification found no stamp.
	ErrCodeMissingStamp ErrorCode = "MISSING_STAMP"

	// ErrCodeMultipleStamps indicates two or more stamps were found.
	ErrCodeMultipleStamps ErrorCode = "MULTIPLE_STAMPS"

	// ErrCodeStampMismatch indicates the embedded stamp is stale.
	ErrCodeStampMismatch ErrorCode = "STAMP_MISMATCH"

	// ErrCodeStampPlacer indicates an unusable placement strategy.
	ErrCodeStampPlacer ErrorCode = "STAMP_PLACER"
)

const multipleStampsDescription = "Found multiple stamps. This is likely because the content was manually updated. " +
	"`codestamp` needs to bail out because it cannot guarantee a deterministic update. Please regenerate the file."

// Error is a stamp failure with enough context to print a diagnostic.
// Only the fields relevant to Code are set.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Stamps lists the stamps found, left to right (MULTIPLE_STAMPS).
	Stamps []string

	// Placer renders the offending placement strategy (STAMP_PLACER).
	Placer string

	// PlacerReturnValue is the placer output, nil if it was never called.
	PlacerReturnValue *string

	// Expected and Received are the computed and embedded stamps
	// (STAMP_MISMATCH).
	Expected string
	Received string
}

// Error renders the message followed by code-specific details, one per line.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	switch e.Code {
	case ErrCodeMultipleStamps:
		quoted := make([]string, len(e.Stamps))
		for i, s := range e.Stamps {
			quoted[i] = Quote(s)
		}
		b.WriteString("\nStamps: ")
		b.WriteString(strings.Join(quoted, ", "))
	case ErrCodeStampPlacer:
		b.WriteString("\nPlacer: ")
		b.WriteString(Quote(e.Placer))
		b.WriteString("\nPlacer return value: ")
		if e.PlacerReturnValue == nil {
			b.WriteString("<none>")
		} else {
			b.WriteString(Quote(*e.PlacerReturnValue))
		}
	case ErrCodeStampMismatch:
		b.WriteString("\nExpected: ")
		b.WriteString(Quote(e.Expected))
		b.WriteString("\nReceived: ")
		b.WriteString(Quote(e.Received))
	}

	return b.String()
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsMissingStamp returns true if err reports content without a stamp.
// Uses errors.As to handle wrapped errors.
func IsMissingStamp(err error) bool { return hasCode(err, ErrCodeMissingStamp) }

// IsMultipleStamps returns true if err reports more than one stamp.
func IsMultipleStamps(err error) bool { return hasCode(err, ErrCodeMultipleStamps) }

// IsMismatch returns true if err reports a stale stamp.
func IsMismatch(err error) bool { return hasCode(err, ErrCodeStampMismatch) }

// IsPlacerError returns true if err reports an unusable placement strategy.
func IsPlacerError(err error) bool { return hasCode(err, ErrCodeStampPlacer) }

func multipleStamps(matches []Match) MultipleStampsOutcome {
	list := make([]string, len(matches))
	for i, m := range matches {
		list[i] = m.Stamp
	}
	return MultipleStampsOutcome{
		Description: multipleStampsDescription,
		StampList:   list,
	}
}
