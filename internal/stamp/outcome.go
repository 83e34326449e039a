package stamp

import "encoding/json"

// Status discriminates the Outcome variants.
type Status string

const (
	StatusOK     Status = "OK"
	StatusNew    Status = "NEW"
	StatusUpdate Status = "UPDATE"
	StatusError  Status = "ERROR"
)

// ErrorType discriminates the two error outcomes.
type ErrorType string

const (
	ErrorTypeMultipleStamps ErrorType = "MULTIPLE_STAMPS"
	ErrorTypeStampPlacer    ErrorType = "STAMP_PLACER"
)

// Outcome is the result of Apply. The set of implementations is closed:
// OKOutcome, NewOutcome, UpdateOutcome, MultipleStampsOutcome and
// PlacerOutcome. Switch on the concrete type to handle each one.
type Outcome interface {
	Status() Status
	isOutcome()
}

// OKOutcome means the content already carries the correct stamp.
type OKOutcome struct {
	Stamp string `json:"stamp"`
}

// NewOutcome means the content had no stamp and one was placed.
type NewOutcome struct {
	NewStamp   string `json:"new_stamp"`
	NewContent string `json:"new_content"`
}

// UpdateOutcome means the content had a stale stamp that was replaced.
type UpdateOutcome struct {
	OldStamp   string `json:"old_stamp"`
	NewStamp   string `json:"new_stamp"`
	NewContent string `json:"new_content"`
}

// MultipleStampsOutcome means more than one stamp was found, so no
// deterministic update is possible.
type MultipleStampsOutcome struct {
	Description string   `json:"error_description"`
	StampList   []string `json:"stamp_list"`
}

// PlacerOutcome means the placement strategy was unusable or its output did
// not contain exactly one stamp. PlacerReturnValue is nil when the strategy
// could not be called at all.
type PlacerOutcome struct {
	Description       string  `json:"error_description"`
	Placer            string  `json:"placer"`
	PlacerReturnValue *string `json:"placer_return_value"`
}

func (OKOutcome) Status() Status             { return StatusOK }
func (NewOutcome) Status() Status            { return StatusNew }
func (UpdateOutcome) Status() Status         { return StatusUpdate }
func (MultipleStampsOutcome) Status() Status { return StatusError }
func (PlacerOutcome) Status() Status         { return StatusError }

func (OKOutcome) isOutcome()             {}
func (NewOutcome) isOutcome()            {}
func (UpdateOutcome) isOutcome()         {}
func (MultipleStampsOutcome) isOutcome() {}
func (PlacerOutcome) isOutcome()         {}

// ErrorType identifies the error variant.
func (MultipleStampsOutcome) ErrorType() ErrorType { return ErrorTypeMultipleStamps }

// ErrorType identifies the error variant.
func (PlacerOutcome) ErrorType() ErrorType { return ErrorTypeStampPlacer }

// Err converts the outcome to an *Error.
func (o MultipleStampsOutcome) Err() error {
	return &Error{
		Code:    ErrCodeMultipleStamps,
		Message: o.Description,
		Stamps:  o.StampList,
	}
}

// Err converts the outcome to an *Error.
func (o PlacerOutcome) Err() error {
	return &Error{
		Code:              ErrCodeStampPlacer,
		Message:           o.Description,
		Placer:            o.Placer,
		PlacerReturnValue: o.PlacerReturnValue,
	}
}

// NewContent returns the rewritten content for NEW and UPDATE outcomes.
func NewContent(o Outcome) (string, bool) {
	switch v := o.(type) {
	case NewOutcome:
		return v.NewContent, true
	case UpdateOutcome:
		return v.NewContent, true
	default:
		return "", false
	}
}

// OutcomeErr returns the error carried by an ERROR outcome, or nil.
func OutcomeErr(o Outcome) error {
	switch v := o.(type) {
	case MultipleStampsOutcome:
		return v.Err()
	case PlacerOutcome:
		return v.Err()
	default:
		return nil
	}
}

// JSON encodings carry the discriminants next to the payload fields.

func (o OKOutcome) MarshalJSON() ([]byte, error) {
	type payload OKOutcome
	return json.Marshal(struct {
		Status Status `json:"status"`
		payload
	}{StatusOK, payload(o)})
}

func (o NewOutcome) MarshalJSON() ([]byte, error) {
	type payload NewOutcome
	return json.Marshal(struct {
		Status Status `json:"status"`
		payload
	}{StatusNew, payload(o)})
}

func (o UpdateOutcome) MarshalJSON() ([]byte, error) {
	type payload UpdateOutcome
	return json.Marshal(struct {
		Status Status `json:"status"`
		payload
	}{StatusUpdate, payload(o)})
}

func (o MultipleStampsOutcome) MarshalJSON() ([]byte, error) {
	type payload MultipleStampsOutcome
	return json.Marshal(struct {
		Status    Status    `json:"status"`
		ErrorType ErrorType `json:"error_type"`
		payload
	}{StatusError, ErrorTypeMultipleStamps, payload(o)})
}

func (o PlacerOutcome) MarshalJSON() ([]byte, error) {
	type payload PlacerOutcome
	return json.Marshal(struct {
		Status    Status    `json:"status"`
		ErrorType ErrorType `json:"error_type"`
		payload
	}{StatusError, ErrorTypeStampPlacer, payload(o)})
}
