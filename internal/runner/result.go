package runner

import "encoding/json"

// MarshalJSON flattens the outcome's fields next to the run flags.
func (r *Result) MarshalJSON() ([]byte, error) {
	fields := map[string]any{}
	if r.Outcome != nil {
		data, err := json.Marshal(r.Outcome)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	}

	fields["path"] = r.Path
	fields["did_write"] = r.DidWrite
	fields["should_fatal_if_desired"] = r.ShouldFatalIfDesired
	return json.Marshal(fields)
}
