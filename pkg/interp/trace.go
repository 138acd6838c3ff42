package interp

import (
	"encoding/json"
	"io"
)

// Effect is one externally observable world mutation, recorded with the
// source position of the statement that caused it and the agent state
// after it took effect.
type Effect struct {
	Action string `json:"action"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Facing string `json:"facing"`
}

// Result is the execution artifact: the ordered effect trace, the final
// (or last reached) world state, and the steps consumed. On a runtime
// failure the trace holds everything executed up to the failure point.
type Result struct {
	Effects []Effect `json:"effects"`
	World   Snapshot `json:"world"`
	Steps   int      `json:"steps"`
}

// WriteResult writes the trace artifact as indented JSON.
func WriteResult(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadResult reads a trace artifact back.
func ReadResult(r io.Reader) (*Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
