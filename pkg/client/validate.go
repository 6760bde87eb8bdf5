package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// statusError is the value of the status field on API error payloads.
const statusError = "error"

// Payload is a validated Hub'Eau response.
type Payload struct {
	// Count is the API's total result count when reported, -1 otherwise.
	Count int

	// Next is the API's next page URL when reported.
	Next string

	// Data holds the records of the data array. Empty when the key is
	// absent or null.
	Data *table.Table
}

// Validate decodes body and classifies it.
//
// Bodies that are not a JSON object fail with *MalformedResponse. Objects
// whose status field equals "error" fail with *RemoteAPIError carrying the
// whole payload. Anything else succeeds.
func Validate(body []byte) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &MalformedResponse{Excerpt: excerpt(body), Err: err}
	}
	if fields == nil {
		return nil, &MalformedResponse{Excerpt: excerpt(body), Err: errors.New("body is null")}
	}

	if raw, ok := fields["status"]; ok {
		var status string
		if json.Unmarshal(raw, &status) == nil && status == statusError {
			return nil, &RemoteAPIError{Payload: decodePayload(body)}
		}
	}

	payload := &Payload{Count: -1, Data: table.New()}

	if raw, ok := fields["count"]; ok {
		var count int
		if json.Unmarshal(raw, &count) == nil {
			payload.Count = count
		}
	}
	if raw, ok := fields["next"]; ok {
		var next string
		if json.Unmarshal(raw, &next) == nil {
			payload.Next = next
		}
	}

	raw, ok := fields["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return payload, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &MalformedResponse{Excerpt: excerpt(body), Err: fmt.Errorf("data field: %w", err)}
	}
	data, err := table.Decode(records)
	if err != nil {
		return nil, &MalformedResponse{Excerpt: excerpt(body), Err: fmt.Errorf("data field: %w", err)}
	}
	payload.Data = data

	return payload, nil
}

func decodePayload(body []byte) map[string]any {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return map[string]any{"raw": excerpt(body)}
	}
	return payload
}
