package indexer

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/make-software/casper-go-sdk/sse"
)

// Envelope is a decoded event stream message. It is one of APIVersion, DeployProcessedSuccess,
// DeployProcessedFailure, Heartbeat or Unrecognized.
type Envelope interface {
	envelope()
}

// APIVersion is the first message sent by the node on every connection.
type APIVersion struct {
	Version string
}

type DeployProcessedSuccess struct {
	sse.DeployProcessedPayload
}

type DeployProcessedFailure struct {
	sse.DeployProcessedPayload
}

// Heartbeat is a keep-alive: an empty event or a payload that is not JSON.
type Heartbeat struct{}

// Unrecognized is valid JSON outside the messages the indexer understands, such as BlockAdded or
// FinalitySignature.
type Unrecognized struct {
	// Kinds are the top level keys of the message, or the JSON type when it is not an object.
	Kinds  []string
	Reason string
}

func (APIVersion) envelope()             {}
func (DeployProcessedSuccess) envelope() {}
func (DeployProcessedFailure) envelope() {}
func (Heartbeat) envelope()              {}
func (Unrecognized) envelope()           {}

// Decode classifies an event. It never fails: anything that cannot be parsed is a Heartbeat or
// Unrecognized.
func Decode(event sse.RawEvent) Envelope {
	if len(bytes.TrimSpace(event.Data)) == 0 {
		return Heartbeat{}
	}
	return DecodeData(event.Data)
}

func DecodeData(data []byte) Envelope {
	if !json.Valid(data) {
		return Heartbeat{}
	}

	var message map[string]json.RawMessage
	if err := json.Unmarshal(data, &message); err != nil {
		return Unrecognized{Kinds: []string{jsonKind(data)}, Reason: "not a JSON object"}
	}

	if raw, ok := message["ApiVersion"]; ok {
		var version string
		if err := json.Unmarshal(raw, &version); err != nil {
			return Unrecognized{Kinds: []string{"ApiVersion"}, Reason: err.Error()}
		}
		return APIVersion{Version: version}
	}

	if raw, ok := message["DeployProcessed"]; ok {
		var processed sse.DeployProcessedPayload
		if err := json.Unmarshal(raw, &processed); err != nil {
			return Unrecognized{Kinds: []string{"DeployProcessed"}, Reason: err.Error()}
		}
		switch {
		case processed.ExecutionResult.Success != nil:
			return DeployProcessedSuccess{processed}
		case processed.ExecutionResult.Failure != nil:
			return DeployProcessedFailure{processed}
		default:
			return Unrecognized{Kinds: []string{"DeployProcessed"}, Reason: "execution result is neither Success nor Failure"}
		}
	}

	kinds := make([]string, 0, len(message))
	for k := range message {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return Unrecognized{Kinds: kinds}
}

func jsonKind(data []byte) string {
	var v any
	_ = json.Unmarshal(data, &v)
	switch v.(type) {
	case string:
		return "string"
	case []any:
		return "array"
	case float64:
		return "number"
	case bool:
		return "bool"
	default:
		return "null"
	}
}
