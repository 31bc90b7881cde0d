package models

import "encoding/json"

// InputMessage is one entry of a Responses API input list.
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponsesRequest is the body posted to the upstream /responses endpoint.
type ResponsesRequest struct {
	Model string         `json:"model"`
	Input []InputMessage `json:"input"`
}

// ResponsesResult holds the parts of an upstream reply the relay reads.
// Fields stay raw: the upstream may populate either shape, neither, or send
// unexpected types, and each extractor decodes only the piece it needs.
type ResponsesResult struct {
	OutputText json.RawMessage `json:"output_text,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

// OutputItem is one entry of the upstream output array.
type OutputItem struct {
	Content json.RawMessage `json:"content,omitempty"`
}

// ContentBlock is a structured content part inside an output item.
type ContentBlock struct {
	Text json.RawMessage `json:"text,omitempty"`
}
