package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// Response is the envelope every API route returns. Type is "success" or
// "error", Text is a human readable message, Data carries route specific
// payload such as a session id.
type Response struct {
	Type string                 `json:"type"`
	Text string                 `json:"text"`
	Data map[string]interface{} `json:"data"`
}

func Success(text string) *Response {
	return &Response{Type: "success", Text: text, Data: map[string]interface{}{}}
}

func Error(text string) *Response {
	return &Response{Type: "error", Text: text, Data: map[string]interface{}{}}
}

// WriteJSON renders a response envelope. Errors in the envelope still ship
// with HTTP 200, matching the original API contract; status codes other than
// 200 are reserved for transport level failures.
func WriteJSON(w http.ResponseWriter, status int, resp *Response) {
	if resp.Data == nil {
		resp.Data = map[string]interface{}{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
