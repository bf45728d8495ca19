package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Message returns the server-supplied message of an HTTPError in err's
// chain, or "" when there is none.
func Message(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return ""
}

// ErrorText is the user-facing reason for a failed call: the server's
// message when it sent one, otherwise fallback followed by the cause.
func ErrorText(err error, fallback string) string {
	if msg := Message(err); msg != "" {
		return msg
	}
	if err == nil {
		return fallback
	}
	return fallback + ": " + err.Error()
}

// errorMessage extracts a readable message from an error body. The API uses
// {"detail": "..."} for domain errors and {"detail": [{"msg": ...}]} for
// request validation; {"error": "..."} is accepted too.
func errorMessage(body []byte) string {
	var apiErr struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) != nil {
		return strings.TrimSpace(string(body))
	}
	if len(apiErr.Detail) > 0 {
		var s string
		if json.Unmarshal(apiErr.Detail, &s) == nil && s != "" {
			return s
		}
		var items []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if json.Unmarshal(apiErr.Detail, &items) == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if field := lastLoc(it.Loc); field != "" {
					msgs = append(msgs, field+": "+it.Msg)
				} else {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if apiErr.Error != "" {
		return apiErr.Error
	}
	return strings.TrimSpace(string(body))
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
