package api

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/hcissey0/fitplan/internal/notify"
)

// fallbackMessage is used when nothing recognizable can be extracted.
const fallbackMessage = "An unexpected error occurred"

// maxRawBodyLen bounds how long a plain-text body may be before it is
// considered noise (HTML error pages and the like) rather than a message.
const maxRawBodyLen = 200

// Normalize maps any failure to a single human-readable string. Probe
// order, first match wins: string "detail" field, string "message" field,
// a short plain-string body, first entry of "non_field_errors", the
// error's own text. Never panics, never returns "".
func Normalize(err error) string {
	if err == nil {
		return fallbackMessage
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if msg := fromBody(apiErr.Body); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

func fromBody(body []byte) string {
	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) == nil {
		if s := stringField(fields, "detail"); s != "" {
			return s
		}
		if s := stringField(fields, "message"); s != "" {
			return s
		}
		if raw, ok := fields["non_field_errors"]; ok {
			var list []string
			if json.Unmarshal(raw, &list) == nil && len(list) > 0 && list[0] != "" {
				return list[0]
			}
		}
		return ""
	}
	return rawString(body)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// rawString accepts a body that is itself a short string: either a JSON
// string literal or plain text that is not JSON at all.
func rawString(body []byte) string {
	var s string
	if json.Unmarshal(body, &s) == nil {
		if s != "" && len(s) < maxRawBodyLen {
			return s
		}
		return ""
	}
	if json.Valid(body) {
		// Valid JSON but neither object nor string: not a message.
		return ""
	}
	if len(body) == 0 || len(body) >= maxRawBodyLen || !utf8.Valid(body) {
		return ""
	}
	return string(body)
}

// Report normalizes err and surfaces it to the user under the given title.
// It returns the normalized message.
func Report(n notify.Notifier, title string, err error) string {
	msg := Normalize(err)
	if n != nil {
		n.Notify(title, msg)
	}
	return msg
}
