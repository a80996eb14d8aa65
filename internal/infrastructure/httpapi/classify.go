package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/ballotbox/ballot/internal/core/ports"
)

const (
	msgSessionExpired = "Session expired. Please log in again."
	msgForbidden      = "You do not have permission to perform this action"
	msgInvalidData    = "Invalid data. Please check your input."
	msgServerError    = "Server error. Please try again later."
	msgGeneric        = "Something went wrong. Please try again."

	maxMessageLen = 300
)

// Effect is the global side effect the pipeline performs for a classified
// response.
type Effect struct {
	Invalidate bool
	Navigate   ports.Route
	Notice     *ports.Notice
}

// Classify maps a response status and body to its failure Kind and side
// effect. status 0 means no response was received. ok is true for 2xx.
func Classify(status int, body []byte) (kind Kind, effect Effect, ok bool) {
	msg := serverMessage(body)

	switch {
	case status >= 200 && status < 300:
		return "", Effect{}, true
	case status == http.StatusUnauthorized:
		return KindUnauthenticated, Effect{
			Invalidate: true,
			Navigate:   ports.RouteLogin,
			Notice:     errorNotice(msgSessionExpired),
		}, false
	case status == http.StatusForbidden:
		return KindForbidden, Effect{Notice: errorNotice(msgForbidden)}, false
	case status == http.StatusConflict:
		return KindConflict, Effect{Notice: errorNotice(fallback(msg, msgGeneric))}, false
	case status == http.StatusUnprocessableEntity:
		return KindInvalidInput, Effect{Notice: errorNotice(msgInvalidData)}, false
	case status == http.StatusBadRequest:
		return KindInvalidInput, Effect{Notice: errorNotice(fallback(msg, msgInvalidData))}, false
	case status >= 500:
		return KindServerFault, Effect{Notice: errorNotice(msgServerError)}, false
	case status == 0:
		return KindTransport, Effect{Notice: errorNotice(msgGeneric)}, false
	default:
		return KindUnexpected, Effect{Notice: errorNotice(fallback(msg, msgGeneric))}, false
	}
}

func errorNotice(msg string) *ports.Notice {
	return &ports.Notice{Level: ports.NoticeError, Message: msg}
}

func fallback(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

// serverMessage extracts the human-readable message from an error body. It
// understands {"error": "..."} and {"message": "..."} envelopes and falls
// back to the trimmed body text when it is not JSON.
func serverMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return truncate(envelope.Message)
		}
		var s string
		if json.Unmarshal(envelope.Error, &s) == nil && s != "" {
			return truncate(s)
		}
		return ""
	}

	if strings.HasPrefix(text, "<") {
		// HTML error pages are not worth showing.
		return ""
	}
	return truncate(text)
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "…"
	}
	return s
}
