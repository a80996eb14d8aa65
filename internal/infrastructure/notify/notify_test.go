package notify

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/ballotbox/ballot/internal/core/ports"
)

func TestConsole_Notify(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Notify(ports.Notice{Level: ports.NoticeSuccess, Message: "Login successful"})
	c.Notify(ports.Notice{Level: ports.NoticeError, Message: "Server error. Please try again later."})

	assert.Equal(t, "✓ Login successful\n✗ Server error. Please try again later.\n", buf.String())
}

func TestHints_Navigate(t *testing.T) {
	var buf bytes.Buffer
	h := NewHints(&buf)

	h.Navigate(ports.RouteHome)
	assert.Empty(t, buf.String())

	h.Navigate(ports.RouteLogin)
	assert.Contains(t, buf.String(), "ballot login")
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Notify(ports.Notice{Level: ports.NoticeInfo, Message: "hello"})
	r.Navigate(ports.RouteVote)

	assert.Equal(t, []string{"hello"}, r.Messages())
	assert.Equal(t, []ports.Route{ports.RouteVote}, r.Routes())

	r.Reset()
	assert.Empty(t, r.Notices())
	assert.Empty(t, r.Routes())
}

func TestLog_WritesNotices(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(zerolog.New(&buf))

	l.Notify(ports.Notice{Level: ports.NoticeError, Message: "Session expired. Please log in again."})
	l.Navigate(ports.RouteLogin)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"component":"notify"`)
	assert.Contains(t, out, "Session expired")
	assert.Contains(t, out, `"route":"/login"`)
}
