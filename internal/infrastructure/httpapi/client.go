// Package httpapi is the request pipeline every call to the voting service
// goes through, plus the typed endpoint clients built on top of it.
//
// The pipeline has two stages. The outbound stage attaches the bearer
// credential and a request id. The inbound stage classifies the response with
// Classify and performs the global side effects (session invalidation,
// navigation, notices) before the result is handed back to the caller.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/ballotbox/ballot/internal/core/ports"
	"github.com/ballotbox/ballot/internal/infrastructure/metrics"
)

const (
	headerRequestID = "X-Request-ID"
	maxBodyBytes    = 4 << 20

	defaultRetryBackoff = 200 * time.Millisecond
)

// Config controls the pipeline's transport.
type Config struct {
	// BaseURL is prepended to every route, e.g. "http://localhost:8080/api".
	BaseURL string
	// Timeout bounds a single attempt. Zero means no timeout.
	Timeout time.Duration
	// Retries is how many times an idempotent call that failed before a
	// response arrived is retried. Calls that received a status are never
	// retried.
	Retries int
	// RetryBackoff is the base of the exponential backoff between retries.
	RetryBackoff time.Duration
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is the request pipeline.
type Client struct {
	baseURL   string
	http      *http.Client
	retries   uint64
	backoff   time.Duration
	store     ports.CredentialStore
	notifier  ports.Notifier
	navigator ports.Navigator
	log       zerolog.Logger

	mu          sync.RWMutex
	invalidator ports.Invalidator
}

// NewClient wires the pipeline. notifier and navigator may be nil.
func NewClient(cfg Config, store ports.CredentialStore, notifier ports.Notifier, navigator ports.Navigator, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if navigator == nil {
		navigator = nopNavigator{}
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      hc,
		retries:   uint64(retries),
		backoff:   backoff,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		log:       log.With().Str("component", "httpapi").Logger(),
	}
	c.invalidator = storeInvalidator{store: store}
	return c
}

// SetInvalidator routes 401 handling through the session lifecycle so its
// state follows the store.
func (c *Client) SetInvalidator(inv ports.Invalidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if inv == nil {
		c.invalidator = storeInvalidator{store: c.store}
		return
	}
	c.invalidator = inv
}

// Request describes one call.
type Request struct {
	Method string
	// Route is the logical path template used for metrics and logs, e.g.
	// "/candidates/{id}".
	Route string
	// Path is the concrete path; defaults to Route.
	Path  string
	Query url.Values
	Body  any
}

// Do sends req and decodes a 2xx JSON body into out (which may be nil). Any
// other outcome is returned as *Error after the side effects have run.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()
	requestID := uuid.NewString()
	path := req.Path
	if path == "" {
		path = req.Route
	}

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return c.fail(req, requestID, "", 0, nil, fmt.Errorf("encode request: %w", err), start)
		}
	}

	// The token is captured once so the inbound stage can tell whether a 401
	// refers to the credential that is still current.
	token := ""
	if cred, ok := c.store.Load(); ok {
		token = cred.BearerToken()
	}

	var (
		status int
		body   []byte
		tries  uint64
	)
	attempt := func(ctx context.Context) error {
		tries++
		s, b, err := c.send(ctx, req.Method, path, req.Query, payload, token, requestID)
		if err != nil {
			if idempotent(req.Method) && ctx.Err() == nil {
				// Only count failures that another attempt will follow.
				if tries <= c.retries {
					metrics.ClientRetriesTotal.WithLabelValues(req.Route).Inc()
				}
				return retry.RetryableError(err)
			}
			return err
		}
		status, body = s, b
		return nil
	}

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	if err := retry.Do(ctx, backoff, attempt); err != nil {
		return c.fail(req, requestID, token, 0, nil, err, start)
	}

	if _, _, ok := Classify(status, body); !ok {
		return c.fail(req, requestID, token, status, body, nil, start)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return c.fail(req, requestID, token, 0, nil, fmt.Errorf("decode response: %w", err), start)
		}
	}

	c.observe(req, requestID, status, "ok", start)
	return nil
}

// send performs one attempt: the outbound stage plus the round trip.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token, requestID string) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(headerRequestID, requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// fail runs the inbound stage for a failed call and builds its error.
func (c *Client) fail(req Request, requestID, token string, status int, body []byte, cause error, start time.Time) error {
	kind, effect, _ := Classify(status, body)

	apiErr := &Error{
		Kind:      kind,
		Status:    status,
		Message:   serverMessage(body),
		Method:    req.Method,
		Route:     req.Route,
		RequestID: requestID,
		Err:       cause,
	}

	apply := true
	if effect.Invalidate {
		c.mu.RLock()
		inv := c.invalidator
		c.mu.RUnlock()
		// A 401 for a token that has since been replaced must not end the
		// newer session.
		apply = inv.Invalidate(token)
		if apply && token != "" {
			metrics.SessionInvalidationsTotal.Inc()
		}
	}
	if apply {
		if effect.Navigate != "" {
			c.navigator.Navigate(effect.Navigate)
		}
		if effect.Notice != nil {
			c.notifier.Notify(*effect.Notice)
		}
	}

	c.observe(req, requestID, status, string(kind), start)
	evt := c.log.Info()
	if kind == KindServerFault || kind == KindTransport {
		evt = c.log.Warn()
	}
	evt.Err(cause).
		Str("method", req.Method).
		Str("route", req.Route).
		Int("status", status).
		Str("kind", string(kind)).
		Str("request_id", requestID).
		Msg("api call failed")

	return apiErr
}

func (c *Client) observe(req Request, requestID string, status int, kind string, start time.Time) {
	elapsed := time.Since(start)
	metrics.ClientRequestsTotal.WithLabelValues(req.Method, req.Route, kind).Inc()
	metrics.ClientRequestDuration.WithLabelValues(req.Method, req.Route).Observe(elapsed.Seconds())
	c.log.Debug().
		Str("method", req.Method).
		Str("route", req.Route).
		Int("status", status).
		Dur("duration", elapsed).
		Str("request_id", requestID).
		Msg("api call")
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// storeInvalidator is the fallback when no session lifecycle is attached.
// It follows the same rule as the session: a rejected token that is no
// longer the stored one is stale and changes nothing.
type storeInvalidator struct {
	store ports.CredentialStore
}

func (s storeInvalidator) Invalidate(token string) bool {
	cur, ok := s.store.Load()
	if token == "" {
		return !ok
	}
	if !ok || cur.BearerToken() != token {
		return false
	}
	_ = s.store.Clear()
	return true
}

type nopNotifier struct{}

func (nopNotifier) Notify(ports.Notice) {}

type nopNavigator struct{}

func (nopNavigator) Navigate(ports.Route) {}
