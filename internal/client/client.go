package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"agrobox/internal/models"
)

// Backend paths.
const (
	PathSensorsCurrent = "/api/sensors/current"
	PathSensorsHistory = "/api/sensors/history"
	PathControls       = "/api/controls"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	errBodyPreview = 256
)

// Client talks to the rig backend. Every call is a single attempt; retries
// belong to whoever schedules the calls.
type Client struct {
	base string
	h    *http.Client
}

// New returns a client for base (e.g. "http://localhost:8080").
// A zero timeout falls back to 10s.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		h:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient lets callers supply their own transport.
func NewWithHTTPClient(base string, h *http.Client) *Client {
	return &Client{base: strings.TrimRight(base, "/"), h: h}
}

// FetchSnapshot reads the latest sensor snapshot.
func (c *Client) FetchSnapshot(ctx context.Context) (models.SensorSnapshot, error) {
	var b snapshotBody
	if err := c.getJSON(ctx, "fetch_snapshot", PathSensorsCurrent, &b); err != nil {
		return models.SensorSnapshot{}, err
	}
	return b.snapshot(), nil
}

// FetchControlSet reads the actuator states stored by the backend.
func (c *Client) FetchControlSet(ctx context.Context) (models.ControlSet, error) {
	var b controlsBody
	if err := c.getJSON(ctx, "fetch_controls", PathControls, &b); err != nil {
		return models.ControlSet{}, err
	}
	return b.controlSet(), nil
}

// FetchHistory reads the historical series. Alignment is not checked.
func (c *Client) FetchHistory(ctx context.Context) (models.HistoricalSeries, error) {
	var hs models.HistoricalSeries
	err := c.getJSON(ctx, "fetch_history", PathSensorsHistory, &hs)
	return hs, err
}

// PushControlSet posts the on/off states; the heating flag is not sent.
// The response body is ignored beyond the status code.
func (c *Client) PushControlSet(ctx context.Context, cs models.ControlSet) error {
	const op = "push_controls"
	url := c.base + PathControls

	body, err := json.Marshal(cs.Update())
	if err != nil {
		return fmt.Errorf("%s: marshal payload: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, dst any) error {
	url := c.base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &TransportError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := decodeStrict(b, dst); err != nil {
		return &DecodeError{Op: op, URL: url, Err: err}
	}
	if ck, ok := dst.(checker); ok {
		if err := ck.check(); err != nil {
			return &DecodeError{Op: op, URL: url, Err: err}
		}
	}
	return nil
}

// do executes req and turns non-2xx responses into a TransportError.
// On success the caller owns resp.Body.
func (c *Client) do(op string, req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	resp, err := c.h.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyPreview))
		resp.Body.Close()
		return nil, &TransportError{
			Op:         op,
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}
	return resp, nil
}

// decodeStrict requires a single JSON object.
func decodeStrict(b []byte, dst any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty body")
	}
	if b[0] != '{' {
		return errors.New("body is not a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON object")
	}
	return nil
}
