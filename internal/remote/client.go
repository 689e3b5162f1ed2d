package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NadavFredi/yaron-hershberg-barbery-sub010/internal/appointment"
)

// ErrUnexpectedStatus is returned for non-2xx responses without a known error code.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client talks to a remote data service. It implements appointment.Service.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ appointment.Service = (*Client)(nil)

// NewClient creates a client for baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListAppointments returns appointments starting within [from, to).
func (c *Client) ListAppointments(ctx context.Context, from, to time.Time) ([]appointment.Appointment, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))

	var resp []AppointmentResponse
	if err := c.do(ctx, http.MethodGet, "/appointments?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	appts := make([]appointment.Appointment, 0, len(resp))
	for _, r := range resp {
		appts = append(appts, r.toAppointment())
	}
	return appts, nil
}

// GetAppointment fetches one appointment.
func (c *Client) GetAppointment(ctx context.Context, id string) (*appointment.Appointment, error) {
	var resp AppointmentResponse
	if err := c.do(ctx, http.MethodGet, "/appointments/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("getting appointment: %w", err)
	}
	a := resp.toAppointment()
	return &a, nil
}

// MoveAppointment posts a move. A rejected move is a MoveResult with Success=false;
// only transport and server failures are returned as errors.
func (c *Client) MoveAppointment(ctx context.Context, req appointment.MoveRequest) (appointment.MoveResult, error) {
	var res appointment.MoveResult
	path := "/appointments/" + url.PathEscape(req.AppointmentID) + "/move"
	if err := c.do(ctx, http.MethodPost, path, req, &res); err != nil {
		return appointment.MoveResult{}, fmt.Errorf("moving appointment: %w", err)
	}
	return res, nil
}

// DeleteAppointment removes an appointment.
func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("deleting appointment: %w", err)
	}
	return nil
}

// ListStations returns the station directory.
func (c *Client) ListStations(ctx context.Context) ([]appointment.Station, error) {
	var resp []ResourceResponse
	if err := c.do(ctx, http.MethodGet, "/stations", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	stations := make([]appointment.Station, 0, len(resp))
	for _, r := range resp {
		stations = append(stations, appointment.Station{ID: r.ID, Name: r.Name})
	}
	return stations, nil
}

// ListWorkers returns the worker directory.
func (c *Client) ListWorkers(ctx context.Context) ([]appointment.Worker, error) {
	var resp []ResourceResponse
	if err := c.do(ctx, http.MethodGet, "/workers", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing workers: %w", err)
	}
	workers := make([]appointment.Worker, 0, len(resp))
	for _, r := range resp {
		workers = append(workers, appointment.Worker{ID: r.ID, Name: r.Name})
	}
	return workers, nil
}

// Health checks the service is reachable.
func (c *Client) Health(ctx context.Context) error {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var e ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)

	switch e.Error {
	case codeAppointmentNotFound:
		return fmt.Errorf("%w: %s", appointment.ErrAppointmentNotFound, e.Details)
	case "":
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	default:
		return fmt.Errorf("%w: %s: %s (%s)", ErrUnexpectedStatus, resp.Status, e.Error, e.Details)
	}
}
