// Package medremindapi es el cliente HTTP de la API de medremind que usa la CLI.
package medremindapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medremind/internal/engine"
	"medremind/internal/platform/httpclient"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRejected     = errors.New("request rejected")
)

type Client struct {
	http      *httpclient.Client
	debugUser string
	now       func() time.Time
}

type Options struct {
	BaseURL string
	Token   string
	// DebugUser se manda como X-Debug-User-ID (server sin AUTH_JWT_SECRET).
	DebugUser string
	Timeout   time.Duration
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("api url required")
	}
	hc, err := httpclient.NewWithBaseURL(opts.BaseURL, opts.Timeout)
	if err != nil {
		return nil, err
	}
	hc.WithToken(opts.Token)

	return &Client{
		http:      hc,
		debugUser: strings.TrimSpace(opts.DebugUser),
		now:       time.Now,
	}, nil
}

func (c *Client) headers() map[string]string {
	if c.debugUser == "" {
		return nil
	}
	return map[string]string{"X-Debug-User-ID": c.debugUser}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	err := c.http.DoJSON(ctx, method, path, c.headers(), in, out)
	if err == nil {
		return nil
	}

	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return err
	}
	msg := he.Message
	if msg == "" {
		msg = http.StatusText(he.StatusCode)
	}
	switch he.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return engine.ErrAlreadyFull
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	default:
		return err
	}
}

func (c *Client) ListMedications(ctx context.Context) ([]engine.Medication, error) {
	var out []engine.Medication
	if err := c.do(ctx, http.MethodGet, "/medications", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoseHistory trae todo el historial si from y to están vacíos.
func (c *Client) DoseHistory(ctx context.Context, from, to engine.Date) ([]engine.DoseEntry, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("startDate", from.String())
	}
	if !to.IsZero() {
		q.Set("endDate", to.String())
	}
	path := "/dose-history"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []engine.DoseEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type recordDoseRequest struct {
	MedicationID string `json:"medicationId"`
	Taken        bool   `json:"taken"`
	Timestamp    string `json:"timestamp,omitempty"`
}

// RecordDose registra una toma; at cero = ahora (lo decide el server).
func (c *Client) RecordDose(ctx context.Context, medicationID string, taken bool, at time.Time) (engine.DoseEntry, error) {
	req := recordDoseRequest{MedicationID: medicationID, Taken: taken}
	if !at.IsZero() {
		req.Timestamp = at.Format(time.RFC3339)
	}

	var out engine.DoseEntry
	if err := c.do(ctx, http.MethodPost, "/dose-history", req, &out); err != nil {
		return engine.DoseEntry{}, err
	}
	return out, nil
}

// Refill repone el stock; engine.ErrAlreadyFull si ya estaba lleno.
func (c *Client) Refill(ctx context.Context, medicationID string) (engine.Medication, error) {
	var out engine.Medication
	if err := c.do(ctx, http.MethodPost, "/medications/"+url.PathEscape(medicationID)+"/refill", nil, &out); err != nil {
		return engine.Medication{}, err
	}
	return out, nil
}

// Snapshot baja medicamentos + historial completo.
func (c *Client) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	meds, err := c.ListMedications(ctx)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("list medications: %w", err)
	}
	history, err := c.DoseHistory(ctx, engine.Date{}, engine.Date{})
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("dose history: %w", err)
	}
	return engine.Snapshot{
		Medications: meds,
		History:     history,
		FetchedAt:   c.now(),
	}, nil
}
