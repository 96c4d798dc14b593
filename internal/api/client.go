// Package api is the typed adapter over the patient-records host.
package api

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

	"github.com/google/uuid"
	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/rs/zerolog"
)

// Boundary operation names, as the host documents them.
const (
	OpListPatients   = "get_patients"
	OpPatientDetail  = "get_patient_details"
	OpSavePatient    = "save_patient"
	OpDeletePatient  = "delete_patient"
	OpGenerateReport = "generate_report"
	OpQRData         = "get_qr_data"
	OpSendEmail      = "send_email"
	OpSendWhatsApp   = "send_whatsapp"
	OpOpenFolder     = "open_folder"
	OpOpenDashboard  = "open_vercel"
)

// RequestIDHeader carries a per-call id the host can log.
const RequestIDHeader = "X-Request-ID"

// Backend is everything the dispatcher may ask of the host.
type Backend interface {
	ListPatients(ctx context.Context) ([]patient.Summary, error)
	PatientDetail(ctx context.Context, id string) (patient.Detail, error)
	SavePatient(ctx context.Context, d patient.Detail) (bool, error)
	DeletePatient(ctx context.Context, id string) (bool, error)
	GenerateReport(ctx context.Context, id string) (patient.ReportResult, error)
	QRData(ctx context.Context, name, id string) (string, error)
	SendEmail(ctx context.Context, id string) error
	SendWhatsApp(ctx context.Context, id string) error
	OpenFolder(ctx context.Context, id string) error
	OpenDashboard(ctx context.Context) error
}

// Client talks to the host over HTTP JSON. It applies no retry and no
// timeout of its own; the caller's context is the only deadline.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
}

var _ Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the host at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("host url is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing host url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported host url scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPatients fetches the full patient list.
func (c *Client) ListPatients(ctx context.Context) ([]patient.Summary, error) {
	var out []patient.Summary
	if err := c.do(ctx, OpListPatients, http.MethodGet, "/api/patients", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []patient.Summary{}
	}
	return out, nil
}

// PatientDetail fetches one record. Unknown ids yield a Detail whose Found is false.
func (c *Client) PatientDetail(ctx context.Context, id string) (patient.Detail, error) {
	var out patient.Detail
	err := c.do(ctx, OpPatientDetail, http.MethodGet, patientPath(id), nil, nil, &out)
	return out, err
}

// SavePatient creates or updates a record.
func (c *Client) SavePatient(ctx context.Context, d patient.Detail) (bool, error) {
	var ok bool
	err := c.do(ctx, OpSavePatient, http.MethodPost, "/api/patients", nil, d, &ok)
	return ok, err
}

// DeletePatient removes a record.
func (c *Client) DeletePatient(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := c.do(ctx, OpDeletePatient, http.MethodDelete, patientPath(id), nil, nil, &ok)
	return ok, err
}

// GenerateReport asks the host to build the report and QR code.
func (c *Client) GenerateReport(ctx context.Context, id string) (patient.ReportResult, error) {
	var out patient.ReportResult
	err := c.do(ctx, OpGenerateReport, http.MethodPost, patientPath(id)+"/report", nil, nil, &out)
	return out, err
}

// QRData returns an image reference for the patient's QR code, or "" when
// no report has been generated.
func (c *Client) QRData(ctx context.Context, name, id string) (string, error) {
	var out *string
	q := url.Values{"name": {name}}
	if err := c.do(ctx, OpQRData, http.MethodGet, patientPath(id)+"/qr", q, nil, &out); err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return *out, nil
}

// SendEmail asks the host to email the report link.
func (c *Client) SendEmail(ctx context.Context, id string) error {
	return c.do(ctx, OpSendEmail, http.MethodPost, patientPath(id)+"/email", nil, nil, nil)
}

// SendWhatsApp asks the host to send the report link over WhatsApp.
func (c *Client) SendWhatsApp(ctx context.Context, id string) error {
	return c.do(ctx, OpSendWhatsApp, http.MethodPost, patientPath(id)+"/whatsapp", nil, nil, nil)
}

// OpenFolder asks the host to open the patient's output folder.
func (c *Client) OpenFolder(ctx context.Context, id string) error {
	return c.do(ctx, OpOpenFolder, http.MethodPost, patientPath(id)+"/folder", nil, nil, nil)
}

// OpenDashboard asks the host to open the deployment dashboard.
func (c *Client) OpenDashboard(ctx context.Context) error {
	return c.do(ctx, OpOpenDashboard, http.MethodPost, "/api/dashboard/open", nil, nil, nil)
}

func patientPath(id string) string {
	return "/api/patients/" + url.PathEscape(id)
}

// do performs one call. A nil out means the response body is not consumed.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	target := c.baseURL.String() + path
	if query != nil {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &BackendError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &BackendError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("op", op).Str("request_id", reqID).Err(err).Msg("host call failed")
		return &BackendError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("host call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendError{Op: op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &BackendError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling back
// to the trimmed raw body.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
