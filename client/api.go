package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"medicare/models"
)

// BookingAPI is the server surface the picker and CLI talk to.
type BookingAPI interface {
	CreateAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error)
	Availability(ctx context.Context, date, doctor string) (*models.Availability, error)
	ListByEmail(ctx context.Context, email string) ([]models.AppointmentSummary, error)
	ListAll(ctx context.Context) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// HTTPBookingAPI calls the booking server's JSON API under BaseURL (e.g. http://localhost:5000/api).
// Requests carry no client-side deadline; callers bound them through ctx.
type HTTPBookingAPI struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPBookingAPI(baseURL string) *HTTPBookingAPI {
	return &HTTPBookingAPI{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// envelope is the server's response wrapper. Success is a pointer so an
// absent flag is distinguishable from false.
type envelope struct {
	Success  *bool           `json:"success"`
	Data     json.RawMessage `json:"data"`
	Count    int             `json:"count"`
	Error    string          `json:"error"`
	Message  string          `json:"message"`
	Messages []string        `json:"messages"`
	Required []string        `json:"required"`
}

func (a *HTTPBookingAPI) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindTransport, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return &APIError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Success == nil || !*env.Success {
		return classify(resp.StatusCode, env)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func classify(status int, env envelope) *APIError {
	e := &APIError{
		StatusCode: status,
		Message:    env.Error,
		Messages:   env.Messages,
		Required:   env.Required,
	}
	switch {
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case env.Error == "Duplicate appointment":
		e.Kind = KindConflict
		if env.Message != "" {
			e.Message = env.Message
		}
	case status == http.StatusBadRequest:
		e.Kind = KindValidation
		if len(env.Required) > 0 && env.Message != "" {
			e.Message = env.Message
		}
	default:
		e.Kind = KindTransport
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
	}
	return e
}

func (a *HTTPBookingAPI) CreateAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error) {
	var appt models.Appointment
	if err := a.do(ctx, http.MethodPost, "/appointments", req, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (a *HTTPBookingAPI) Availability(ctx context.Context, date, doctor string) (*models.Availability, error) {
	q := url.Values{}
	q.Set("date", date)
	if doctor != "" {
		q.Set("doctor", doctor)
	}
	var av models.Availability
	if err := a.do(ctx, http.MethodGet, "/availability?"+q.Encode(), nil, &av); err != nil {
		return nil, err
	}
	return &av, nil
}

func (a *HTTPBookingAPI) ListByEmail(ctx context.Context, email string) ([]models.AppointmentSummary, error) {
	out := []models.AppointmentSummary{}
	if err := a.do(ctx, http.MethodGet, "/appointments/"+url.PathEscape(email), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *HTTPBookingAPI) ListAll(ctx context.Context) ([]models.Appointment, error) {
	out := []models.Appointment{}
	if err := a.do(ctx, http.MethodGet, "/appointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *HTTPBookingAPI) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	var appt models.Appointment
	body := models.StatusUpdateRequest{Status: status}
	if err := a.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id)+"/status", body, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (a *HTTPBookingAPI) Delete(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil)
}
