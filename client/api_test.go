package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medicare/models"
)

func jsonHandler(status int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func TestCreateAppointmentDecodesData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/appointments" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req models.AppointmentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		jsonHandler(http.StatusCreated, map[string]interface{}{
			"success": true,
			"data":    models.Appointment{ID: "a1", PatientEmail: req.Email, Time: req.Time},
		})(w, r)
	}))
	defer srv.Close()

	api := NewHTTPBookingAPI(srv.URL + "/api/")
	appt, err := api.CreateAppointment(context.Background(), models.AppointmentRequest{Email: "jane@example.com", Time: "10:30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.ID != "a1" || appt.PatientEmail != "jane@example.com" {
		t.Fatalf("unexpected appointment %+v", appt)
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   map[string]interface{}
		kind   ErrorKind
	}{
		{"conflict", 400, map[string]interface{}{"success": false, "error": "Duplicate appointment", "message": "this time is no longer available"}, KindConflict},
		{"validation", 400, map[string]interface{}{"success": false, "error": "Validation error", "messages": []string{"outside business hours"}}, KindValidation},
		{"missing", 400, map[string]interface{}{"success": false, "error": "Missing required fields", "required": []string{"name"}}, KindValidation},
		{"not found", 404, map[string]interface{}{"success": false, "error": "Appointment not found"}, KindNotFound},
		{"server", 500, map[string]interface{}{"success": false, "error": "Service temporarily unavailable, please try again"}, KindTransport},
		{"no success flag", 200, map[string]interface{}{"data": map[string]string{"id": "a1"}}, KindTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(jsonHandler(tc.status, tc.body))
			defer srv.Close()

			_, err := NewHTTPBookingAPI(srv.URL).CreateAppointment(context.Background(), models.AppointmentRequest{})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, apiErr.Kind)
			}
		})
	}
}

func TestValidationUserMessage(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(400, map[string]interface{}{
		"success": false, "error": "Validation error", "messages": []string{"outside business hours"},
	}))
	defer srv.Close()

	_, err := NewHTTPBookingAPI(srv.URL).CreateAppointment(context.Background(), models.AppointmentRequest{})
	if got := UserMessage(err); got != "outside business hours" {
		t.Fatalf("expected field message, got %q", got)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(200, nil))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPBookingAPI(url).ListAll(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestAvailabilityQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/availability" || r.URL.Query().Get("date") != "2030-01-11" || r.URL.Query().Get("doctor") != "Dr. Aisha Sharma" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		jsonHandler(200, map[string]interface{}{
			"success": true,
			"data":    models.Availability{Date: "2030-01-11", Booked: []string{"09:00"}},
		})(w, r)
	}))
	defer srv.Close()

	av, err := NewHTTPBookingAPI(srv.URL).Availability(context.Background(), "2030-01-11", "Dr. Aisha Sharma")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(av.Booked) != 1 || av.Booked[0] != "09:00" {
		t.Fatalf("unexpected availability %+v", av)
	}
}

func TestRequestsWaitForSlowServer(t *testing.T) {
	api := NewHTTPBookingAPI("http://localhost:5000/api")
	if api.HTTPClient.Timeout != 0 {
		t.Fatalf("expected no client timeout, got %s", api.HTTPClient.Timeout)
	}

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		jsonHandler(http.StatusOK, map[string]interface{}{"success": true, "data": nil})(w, r)
	}))
	defer srv.Close()
	api = NewHTTPBookingAPI(srv.URL + "/api")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.Delete(ctx, "a1") }()

	select {
	case err := <-done:
		t.Fatalf("request finished before the server answered: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	err := <-done
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindTransport || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled transport error, got %v", err)
	}
	close(release)
}
