package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medicare/models"
	"medicare/services/appointment"

	"github.com/gin-gonic/gin"
)

// stubService returns canned results; nil funcs behave as "not found".
type stubService struct {
	create  func(models.AppointmentRequest) (*models.Appointment, error)
	byEmail func(string) ([]models.AppointmentSummary, error)
	update  func(id, status string) (*models.Appointment, error)
	del     func(id string) error
	all     func() ([]models.Appointment, error)
	avail   func(doctor, date string) (*models.Availability, error)
}

func (s *stubService) CreateAppointment(_ context.Context, req models.AppointmentRequest) (*models.Appointment, error) {
	return s.create(req)
}

func (s *stubService) ListByEmail(_ context.Context, email string) ([]models.AppointmentSummary, error) {
	return s.byEmail(email)
}

func (s *stubService) GetAppointment(context.Context, string) (*models.Appointment, error) {
	return nil, appointment.ErrNotFound
}

func (s *stubService) UpdateStatus(_ context.Context, id, status string) (*models.Appointment, error) {
	return s.update(id, status)
}

func (s *stubService) DeleteAppointment(_ context.Context, id string) error {
	return s.del(id)
}

func (s *stubService) ListAll(context.Context) ([]models.Appointment, error) {
	return s.all()
}

func (s *stubService) Availability(_ context.Context, doctor, date string) (*models.Availability, error) {
	return s.avail(doctor, date)
}

func newRouter(svc appointment.AppointmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	h := NewAppointmentHandler(svc)
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments", h.ListAll)
	api.GET("/appointments/id/:id", h.GetAppointment)
	api.GET("/appointments/:email", h.ListByEmail)
	api.PUT("/appointments/:id/status", h.UpdateStatus)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
	api.GET("/availability", h.Availability)
	return r
}

func do(r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestCreateAppointmentResponses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		check  func(t *testing.T, body map[string]interface{})
	}{
		{
			name:   "created",
			status: http.StatusCreated,
			check: func(t *testing.T, body map[string]interface{}) {
				data, _ := body["data"].(map[string]interface{})
				if body["success"] != true || data["id"] != "a1" {
					t.Fatalf("unexpected body %v", body)
				}
			},
		},
		{
			name:   "conflict",
			err:    appointment.ErrConflict,
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "Duplicate appointment" || body["message"] != "this time is no longer available" {
					t.Fatalf("unexpected body %v", body)
				}
			},
		},
		{
			name:   "missing field",
			err:    &appointment.ValidationError{Message: "missing field: email", Field: "email"},
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				required, _ := body["required"].([]interface{})
				if body["success"] != false || len(required) != len(models.RequiredAppointmentFields) {
					t.Fatalf("unexpected body %v", body)
				}
			},
		},
		{
			name:   "validation",
			err:    &appointment.ValidationError{Message: "outside business hours"},
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				msgs, _ := body["messages"].([]interface{})
				if body["error"] != "Validation error" || len(msgs) != 1 || msgs[0] != "outside business hours" {
					t.Fatalf("unexpected body %v", body)
				}
			},
		},
		{
			name:   "infrastructure",
			err:    errors.New("connection refused"),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]interface{}) {
				if body["error"] != "Service temporarily unavailable, please try again" {
					t.Fatalf("expected generic message, got %v", body)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{create: func(req models.AppointmentRequest) (*models.Appointment, error) {
				if tc.err != nil {
					return nil, tc.err
				}
				return &models.Appointment{ID: "a1", PatientEmail: req.Email, Status: models.StatusScheduled}, nil
			}}
			w, body := do(newRouter(svc), http.MethodPost, "/api/appointments", map[string]string{"email": "jane@example.com"})
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			tc.check(t, body)
		})
	}
}

func TestCreateAppointmentMalformedBody(t *testing.T) {
	r := newRouter(&stubService{})
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListByEmailAndIDRoutes(t *testing.T) {
	svc := &stubService{byEmail: func(email string) ([]models.AppointmentSummary, error) {
		if email != "jane@example.com" {
			return []models.AppointmentSummary{}, nil
		}
		return []models.AppointmentSummary{{ID: "a1", Time: "09:00"}, {ID: "a2", Time: "10:30"}}, nil
	}}
	r := newRouter(svc)

	w, body := do(r, http.MethodGet, "/api/appointments/jane@example.com", nil)
	if w.Code != http.StatusOK || body["count"] != float64(2) {
		t.Fatalf("expected two appointments, got %d %v", w.Code, body)
	}

	w, _ = do(r, http.MethodGet, "/api/appointments/id/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from id route, got %d", w.Code)
	}
}

func TestListAllRoute(t *testing.T) {
	svc := &stubService{all: func() ([]models.Appointment, error) {
		return []models.Appointment{
			{ID: "a1", Date: "2030-01-11", Time: "09:00"},
			{ID: "a2", Date: "2030-01-11", Time: "15:15"},
		}, nil
	}}
	r := newRouter(svc)

	w, body := do(r, http.MethodGet, "/api/appointments", nil)
	if w.Code != http.StatusOK || body["success"] != true || body["count"] != float64(2) {
		t.Fatalf("expected success with two appointments, got %d %v", w.Code, body)
	}
	data, _ := body["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected data array of two, got %v", body["data"])
	}
	first, _ := data[0].(map[string]interface{})
	if first["id"] != "a1" || first["time"] != "09:00" {
		t.Fatalf("expected service order preserved, got %v", data)
	}

	failing := newRouter(&stubService{all: func() ([]models.Appointment, error) {
		return nil, errors.New("mongo down")
	}})
	w, body = do(failing, http.MethodGet, "/api/appointments", nil)
	if w.Code != http.StatusInternalServerError || body["success"] != false {
		t.Fatalf("expected 500 envelope, got %d %v", w.Code, body)
	}
}

func TestUpdateStatusResponses(t *testing.T) {
	svc := &stubService{update: func(id, status string) (*models.Appointment, error) {
		switch {
		case id == "missing":
			return nil, appointment.ErrNotFound
		case status == "archived":
			return nil, &appointment.ValidationError{Message: "invalid status"}
		case status == "confirmed" && id == "revived":
			return nil, appointment.ErrConflict
		}
		return &models.Appointment{ID: id, Status: models.AppointmentStatus(status)}, nil
	}}
	r := newRouter(svc)

	cases := []struct {
		id     string
		body   interface{}
		status int
	}{
		{"a1", map[string]string{"status": "cancelled"}, http.StatusOK},
		{"a1", map[string]string{}, http.StatusBadRequest},
		{"a1", map[string]string{"status": "archived"}, http.StatusBadRequest},
		{"missing", map[string]string{"status": "cancelled"}, http.StatusNotFound},
		{"revived", map[string]string{"status": "confirmed"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w, body := do(r, http.MethodPut, "/api/appointments/"+tc.id+"/status", tc.body)
		if w.Code != tc.status {
			t.Fatalf("%s %v: expected %d, got %d (%v)", tc.id, tc.body, tc.status, w.Code, body)
		}
	}
}

func TestDeleteAppointment(t *testing.T) {
	svc := &stubService{del: func(id string) error {
		if id == "missing" {
			return appointment.ErrNotFound
		}
		return nil
	}}
	r := newRouter(svc)

	w, body := do(r, http.MethodDelete, "/api/appointments/a1", nil)
	data, ok := body["data"].(map[string]interface{})
	if w.Code != http.StatusOK || !ok || len(data) != 0 {
		t.Fatalf("expected empty data object, got %d %v", w.Code, body)
	}
	if w, _ := do(r, http.MethodDelete, "/api/appointments/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAvailabilityRoute(t *testing.T) {
	svc := &stubService{avail: func(doctor, date string) (*models.Availability, error) {
		if date == "" {
			return nil, &appointment.ValidationError{Message: "missing field: date", Field: "date"}
		}
		return &models.Availability{Date: date, Doctor: doctor, Catalog: models.DefaultSlotCatalog, Booked: []string{"09:00"}, Available: []string{"10:30"}}, nil
	}}
	r := newRouter(svc)

	w, body := do(r, http.MethodGet, "/api/availability?date=2030-01-11&doctor=Dr.%20Aisha%20Sharma", nil)
	data, _ := body["data"].(map[string]interface{})
	if w.Code != http.StatusOK || data["doctor"] != "Dr. Aisha Sharma" {
		t.Fatalf("unexpected availability response %d %v", w.Code, body)
	}
	if w, _ := do(r, http.MethodGet, "/api/availability", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date, got %d", w.Code)
	}
}
