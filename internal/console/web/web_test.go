package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/medcore/clinic-console/internal/medcore"
)

// scriptedAPI is a minimal records backend for page tests.
func scriptedAPI(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) *medcore.Client {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := routes[r.Method+" "+r.URL.Path]
		if h == nil {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not scripted"})
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return medcore.New(ts.URL, nil)
}

func jsonRoute(status int, body any) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func newTestServer(t *testing.T, routes map[string]func(http.ResponseWriter, *http.Request)) *Server {
	s, err := New(scriptedAPI(t, routes), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /counts": jsonRoute(http.StatusOK, medcore.Counts{Patients: 12, Appointments: 30, Employees: 5, Positions: 3}),
	})

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<strong>12</strong> Patients", "<strong>30</strong> Appointments"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestPatientsPage_RendersTableAndEscapes(t *testing.T) {
	s := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /patients": jsonRoute(http.StatusOK, []medcore.Patient{
			{ID: 1, Name: "<script>alert(1)</script>", TaxID: "111", BirthDate: "1990-04-02"},
		}),
	})

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("record content was rendered unescaped")
	}
	if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Error("expected escaped record content in page")
	}
	if !strings.Contains(body, "02/04/1990") {
		t.Error("expected display-format birth date in page")
	}
}

func TestPatientsSave_RedirectsWithFlash(t *testing.T) {
	s := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /patients":     jsonRoute(http.StatusCreated, medcore.Patient{ID: 5, Name: "Ana", TaxID: "111"}),
		"POST /appointments": jsonRoute(http.StatusCreated, medcore.Appointment{ID: 9, PatientID: 5}),
	})

	form := url.Values{
		"name":             {"Ana"},
		"tax_id":           {"111"},
		"procedure":        {"Cleaning"},
		"appointment_date": {"2026-09-10"},
		"appointment_time": {"09:30"},
	}
	req := httptest.NewRequest(http.MethodPost, "/patients/save", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/patients?flash=") {
		t.Fatalf("expected flash redirect, got %q", loc)
	}
	if !strings.Contains(loc, url.QueryEscape("Patient and appointment registered.")) {
		t.Errorf("unexpected flash in %q", loc)
	}
}

func TestAppointmentDelete_RequiresConfirmField(t *testing.T) {
	calls := 0
	s := newTestServer(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /patients":     jsonRoute(http.StatusOK, []medcore.Patient{}),
		"GET /appointments": jsonRoute(http.StatusOK, []medcore.Appointment{{ID: 7, PatientID: 3}}),
		"DELETE /patients/3": func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNoContent)
		},
	})

	// Prime the module cache.
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments", nil))

	// Without the confirm field the delete is declined.
	req := httptest.NewRequest(http.MethodPost, "/appointments/7/delete", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	if calls != 0 {
		t.Fatal("declined delete must not reach the backend")
	}

	form := url.Values{"confirm": {"1"}}
	req = httptest.NewRequest(http.MethodPost, "/appointments/7/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	if calls != 1 {
		t.Fatalf("expected one patient delete, got %d", calls)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, url.QueryEscape("Appointment and patient record removed.")) {
		t.Errorf("unexpected flash in %q", loc)
	}
}
