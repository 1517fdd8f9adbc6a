package positions

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medcore/clinic-console/pkg/logging"
)

func newTestHandler() (*Handler, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	return NewHandler(repo, nil, logging.Default()), repo
}

func doRequest(h *Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	return w
}

func TestCreatePosition_Success(t *testing.T) {
	h, _ := newTestHandler()

	w := doRequest(h, http.MethodPost, "/", Input{Name: "Nurse", Salary: 4200.50, Description: "Day shift"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var p Position
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected assigned id")
	}
	if p.Name != "Nurse" {
		t.Errorf("expected name Nurse, got %s", p.Name)
	}
}

func TestCreatePosition_Validation(t *testing.T) {
	h, _ := newTestHandler()

	w := doRequest(h, http.MethodPost, "/", Input{Salary: 1000})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] != ErrNameRequired.Error() {
		t.Errorf("unexpected error %q", resp["error"])
	}
}

func TestListPositions_FiltersByName(t *testing.T) {
	h, repo := newTestHandler()
	_, _ = repo.Create(context.Background(), &Input{Name: "Nurse", Salary: 4200})
	_, _ = repo.Create(context.Background(), &Input{Name: "Receptionist", Salary: 2500})

	w := doRequest(h, http.MethodGet, "/?name=nur", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var items []Position
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Nurse" {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestUpdatePosition_NotFound(t *testing.T) {
	h, _ := newTestHandler()

	w := doRequest(h, http.MethodPut, "/99", Input{Name: "Nurse", Salary: 4200})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestDeletePosition_InUse(t *testing.T) {
	h, repo := newTestHandler()
	p, _ := repo.Create(context.Background(), &Input{Name: "Nurse", Salary: 4200})
	repo.InUse = func(ctx context.Context, positionID int64) bool { return positionID == p.ID }

	w := doRequest(h, http.MethodDelete, "/1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp map[string]string
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp["error"] != ErrPositionInUse.Error() {
		t.Errorf("unexpected error %q", resp["error"])
	}
}

func TestDeletePosition_Success(t *testing.T) {
	h, repo := newTestHandler()
	_, _ = repo.Create(context.Background(), &Input{Name: "Nurse", Salary: 4200})

	w := doRequest(h, http.MethodDelete, "/1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	items, _ := repo.List(context.Background(), "")
	if len(items) != 0 {
		t.Errorf("expected empty repository, got %+v", items)
	}
}
