package planning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kochimetro/induction/core/induction"
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/slotting"
)

type stubPlanner struct {
	plan     *induction.Result
	schedule *slotting.Result
	err      error
	gotInput model.PlanningInput
	gotDay   slotting.ServiceDay
}

func (s *stubPlanner) RunPlan(_ context.Context, input model.PlanningInput) (string, *induction.Result, error) {
	s.gotInput = input
	if s.err != nil {
		return "", nil, s.err
	}
	return "run-1", s.plan, nil
}

func (s *stubPlanner) RunSlots(_ context.Context, _ []slotting.Vehicle, day slotting.ServiceDay, _ model.Date) (string, *slotting.Result, error) {
	s.gotDay = day
	if s.err != nil {
		return "", nil, s.err
	}
	return "run-2", s.schedule, nil
}

func TestInductionEndpoint(t *testing.T) {
	stub := &stubPlanner{plan: &induction.Result{ServiceTrains: []string{"T1"}}}
	h := NewHandler(stub, "")

	body, _ := json.Marshal(model.PlanningInput{RequiredTrains: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/plan/induction", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var resp planResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RunID != "run-1" || len(resp.Result.ServiceTrains) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if stub.gotInput.RequiredTrains != 1 {
		t.Fatalf("input not forwarded")
	}
}

func TestScheduleEndpointDefaultsServiceDay(t *testing.T) {
	stub := &stubPlanner{schedule: &slotting.Result{Status: model.StatusOptimal}}
	h := NewHandler(stub, "")

	body, _ := json.Marshal(ScheduleRequest{Vehicles: []slotting.Vehicle{{ID: "T1", Track: "PT1", Position: 1}}})
	req := httptest.NewRequest(http.MethodPost, "/api/plan/schedule", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if stub.gotDay != slotting.DayRegular {
		t.Fatalf("service day not defaulted: %s", stub.gotDay)
	}
}

func TestEndpointsRejectBadRequests(t *testing.T) {
	stub := &stubPlanner{}
	h := NewHandler(stub, "")

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"induction wrong method", http.MethodGet, "/api/plan/induction", "", http.StatusMethodNotAllowed},
		{"schedule wrong method", http.MethodGet, "/api/plan/schedule", "", http.StatusMethodNotAllowed},
		{"induction bad json", http.MethodPost, "/api/plan/induction", "{", http.StatusBadRequest},
		{"schedule bad json", http.MethodPost, "/api/plan/schedule", "{", http.StatusBadRequest},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(c.method, c.path, bytes.NewReader([]byte(c.body)))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != c.want {
				t.Fatalf("status %d, want %d", rr.Code, c.want)
			}
		})
	}
}

func TestPlannerErrorsMapToUnprocessable(t *testing.T) {
	stub := &stubPlanner{err: fmt.Errorf("at least one train is required")}
	h := NewHandler(stub, "")

	req := httptest.NewRequest(http.MethodPost, "/api/plan/induction", bytes.NewReader([]byte("{}")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	stub := &stubPlanner{plan: &induction.Result{}}
	h := NewHandler(stub, "tok")

	req := httptest.NewRequest(http.MethodPost, "/api/plan/induction", bytes.NewReader([]byte("{}")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/plan/induction", bytes.NewReader([]byte("{}")))
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := NewHandler(&stubPlanner{}, "tok")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("health endpoint must not require auth, got %d", rr.Code)
	}
}
