// Package planning exposes the two-layer planner over HTTP.
package planning

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kochimetro/induction/core/induction"
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/slotting"
)

// Planner is the subset of the application service the API needs.
type Planner interface {
	RunPlan(ctx context.Context, input model.PlanningInput) (string, *induction.Result, error)
	RunSlots(ctx context.Context, vehicles []slotting.Vehicle, day slotting.ServiceDay, date model.Date) (string, *slotting.Result, error)
}

// ScheduleRequest is the body of POST /api/plan/schedule.
type ScheduleRequest struct {
	Vehicles    []slotting.Vehicle  `json:"vehicles"`
	ServiceDay  slotting.ServiceDay `json:"service_day"`
	ServiceDate model.Date          `json:"date"`
}

type planResponse struct {
	RunID  string            `json:"run_id"`
	Result *induction.Result `json:"result"`
}

type scheduleResponse struct {
	RunID  string           `json:"run_id"`
	Result *slotting.Result `json:"result"`
}

// NewHandler returns the planning API mux. Requests must include an
// Authorization header with "Bearer <token>" when token is non-empty.
func NewHandler(svc Planner, token string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/plan/induction", authorize(token, inductionHandler(svc)))
	mux.Handle("/api/plan/schedule", authorize(token, scheduleHandler(svc)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func authorize(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func inductionHandler(svc Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var input model.PlanningInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		runID, result, err := svc.RunPlan(r.Context(), input)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, planResponse{RunID: runID, Result: result})
	})
}

func scheduleHandler(svc Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.ServiceDay == "" {
			req.ServiceDay = slotting.DayRegular
		}
		runID, result, err := svc.RunSlots(r.Context(), req.Vehicles, req.ServiceDay, req.ServiceDate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, scheduleResponse{RunID: runID, Result: result})
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
