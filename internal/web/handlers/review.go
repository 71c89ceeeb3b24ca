package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/appraisal-comps/internal/dataset"
	"github.com/appraisal-comps/internal/store"
)

// ReviewHandler serves appraisal rows for human review and records the
// resulting judgments. Rows come from Postgres when a Store is configured,
// otherwise from the scored CSV produced by the ranker.
type ReviewHandler struct {
	Store       *store.Store
	FeedbackCSV string
	ScoredCSV   string
}

// Health reports the server is up.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListAppraisals returns the order identifiers available for review.
func (h *ReviewHandler) ListAppraisals(w http.ResponseWriter, r *http.Request) {
	if h.Store != nil {
		orders, err := h.Store.ListOrders()
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, orders)
		return
	}

	rows, err := h.readScored()
	if err != nil {
		http.Error(w, "Failed to read scored rows", http.StatusInternalServerError)
		return
	}

	byOrder := make(map[string]*store.OrderSummary)
	for i := range rows {
		row := &rows[i]
		summary, ok := byOrder[row.OrderID]
		if !ok {
			summary = &store.OrderSummary{OrderID: row.OrderID, SubjectAddress: row.SubjectAddress}
			byOrder[row.OrderID] = summary
		}
		summary.RowCount++
		summary.CompCount += row.IsComp
	}

	orders := make([]store.OrderSummary, 0, len(byOrder))
	for _, summary := range byOrder {
		orders = append(orders, *summary)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	writeJSON(w, http.StatusOK, orders)
}

// RowResponse is one candidate as presented to the reviewer.
type RowResponse struct {
	OrderID          string   `json:"orderID"`
	CandidateAddress string   `json:"candidate_address"`
	SubjectAddress   string   `json:"subject_address"`
	IsComp           int      `json:"is_comp"`
	Rank             int      `json:"rank,omitempty"`
	Score            float64  `json:"score,omitempty"`
	DistanceKM       *float64 `json:"distance_to_subject_km,omitempty"`
}

// GetRows returns the candidates for one appraisal.
func (h *ReviewHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	if h.Store != nil {
		rows, err := h.Store.RowsForOrder(orderID)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		resp := make([]RowResponse, 0, len(rows))
		for i := range rows {
			row := &rows[i]
			resp = append(resp, RowResponse{
				OrderID:          row.OrderID,
				CandidateAddress: row.CandidateAddress,
				SubjectAddress:   row.SubjectAddress,
				IsComp:           row.IsComp,
				DistanceKM:       row.DistanceKM,
			})
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	scored, err := h.readScored()
	if err != nil {
		http.Error(w, "Failed to read scored rows", http.StatusInternalServerError)
		return
	}

	resp := make([]RowResponse, 0)
	for i := range scored {
		row := &scored[i]
		if row.OrderID != orderID {
			continue
		}
		resp = append(resp, RowResponse{
			OrderID:          row.OrderID,
			CandidateAddress: row.CandidateAddress,
			SubjectAddress:   row.SubjectAddress,
			IsComp:           row.IsComp,
			Rank:             row.Rank,
			Score:            row.Score,
			DistanceKM:       row.DistanceKM,
		})
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Rank < resp[j].Rank })
	writeJSON(w, http.StatusOK, resp)
}

// PostFeedback records one judgment in the feedback log, and in Postgres
// when available.
func (h *ReviewHandler) PostFeedback(w http.ResponseWriter, r *http.Request) {
	var rec dataset.FeedbackRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "Invalid feedback payload", http.StatusBadRequest)
		return
	}
	if rec.OrderID == "" || rec.CandidateAddress == "" {
		http.Error(w, "orderID and candidate_address are required", http.StatusBadRequest)
		return
	}
	if rec.UserFeedback != 0 && rec.UserFeedback != 1 {
		http.Error(w, "user_feedback must be 0 or 1", http.StatusBadRequest)
		return
	}

	if err := dataset.AppendFeedback(h.FeedbackCSV, rec); err != nil {
		http.Error(w, "Failed to record feedback", http.StatusInternalServerError)
		return
	}
	if h.Store != nil {
		if err := h.Store.InsertFeedback(rec); err != nil {
			http.Error(w, "Failed to record feedback", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (h *ReviewHandler) readScored() ([]dataset.ScoredRow, error) {
	return dataset.ReadScoredCSV(h.ScoredCSV)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
