package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nutcas3/tokenized-credit/internal/chain"
	"github.com/nutcas3/tokenized-credit/internal/credit"
)

// =============================================================================
// Token, Access and Account Handlers
// =============================================================================

func (h *handlers) getStableBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	balance, err := h.svc.FetchStableBalance(r.Context(), address)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (h *handlers) getLedgerAllowance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	allowance, err := h.svc.FetchAllowance(r.Context(), address, credit.SpenderLoanLedger)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch allowance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"allowance": allowance})
}

func (h *handlers) checkUnderwriter(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	held, err := h.svc.CheckRole(r.Context(), address, chain.RoleUnderwriter)
	if err != nil {
		writeFailure(h.log, w, err, "failed to check underwriter role")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"isUnderwriter": held})
}

func (h *handlers) checkAdmin(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	held, err := h.svc.CheckRole(r.Context(), address, chain.RoleAdmin)
	if err != nil {
		writeFailure(h.log, w, err, "failed to check admin role")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"isAdmin": held})
}

func (h *handlers) getAccountPosition(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	position, err := h.svc.FetchAccountPosition(r.Context(), address)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch account position")
		return
	}

	writeJSON(w, http.StatusOK, position)
}

func (h *handlers) getBlob(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["hash"]

	blob, err := h.svc.FetchBlob(r.Context(), ref)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch metadata")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
