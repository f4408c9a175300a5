package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nutcas3/tokenized-credit/internal/credit"
)

// =============================================================================
// Tranche Handlers
// =============================================================================

// depositRequest carries a stable-token amount. IsSenior is a pointer so an
// absent flag is distinguishable from junior.
type depositRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	IsSenior    *bool           `json:"isSenior"`
	UserAddress string          `json:"userAddress"`
}

// withdrawRequest carries a share count, not a stable-token amount; the wire
// field is named accordingly.
type withdrawRequest struct {
	Shares      decimal.Decimal `json:"shares"`
	IsSenior    *bool           `json:"isSenior"`
	UserAddress string          `json:"userAddress"`
}

func (h *handlers) depositToTranche(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Amount.IsZero() || req.IsSenior == nil || req.UserAddress == "" {
		jsonError(w, "missing required fields", http.StatusBadRequest)
		return
	}

	kind := credit.KindFromSenior(*req.IsSenior)
	txHash, err := h.svc.DepositToTranche(r.Context(), kind, req.Amount, req.UserAddress)
	if err != nil {
		writeFailure(h.log, w, err, "failed to deposit to tranche")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Deposit to %s tranche successful", kind),
		"txHash":  txHash,
	})
}

func (h *handlers) withdrawFromTranche(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Shares.IsZero() || req.IsSenior == nil || req.UserAddress == "" {
		jsonError(w, "missing required fields", http.StatusBadRequest)
		return
	}

	kind := credit.KindFromSenior(*req.IsSenior)
	txHash, err := h.svc.WithdrawFromTranche(r.Context(), kind, req.Shares, req.UserAddress)
	if err != nil {
		writeFailure(h.log, w, err, "failed to withdraw from tranche")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Withdrawal from %s tranche successful", kind),
		"txHash":  txHash,
	})
}

func (h *handlers) approveTrancheSpend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      decimal.Decimal `json:"amount"`
		UserAddress string          `json:"userAddress"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.UserAddress == "" || req.Amount.IsZero() {
		jsonError(w, "missing required fields", http.StatusBadRequest)
		return
	}

	txHash, err := h.svc.AuthorizeDeposit(r.Context(), req.Amount, req.UserAddress)
	if err != nil {
		writeFailure(h.log, w, err, "failed to approve tranche spending")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Approval successful",
		"txHash":  txHash,
	})
}

func (h *handlers) getTrancheInfo(w http.ResponseWriter, r *http.Request) {
	kind, ok := trancheKindVar(w, r, "type")
	if !ok {
		return
	}

	snapshot, err := h.svc.FetchTrancheSnapshot(r.Context(), kind)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch tranche info")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *handlers) getTotalValueLocked(w http.ResponseWriter, r *http.Request) {
	tvl, err := h.svc.FetchTotalValueLocked(r.Context())
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch total value locked")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tvl": tvl})
}

func (h *handlers) calculateShares(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		jsonError(w, "invalid amount", http.StatusBadRequest)
		return
	}
	kind := credit.KindFromSenior(q.Get("isSenior") == "true")

	shares, err := h.svc.EstimateShares(r.Context(), kind, amount)
	if err != nil {
		writeFailure(h.log, w, err, "failed to calculate shares")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"shares": shares})
}

func (h *handlers) getTrancheAllowance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	allowance, err := h.svc.FetchAllowance(r.Context(), address, credit.SpenderTrancheManager)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch allowance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"allowance": allowance})
}

func (h *handlers) getShareBalance(w http.ResponseWriter, r *http.Request) {
	kind, ok := trancheKindVar(w, r, "type")
	if !ok {
		return
	}
	address := mux.Vars(r)["address"]

	balance, err := h.svc.FetchShareBalance(r.Context(), kind, address)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch share balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func trancheKindVar(w http.ResponseWriter, r *http.Request, name string) (credit.TrancheKind, bool) {
	kind, err := credit.ParseTrancheKind(mux.Vars(r)[name])
	if err != nil {
		jsonError(w, "tranche type must be senior or junior", http.StatusBadRequest)
		return "", false
	}
	return kind, true
}
