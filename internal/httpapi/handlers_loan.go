package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nutcas3/tokenized-credit/internal/credit"
)

// =============================================================================
// Loan Handlers
// =============================================================================

func (h *handlers) applyForLoan(w http.ResponseWriter, r *http.Request) {
	var app credit.LoanApplication
	if !readJSON(w, r, &app) {
		return
	}

	// Boundary presence check, deliberately duplicating the service's own
	// validation so a bad request is answered before any downstream call.
	if app.BorrowerAddress == "" || app.InvoiceData == nil {
		jsonError(w, "missing required fields", http.StatusBadRequest)
		return
	}

	receipt, err := h.svc.SubmitLoanApplication(r.Context(), app)
	if err != nil {
		writeFailure(h.log, w, err, "failed to process loan application")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "Loan application submitted successfully",
		"applicationId": receipt.ApplicationID,
		"metadataURI":   receipt.MetadataRef,
	})
}

func (h *handlers) approveLoan(w http.ResponseWriter, r *http.Request) {
	var approval credit.LoanApproval
	if !readJSON(w, r, &approval) {
		return
	}

	if approval.BorrowerAddress == "" || !approval.Valuation.IsPositive() ||
		!approval.Principal.IsPositive() || approval.InterestRate <= 0 ||
		approval.DurationSeconds <= 0 || approval.MetadataRef == "" {
		jsonError(w, "missing required fields", http.StatusBadRequest)
		return
	}

	txHash, err := h.svc.ApproveLoanApplication(r.Context(), approval)
	if err != nil {
		writeFailure(h.log, w, err, "failed to approve loan")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Loan approved and issued successfully",
		"txHash":  txHash,
	})
}

func (h *handlers) repayLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}

	txHash, err := h.svc.SettleLoan(r.Context(), loanID)
	if err != nil {
		writeFailure(h.log, w, err, "failed to repay loan")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Loan repaid successfully",
		"txHash":  txHash,
	})
}

func (h *handlers) approveRepayment(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}

	txHash, err := h.svc.AuthorizeRepayment(r.Context(), loanID)
	if err != nil {
		writeFailure(h.log, w, err, "failed to approve repayment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Repayment approved successfully",
		"txHash":  txHash,
	})
}

func (h *handlers) getLoan(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}

	loan, err := h.svc.FetchLoan(r.Context(), loanID)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch loan details")
		return
	}

	writeJSON(w, http.StatusOK, loan)
}

func (h *handlers) getLoanCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.FetchLoanCount(r.Context())
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch loan count")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}

func (h *handlers) getRepaymentAmount(w http.ResponseWriter, r *http.Request) {
	loanID, ok := loanIDVar(w, r)
	if !ok {
		return
	}

	amount, err := h.svc.FetchRepaymentAmount(r.Context(), loanID)
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch repayment amount")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"amount": amount})
}

func (h *handlers) getPoolBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.FetchPoolBalance(r.Context())
	if err != nil {
		writeFailure(h.log, w, err, "failed to fetch pool balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func loanIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	loanID, err := strconv.ParseInt(mux.Vars(r)["loanId"], 10, 64)
	if err != nil || loanID <= 0 {
		jsonError(w, "invalid loan id", http.StatusBadRequest)
		return 0, false
	}
	return loanID, true
}
