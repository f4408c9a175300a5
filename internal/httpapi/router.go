package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/nutcas3/tokenized-credit/internal/credit"
	"github.com/nutcas3/tokenized-credit/internal/metrics"
)

type handlers struct {
	svc *credit.Service
	log *logrus.Entry
}

// NewRouter builds the HTTP surface of the relay. Literal tranche and loan
// paths are registered before their variable siblings so /api/tranche/tvl
// never matches the {type} route.
func NewRouter(svc *credit.Service, log *logrus.Logger) *mux.Router {
	if log == nil {
		log = logrus.New()
	}
	h := &handlers{
		svc: svc,
		log: log.WithField("component", "httpapi"),
	}

	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(metricsMiddleware)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Loans
	api.HandleFunc("/loan/apply", h.applyForLoan).Methods(http.MethodPost)
	api.HandleFunc("/loan/approve", h.approveLoan).Methods(http.MethodPost)
	api.HandleFunc("/loan/count", h.getLoanCount).Methods(http.MethodGet)
	api.HandleFunc("/loan/repay/{loanId:[0-9]+}", h.repayLoan).Methods(http.MethodPost)
	api.HandleFunc("/loan/approve-repayment/{loanId:[0-9]+}", h.approveRepayment).Methods(http.MethodPost)
	api.HandleFunc("/loan/repayment/{loanId:[0-9]+}", h.getRepaymentAmount).Methods(http.MethodGet)
	api.HandleFunc("/loan/{loanId:[0-9]+}", h.getLoan).Methods(http.MethodGet)
	api.HandleFunc("/pool/balance", h.getPoolBalance).Methods(http.MethodGet)

	// Tranches
	api.HandleFunc("/tranche/deposit", h.depositToTranche).Methods(http.MethodPost)
	api.HandleFunc("/tranche/withdraw", h.withdrawFromTranche).Methods(http.MethodPost)
	api.HandleFunc("/tranche/approve", h.approveTrancheSpend).Methods(http.MethodPost)
	api.HandleFunc("/tranche/tvl", h.getTotalValueLocked).Methods(http.MethodGet)
	api.HandleFunc("/tranche/calculate-shares", h.calculateShares).Methods(http.MethodGet)
	api.HandleFunc("/tranche/allowance/{address}", h.getTrancheAllowance).Methods(http.MethodGet)
	api.HandleFunc("/tranche/balance/{type}/{address}", h.getShareBalance).Methods(http.MethodGet)
	api.HandleFunc("/tranche/{type}", h.getTrancheInfo).Methods(http.MethodGet)

	// Stable token and access control
	api.HandleFunc("/usdc/balance/{address}", h.getStableBalance).Methods(http.MethodGet)
	api.HandleFunc("/usdc/allowance/{address}", h.getLedgerAllowance).Methods(http.MethodGet)
	api.HandleFunc("/access/underwriter/{address}", h.checkUnderwriter).Methods(http.MethodGet)
	api.HandleFunc("/access/admin/{address}", h.checkAdmin).Methods(http.MethodGet)

	// Accounts and metadata
	api.HandleFunc("/account/{address}", h.getAccountPosition).Methods(http.MethodGet)
	api.HandleFunc("/ipfs/{hash}", h.getBlob).Methods(http.MethodGet)

	return r
}
