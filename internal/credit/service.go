package credit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/nutcas3/tokenized-credit/internal/faults"
)

// ChainGateway is the slice of the contract gateway the relay service uses.
// Amounts are decimals on both sides; chain-unit scaling happens below this
// interface.
type ChainGateway interface {
	IssueLoan(ctx context.Context, borrower string, valuation, principal decimal.Decimal, interestRate, durationSeconds int64, metadataRef string) (string, error)
	RepayLoan(ctx context.Context, loanID int64) (string, error)
	DepositToTranche(ctx context.Context, kind TrancheKind, amount decimal.Decimal) (string, error)
	WithdrawFromTranche(ctx context.Context, kind TrancheKind, shares decimal.Decimal) (string, error)
	ApproveSpender(ctx context.Context, spender Spender, amount decimal.Decimal) (string, error)

	GetLoan(ctx context.Context, loanID int64) (*LoanRecord, error)
	GetPoolBalance(ctx context.Context) (decimal.Decimal, error)
	GetLoanCount(ctx context.Context) (int64, error)
	GetRepaymentAmount(ctx context.Context, loanID int64) (decimal.Decimal, error)
	GetTrancheSnapshot(ctx context.Context, kind TrancheKind) (*TrancheSnapshot, error)
	GetTotalValueLocked(ctx context.Context) (decimal.Decimal, error)
	GetShareEstimate(ctx context.Context, kind TrancheKind, amount decimal.Decimal) (decimal.Decimal, error)
	GetShareBalance(ctx context.Context, kind TrancheKind, address string) (decimal.Decimal, error)
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	GetAllowance(ctx context.Context, owner string, spender Spender) (decimal.Decimal, error)
	HasRole(ctx context.Context, address, role string) (bool, error)
}

// BlobStore is the slice of the pinning client the relay service uses.
type BlobStore interface {
	PinJSON(ctx context.Context, v any) (string, error)
	FetchJSON(ctx context.Context, ref string) (json.RawMessage, error)
}

// Service orchestrates one chain or blob-store interaction per operation.
// It validates input shape only; business rules (principal vs valuation,
// repayment state, share pricing) stay on-chain. Failures from the gateway
// and the store propagate unchanged.
type Service struct {
	chain ChainGateway
	store BlobStore
	log   *logrus.Entry
}

// NewService creates the relay service.
func NewService(gw ChainGateway, store BlobStore, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		chain: gw,
		store: store,
		log:   log.WithField("component", "credit"),
	}
}

// =============================================================================
// Loan Operations
// =============================================================================

// SubmitLoanApplication uploads the invoice metadata and returns the content
// reference. The application id is a wall-clock timestamp with no uniqueness
// or durability guarantee; nothing is persisted locally.
func (s *Service) SubmitLoanApplication(ctx context.Context, app LoanApplication) (*ApplicationReceipt, error) {
	if app.BorrowerAddress == "" {
		return nil, faults.NewValidation("borrowerAddress is required")
	}
	if app.InvoiceData == nil {
		return nil, faults.NewValidation("invoiceData is required")
	}
	if app.InvoiceData.InvoiceNumber == "" || app.InvoiceData.Counterparty == "" {
		return nil, faults.NewValidation("invoiceData requires invoiceNumber and counterparty")
	}
	if !app.InvoiceData.Amount.IsPositive() {
		return nil, faults.NewValidation("invoiceData.amount must be positive")
	}

	ref, err := s.store.PinJSON(ctx, app.InvoiceData)
	if err != nil {
		return nil, err
	}

	receipt := &ApplicationReceipt{
		ApplicationID: strconv.FormatInt(time.Now().UnixMilli(), 10),
		MetadataRef:   ref,
	}
	s.log.WithFields(logrus.Fields{
		"borrower": app.BorrowerAddress,
		"metadata": ref,
	}).Info("loan application submitted")
	return receipt, nil
}

// ApproveLoanApplication issues the loan on the ledger. Unauthorized and
// ChainTimeout surface as-is from the gateway.
func (s *Service) ApproveLoanApplication(ctx context.Context, approval LoanApproval) (string, error) {
	switch {
	case approval.BorrowerAddress == "":
		return "", faults.NewValidation("borrowerAddress is required")
	case !approval.Valuation.IsPositive():
		return "", faults.NewValidation("valuation is required")
	case !approval.Principal.IsPositive():
		return "", faults.NewValidation("principal is required")
	case approval.InterestRate <= 0:
		return "", faults.NewValidation("interest is required")
	case approval.DurationSeconds <= 0:
		return "", faults.NewValidation("duration is required")
	case approval.MetadataRef == "":
		return "", faults.NewValidation("metadataURI is required")
	}

	txHash, err := s.chain.IssueLoan(ctx, approval.BorrowerAddress,
		approval.Valuation, approval.Principal,
		approval.InterestRate, approval.DurationSeconds, approval.MetadataRef)
	if err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"borrower": approval.BorrowerAddress,
		"tx":       txHash,
	}).Info("loan issued")
	return txHash, nil
}

// SettleLoan repays a loan. AuthorizeRepayment must have succeeded first for
// the same loan or the underlying contract call fails; the relay does not
// enforce that ordering.
func (s *Service) SettleLoan(ctx context.Context, loanID int64) (string, error) {
	return s.chain.RepayLoan(ctx, loanID)
}

// AuthorizeRepayment grants the loan ledger an allowance for the exact
// repayment amount of a loan. It must be called, and succeed, strictly
// before SettleLoan.
func (s *Service) AuthorizeRepayment(ctx context.Context, loanID int64) (string, error) {
	amount, err := s.chain.GetRepaymentAmount(ctx, loanID)
	if err != nil {
		return "", err
	}
	return s.chain.ApproveSpender(ctx, SpenderLoanLedger, amount)
}

// FetchLoan returns one ledger entry.
func (s *Service) FetchLoan(ctx context.Context, loanID int64) (*LoanRecord, error) {
	return s.chain.GetLoan(ctx, loanID)
}

// FetchLoanCount returns the number of loans ever issued.
func (s *Service) FetchLoanCount(ctx context.Context) (int64, error) {
	return s.chain.GetLoanCount(ctx)
}

// FetchRepaymentAmount returns principal plus accrued interest for a loan.
func (s *Service) FetchRepaymentAmount(ctx context.Context, loanID int64) (decimal.Decimal, error) {
	return s.chain.GetRepaymentAmount(ctx, loanID)
}

// FetchPoolBalance returns the ledger's stable-token balance.
func (s *Service) FetchPoolBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.chain.GetPoolBalance(ctx)
}

// =============================================================================
// Tranche Operations
// =============================================================================

// DepositToTranche invests into a tranche. AuthorizeDeposit must precede it
// when the investor's allowance is missing or insufficient; that ordering is
// a caller responsibility.
func (s *Service) DepositToTranche(ctx context.Context, kind TrancheKind, amount decimal.Decimal, investorAddress string) (string, error) {
	if investorAddress == "" {
		return "", faults.NewValidation("userAddress is required")
	}
	if !amount.IsPositive() {
		return "", faults.NewValidation("amount must be positive")
	}
	return s.chain.DepositToTranche(ctx, kind, amount)
}

// WithdrawFromTranche redeems shares from a tranche.
func (s *Service) WithdrawFromTranche(ctx context.Context, kind TrancheKind, shares decimal.Decimal, investorAddress string) (string, error) {
	if investorAddress == "" {
		return "", faults.NewValidation("userAddress is required")
	}
	if !shares.IsPositive() {
		return "", faults.NewValidation("shares must be positive")
	}
	return s.chain.WithdrawFromTranche(ctx, kind, shares)
}

// AuthorizeDeposit grants the tranche accounting contract an allowance of
// amount stable tokens. Must precede DepositToTranche for a new or
// insufficient allowance.
func (s *Service) AuthorizeDeposit(ctx context.Context, amount decimal.Decimal, investorAddress string) (string, error) {
	if investorAddress == "" {
		return "", faults.NewValidation("userAddress is required")
	}
	if !amount.IsPositive() {
		return "", faults.NewValidation("amount must be positive")
	}
	return s.chain.ApproveSpender(ctx, SpenderTrancheManager, amount)
}

// FetchTrancheSnapshot returns a read-only projection of one tranche.
func (s *Service) FetchTrancheSnapshot(ctx context.Context, kind TrancheKind) (*TrancheSnapshot, error) {
	return s.chain.GetTrancheSnapshot(ctx, kind)
}

// FetchTotalValueLocked returns the combined value of both tranches.
func (s *Service) FetchTotalValueLocked(ctx context.Context) (decimal.Decimal, error) {
	return s.chain.GetTotalValueLocked(ctx)
}

// EstimateShares quotes the shares minted for a deposit of amount.
func (s *Service) EstimateShares(ctx context.Context, kind TrancheKind, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, faults.NewValidation("amount must not be negative")
	}
	return s.chain.GetShareEstimate(ctx, kind, amount)
}

// FetchShareBalance returns an address's share balance in one tranche.
func (s *Service) FetchShareBalance(ctx context.Context, kind TrancheKind, address string) (decimal.Decimal, error) {
	if address == "" {
		return decimal.Zero, faults.NewValidation("address is required")
	}
	return s.chain.GetShareBalance(ctx, kind, address)
}

// =============================================================================
// Account Operations
// =============================================================================

// FetchStableBalance returns an address's stable-token balance.
func (s *Service) FetchStableBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if address == "" {
		return decimal.Zero, faults.NewValidation("address is required")
	}
	return s.chain.GetBalance(ctx, address)
}

// FetchAllowance returns the allowance an address has granted a spender
// contract.
func (s *Service) FetchAllowance(ctx context.Context, address string, spender Spender) (decimal.Decimal, error) {
	if address == "" {
		return decimal.Zero, faults.NewValidation("address is required")
	}
	return s.chain.GetAllowance(ctx, address, spender)
}

// CheckRole reports whether an address holds a named on-chain role.
func (s *Service) CheckRole(ctx context.Context, address, role string) (bool, error) {
	if address == "" {
		return false, faults.NewValidation("address is required")
	}
	return s.chain.HasRole(ctx, address, role)
}

// FetchAccountPosition assembles the full derived position of one address:
// stable balance, both allowances, and per-tranche share balances.
func (s *Service) FetchAccountPosition(ctx context.Context, address string) (*AccountPosition, error) {
	if address == "" {
		return nil, faults.NewValidation("address is required")
	}

	balance, err := s.chain.GetBalance(ctx, address)
	if err != nil {
		return nil, err
	}
	ledgerAllowance, err := s.chain.GetAllowance(ctx, address, SpenderLoanLedger)
	if err != nil {
		return nil, err
	}
	trancheAllowance, err := s.chain.GetAllowance(ctx, address, SpenderTrancheManager)
	if err != nil {
		return nil, err
	}
	seniorShares, err := s.chain.GetShareBalance(ctx, Senior, address)
	if err != nil {
		return nil, err
	}
	juniorShares, err := s.chain.GetShareBalance(ctx, Junior, address)
	if err != nil {
		return nil, err
	}

	return &AccountPosition{
		Address:          address,
		StableBalance:    balance,
		LedgerAllowance:  ledgerAllowance,
		TrancheAllowance: trancheAllowance,
		SeniorShares:     seniorShares,
		JuniorShares:     juniorShares,
	}, nil
}

// =============================================================================
// Blob Operations
// =============================================================================

// FetchBlob returns previously pinned content by reference.
func (s *Service) FetchBlob(ctx context.Context, ref string) (json.RawMessage, error) {
	if ref == "" {
		return nil, faults.NewValidation("reference is required")
	}
	return s.store.FetchJSON(ctx, ref)
}
