// Package credit defines the domain types of the invoice credit relay and
// the service that orchestrates chain and blob-store calls for each
// supported operation. All entities here are projections of chain state; the
// relay persists nothing across requests.
package credit

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Tranches
// =============================================================================

// TrancheKind identifies one of the two funding pools. The set is fixed by
// the deployed contracts; adding a kind requires a contract upgrade.
type TrancheKind string

const (
	// Senior is repaid first at the lower rate.
	Senior TrancheKind = "senior"
	// Junior absorbs losses first at the higher rate.
	Junior TrancheKind = "junior"
)

// ParseTrancheKind parses a tranche kind from its route representation.
func ParseTrancheKind(s string) (TrancheKind, error) {
	switch strings.ToLower(s) {
	case "senior":
		return Senior, nil
	case "junior":
		return Junior, nil
	default:
		return "", fmt.Errorf("unknown tranche kind %q", s)
	}
}

// KindFromSenior maps the wire-level isSenior flag to a TrancheKind.
func KindFromSenior(isSenior bool) TrancheKind {
	if isSenior {
		return Senior
	}
	return Junior
}

// IsSenior reports whether k is the senior tranche.
func (k TrancheKind) IsSenior() bool { return k == Senior }

func (k TrancheKind) String() string { return string(k) }

// Spender identifies which deployed contract an allowance is granted to.
type Spender int

const (
	// SpenderLoanLedger targets the loan ledger (repayments).
	SpenderLoanLedger Spender = iota
	// SpenderTrancheManager targets the tranche accounting contract (deposits).
	SpenderTrancheManager
)

// =============================================================================
// Chain state projections
// =============================================================================

// LoanRecord is the relay's view of one ledger entry. Identifiers are
// assigned monotonically by the ledger contract; the repaid flag transitions
// false to true exactly once, enforced on-chain.
type LoanRecord struct {
	ID           int64           `json:"id"`
	Borrower     string          `json:"borrower"`
	Principal    decimal.Decimal `json:"principal"`
	Valuation    decimal.Decimal `json:"valuation"`
	InterestRate int64           `json:"interest"`
	DueDate      int64           `json:"dueDate"`
	Repaid       bool            `json:"repaid"`
	MetadataRef  string          `json:"metadataURI"`
}

// TrancheSnapshot is a read-only projection of one tranche's ledger state.
// APY is a display transform of the yield rate (basis points / 100).
type TrancheSnapshot struct {
	Kind          TrancheKind     `json:"kind"`
	TotalInvested decimal.Decimal `json:"totalInvested"`
	TotalShares   decimal.Decimal `json:"totalShares"`
	YieldRate     int64           `json:"yieldRate"`
	APY           decimal.Decimal `json:"apy"`
}

// AccountPosition aggregates an address's stable-token balance, the
// allowances it has granted the two spender contracts, and its per-tranche
// share balances. Purely derived; never written back.
type AccountPosition struct {
	Address          string          `json:"address"`
	StableBalance    decimal.Decimal `json:"usdcBalance"`
	LedgerAllowance  decimal.Decimal `json:"creditPoolAllowance"`
	TrancheAllowance decimal.Decimal `json:"trancheAllowance"`
	SeniorShares     decimal.Decimal `json:"seniorShares"`
	JuniorShares     decimal.Decimal `json:"juniorShares"`
}

// =============================================================================
// Request payloads
// =============================================================================

// InvoiceData is the schema-validated invoice metadata uploaded to the blob
// store. Unknown extra fields ride along in AdditionalInfo.
type InvoiceData struct {
	InvoiceNumber  string          `json:"invoiceNumber"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        string          `json:"dueDate"`
	Description    string          `json:"description"`
	Counterparty   string          `json:"counterparty"`
	AdditionalInfo map[string]any  `json:"additionalInfo,omitempty"`
}

// ContactInfo is optional borrower contact data attached to an application.
type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// LoanApplication is the transient payload of a borrower application. It is
// never persisted past the handling of one request.
type LoanApplication struct {
	BorrowerAddress string       `json:"borrowerAddress"`
	InvoiceData     *InvoiceData `json:"invoiceData"`
	ContactInfo     *ContactInfo `json:"contactInfo,omitempty"`
}

// ApplicationReceipt is returned to the applicant. ApplicationID is a
// wall-clock timestamp string: it carries no uniqueness or durability
// guarantee and must not be used as a key.
type ApplicationReceipt struct {
	ApplicationID string `json:"applicationId"`
	MetadataRef   string `json:"metadataURI"`
}

// LoanApproval is the underwriter's approval payload. InterestRate is whole
// percentage points; DurationSeconds is the loan term.
type LoanApproval struct {
	BorrowerAddress string          `json:"borrowerAddress"`
	Valuation       decimal.Decimal `json:"valuation"`
	Principal       decimal.Decimal `json:"principal"`
	InterestRate    int64           `json:"interest"`
	DurationSeconds int64           `json:"duration"`
	MetadataRef     string          `json:"metadataURI"`
	Notes           string          `json:"underwriterNotes,omitempty"`
}
