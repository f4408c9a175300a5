package chain

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nutcas3/tokenized-credit/internal/credit"
	"github.com/nutcas3/tokenized-credit/internal/faults"
	"github.com/nutcas3/tokenized-credit/internal/units"
)

// =============================================================================
// Loan Ledger Contract
// =============================================================================

// IssueLoan records an approved loan on the ledger and returns the
// transaction hash after confirmation. The signing identity must hold the
// underwriter role; the check runs before submission so a call the contract
// would reject does not burn transaction fees.
func (g *Gateway) IssueLoan(ctx context.Context, borrower string, valuation, principal decimal.Decimal, interestRate, durationSeconds int64, metadataRef string) (string, error) {
	isUnderwriter, err := g.IsUnderwriter(ctx, g.wallet.Address())
	if err != nil {
		return "", err
	}
	if !isUnderwriter {
		return "", faults.NewUnauthorized("signing identity lacks the underwriter role")
	}

	valuationUnits, err := units.ToChainUnits(valuation, units.StableTokenDecimals)
	if err != nil {
		return "", err
	}
	principalUnits, err := units.ToChainUnits(principal, units.StableTokenDecimals)
	if err != nil {
		return "", err
	}

	return g.write(ctx, g.ledger, "issueLoan",
		borrower,
		valuationUnits.String(),
		principalUnits.String(),
		interestRate,
		durationSeconds,
		metadataRef,
	)
}

// RepayLoan settles a loan on the ledger. The stable-token allowance for the
// repayment amount must already be in place or the contract call fails.
func (g *Gateway) RepayLoan(ctx context.Context, loanID int64) (string, error) {
	return g.write(ctx, g.ledger, "repayLoan", loanID)
}

// GetLoan returns one ledger entry with amounts in decimal stable units.
func (g *Gateway) GetLoan(ctx context.Context, loanID int64) (*credit.LoanRecord, error) {
	raw, err := g.read(ctx, g.ledger, "getLoan", loanID)
	if err != nil {
		return nil, err
	}

	// (borrower, principal, valuation, interest, dueDate, repaid, metadataURI)
	fields, err := ParseTuple(raw, 7)
	if err != nil {
		return nil, err
	}

	borrower, err := ParseString(fields[0])
	if err != nil {
		return nil, err
	}
	principal, err := ParseBigInt(fields[1])
	if err != nil {
		return nil, err
	}
	valuation, err := ParseBigInt(fields[2])
	if err != nil {
		return nil, err
	}
	interest, err := ParseInt64(fields[3])
	if err != nil {
		return nil, err
	}
	dueDate, err := ParseInt64(fields[4])
	if err != nil {
		return nil, err
	}
	repaid, err := ParseBool(fields[5])
	if err != nil {
		return nil, err
	}
	metadataRef, err := ParseString(fields[6])
	if err != nil {
		return nil, err
	}

	return &credit.LoanRecord{
		ID:           loanID,
		Borrower:     borrower,
		Principal:    units.ToDecimal(principal, units.StableTokenDecimals),
		Valuation:    units.ToDecimal(valuation, units.StableTokenDecimals),
		InterestRate: interest,
		DueDate:      dueDate,
		Repaid:       repaid,
		MetadataRef:  metadataRef,
	}, nil
}

// GetPoolBalance returns the ledger's stable-token balance.
func (g *Gateway) GetPoolBalance(ctx context.Context) (decimal.Decimal, error) {
	return g.readStableAmount(ctx, g.ledger, "getPoolBalance")
}

// GetLoanCount returns the number of loans ever issued.
func (g *Gateway) GetLoanCount(ctx context.Context) (int64, error) {
	raw, err := g.read(ctx, g.ledger, "loanCounter")
	if err != nil {
		return 0, err
	}
	return ParseInt64(raw)
}

// GetRepaymentAmount returns principal plus accrued interest for a loan,
// computed by the ledger contract.
func (g *Gateway) GetRepaymentAmount(ctx context.Context, loanID int64) (decimal.Decimal, error) {
	return g.readStableAmount(ctx, g.ledger, "calculateRepaymentAmount", loanID)
}

// readStableAmount reads an integer result and normalizes it to decimal
// stable-token units.
func (g *Gateway) readStableAmount(ctx context.Context, to, method string, args ...any) (decimal.Decimal, error) {
	raw, err := g.read(ctx, to, method, args...)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := ParseBigInt(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return units.ToDecimal(v, units.StableTokenDecimals), nil
}
