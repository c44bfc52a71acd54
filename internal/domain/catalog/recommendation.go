package catalog

import (
	"github.com/Esyonel/vural-enerji-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ValidateBillAmount rejects negative and out-of-range bills
func ValidateBillAmount(bill decimal.Decimal) error {
	if !shared.AmountInRange(bill) {
		return shared.NewValidationError("Bill amount is out of range")
	}
	if bill.IsNegative() {
		return shared.NewValidationError("Bill amount cannot be negative")
	}
	return nil
}

// Candidates returns the active packages whose bill band contains bill
func Candidates(packages []SolarPackage, bill decimal.Decimal) []SolarPackage {
	out := make([]SolarPackage, 0, len(packages))
	for _, p := range packages {
		if p.IsActive() && p.Covers(bill) {
			out = append(out, p)
		}
	}
	return out
}

// SelectBestPackage picks the candidate whose band midpoint is closest to bill.
// Equal distances are broken by lower MinBill, then earlier CreatedAt, then lower ID,
// so the result never depends on input order. The boolean is false when no active
// package covers the bill.
func SelectBestPackage(packages []SolarPackage, bill decimal.Decimal) (*SolarPackage, bool) {
	var (
		best     *SolarPackage
		bestDist decimal.Decimal
	)
	for i := range packages {
		p := &packages[i]
		if !p.IsActive() || !p.Covers(bill) {
			continue
		}
		dist := p.DistanceFrom(bill)
		if best == nil || preferOver(p, dist, best, bestDist) {
			best = p
			bestDist = dist
		}
	}
	if best == nil {
		return nil, false
	}
	selected := *best
	return &selected, true
}

func preferOver(p *SolarPackage, dist decimal.Decimal, cur *SolarPackage, curDist decimal.Decimal) bool {
	if c := dist.Cmp(curDist); c != 0 {
		return c < 0
	}
	if c := p.MinBill.Cmp(cur.MinBill); c != 0 {
		return c < 0
	}
	if !p.CreatedAt.Equal(cur.CreatedAt) {
		return p.CreatedAt.Before(cur.CreatedAt)
	}
	return p.ID.String() < cur.ID.String()
}
