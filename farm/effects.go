/*
effects.go - Derived-field maintenance rules

PURPOSE:
  Each record or transaction kind with a defined side effect gets a
  single deterministic arithmetic apply, and a revert that is its
  exact arithmetic inverse:

    Feed purchase                feed.Total += Amount   / -= Amount
    Count change (addition)      count += ChangeAmount  / -= ChangeAmount
    Count change (reduction)     count -= ChangeAmount  / += ChangeAmount
    Tab book transaction         balance += Amount      / -= Amount
    Vaccination                  (none)

  Category counts are clamped at zero on BOTH apply and revert.
  Because of the clamp, revert-then-reapply is not always loss-less:
  reducing a count of 5 by 10 clamps to 0, and reverting that record
  restores 10, not 5. That loss is documented dashboard behavior and
  is preserved here exactly.

  Balances and feed totals are unclamped.

SEE ALSO:
  - engine.go: Calls these on add/edit/delete
*/
package farm

import "github.com/shopspring/decimal"

// applyRecordEffect applies r's side effect to s in place.
// s must already be a private copy owned by the caller.
func applyRecordEffect(s *AppState, r Record) {
	switch rec := r.(type) {
	case FeedPurchaseRecord:
		s.Feed.Total = s.Feed.Total.Add(rec.Amount)
	case PoultryCountChangeRecord:
		adjustCategoryCount(s, rec.PoultryCategoryID, signedChange(rec))
	case VaccinationRecord:
		// Informational only.
	}
}

// revertRecordEffect undoes r's side effect on s in place.
func revertRecordEffect(s *AppState, r Record) {
	switch rec := r.(type) {
	case FeedPurchaseRecord:
		s.Feed.Total = s.Feed.Total.Sub(rec.Amount)
	case PoultryCountChangeRecord:
		adjustCategoryCount(s, rec.PoultryCategoryID, -signedChange(rec))
	case VaccinationRecord:
	}
}

// signedChange converts a count change record into a signed head delta.
func signedChange(rec PoultryCountChangeRecord) int {
	if rec.ChangeType == ChangeAddition {
		return rec.ChangeAmount
	}
	return -rec.ChangeAmount
}

// adjustCategoryCount shifts a category's count by delta, clamped at
// zero. A missing category id is a silent no-op: deleting a category
// leaves historical records dangling, and their later edits or deletes
// must not fail.
func adjustCategoryCount(s *AppState, categoryID string, delta int) {
	for i := range s.Poultry {
		if s.Poultry[i].ID != categoryID {
			continue
		}
		count := s.Poultry[i].Count + delta
		if count < 0 {
			count = 0
		}
		s.Poultry[i].Count = count
		return
	}
}

// adjustSupplierBalance shifts a supplier's derived balance by delta.
// Unclamped: balances go negative when the supplier owes the farm.
// A missing supplier id is a silent no-op, mirroring category counts.
func adjustSupplierBalance(s *AppState, supplierID string, delta decimal.Decimal) {
	for i := range s.Suppliers {
		if s.Suppliers[i].ID != supplierID {
			continue
		}
		s.Suppliers[i].Balance = s.Suppliers[i].Balance.Add(delta)
		return
	}
}
