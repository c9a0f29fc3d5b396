/*
engine.go - The transition function

PURPOSE:
  Reduce is the single state-transition function: given the current
  aggregate and an action, it returns the next aggregate. It is pure —
  no I/O, no mutation of the input — and total: every action succeeds,
  defaulting to identity when an edit or delete names a missing id.

CRITICAL INVARIANT:
  Every record's recorded side effect must exactly match what was last
  applied to the aggregate. Edits and deletes therefore REVERT the
  original's side effect before applying the replacement's, looked up
  against the record as it currently exists in the aggregate — never
  against the payload the caller remembers.

EDIT SUBTLETIES:
  - A count change that moves to a different category reverts against
    the OLD category id and applies against the NEW one.
  - A tab book transaction that moves to a different supplier reverts
    the old amount from the old supplier and applies the new amount to
    the new supplier. Never a net delta against one supplier.

DELETION ASYMMETRY:
  Deleting a supplier cascades: its transactions are removed with it
  (their balance lived on the supplier, so nothing needs reverting).
  Deleting a category does NOT cascade; historical count-change records
  keep their dangling category id. Changing that would rewrite what the
  history means, so the asymmetry is kept.

SEE ALSO:
  - effects.go: The apply/revert arithmetic
  - store.go: Dispatch, which serializes callers and persists
*/
package farm

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Reduce returns the next aggregate for (state, action).
//
// The input state is never mutated. When an edit or delete misses, the
// returned state is the input unchanged and err wraps ErrNotFound; the
// dashboard treats that as a non-event, but callers can observe it.
func Reduce(state AppState, action Action) (AppState, error) {
	next := state.Clone()

	switch a := action.(type) {

	// --- Farm settings ---

	case UpdateFarmName:
		next.FarmName = a.Name
		return next, nil

	case UpdateFeed:
		if a.Total != nil {
			next.Feed.Total = *a.Total
		}
		if a.DailyConsumption != nil {
			next.Feed.DailyConsumption = *a.DailyConsumption
		}
		return next, nil

	// --- Poultry categories ---

	case AddPoultryCategory:
		next.Poultry = append(next.Poultry, a.Category)
		return next, nil

	case UpdatePoultryCategory:
		for i := range next.Poultry {
			if next.Poultry[i].ID == a.Category.ID {
				next.Poultry[i] = a.Category
				return next, nil
			}
		}
		return state, notFound("category", a.Category.ID)

	case DeletePoultryCategory:
		for i := range next.Poultry {
			if next.Poultry[i].ID == a.ID {
				next.Poultry = append(next.Poultry[:i], next.Poultry[i+1:]...)
				return next, nil
			}
		}
		return state, notFound("category", a.ID)

	// --- Records ---

	case AddRecord:
		applyRecordEffect(&next, a.Record)
		next.Records = insertRecord(next.Records, a.Record)
		return next, nil

	case EditRecord:
		idx := findRecord(next.Records, a.Record.RecordID())
		if idx < 0 {
			return state, notFound("record", a.Record.RecordID())
		}
		revertRecordEffect(&next, next.Records[idx])
		applyRecordEffect(&next, a.Record)
		next.Records[idx] = a.Record
		return next, nil

	case DeleteRecord:
		idx := findRecord(next.Records, a.ID)
		if idx < 0 {
			return state, notFound("record", a.ID)
		}
		revertRecordEffect(&next, next.Records[idx])
		next.Records = append(next.Records[:idx], next.Records[idx+1:]...)
		return next, nil

	// --- Calendar tasks ---

	case AddTask:
		next.Tasks = append(next.Tasks, a.Task)
		sort.SliceStable(next.Tasks, func(i, j int) bool {
			return next.Tasks[i].Date < next.Tasks[j].Date
		})
		return next, nil

	case UpdateTask:
		for i := range next.Tasks {
			if next.Tasks[i].ID == a.Task.ID {
				next.Tasks[i] = a.Task
				return next, nil
			}
		}
		return state, notFound("task", a.Task.ID)

	case DeleteTask:
		for i := range next.Tasks {
			if next.Tasks[i].ID == a.ID {
				next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
				return next, nil
			}
		}
		return state, notFound("task", a.ID)

	// --- Suppliers ---

	case AddSupplier:
		next.Suppliers = append(next.Suppliers, a.Supplier)
		return next, nil

	case UpdateSupplier:
		for i := range next.Suppliers {
			if next.Suppliers[i].ID == a.Supplier.ID {
				next.Suppliers[i] = a.Supplier
				return next, nil
			}
		}
		return state, notFound("supplier", a.Supplier.ID)

	case DeleteSupplier:
		found := false
		for i := range next.Suppliers {
			if next.Suppliers[i].ID == a.ID {
				next.Suppliers = append(next.Suppliers[:i], next.Suppliers[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return state, notFound("supplier", a.ID)
		}
		kept := next.TabTransactions[:0]
		for _, tx := range next.TabTransactions {
			if tx.SupplierID != a.ID {
				kept = append(kept, tx)
			}
		}
		next.TabTransactions = kept
		return next, nil

	// --- Tab book transactions ---

	case AddTransaction:
		adjustSupplierBalance(&next, a.Transaction.SupplierID, a.Transaction.Amount)
		next.TabTransactions = insertTransaction(next.TabTransactions, a.Transaction)
		return next, nil

	case EditTransaction:
		idx := findTransaction(next.TabTransactions, a.Transaction.ID)
		if idx < 0 {
			return state, notFound("transaction", a.Transaction.ID)
		}
		old := next.TabTransactions[idx]
		adjustSupplierBalance(&next, old.SupplierID, old.Amount.Neg())
		adjustSupplierBalance(&next, a.Transaction.SupplierID, a.Transaction.Amount)
		next.TabTransactions[idx] = a.Transaction
		return next, nil

	case DeleteTransaction:
		idx := findTransaction(next.TabTransactions, a.ID)
		if idx < 0 {
			return state, notFound("transaction", a.ID)
		}
		old := next.TabTransactions[idx]
		adjustSupplierBalance(&next, old.SupplierID, old.Amount.Neg())
		next.TabTransactions = append(next.TabTransactions[:idx], next.TabTransactions[idx+1:]...)
		return next, nil

	case BulkAddTransactions:
		// Per-supplier net delta, applied once each. Must land on the
		// same final state as adding the batch one by one.
		deltas := make(map[string]decimal.Decimal, len(a.Transactions))
		order := make([]string, 0, len(a.Transactions))
		for _, tx := range a.Transactions {
			if _, ok := deltas[tx.SupplierID]; !ok {
				order = append(order, tx.SupplierID)
			}
			deltas[tx.SupplierID] = deltas[tx.SupplierID].Add(tx.Amount)
		}
		for _, supplierID := range order {
			adjustSupplierBalance(&next, supplierID, deltas[supplierID])
		}
		next.TabTransactions = append(append([]TabBookTransaction{}, a.Transactions...), next.TabTransactions...)
		sortTransactionsDesc(next.TabTransactions)
		return next, nil

	// --- Whole-state replacement ---

	case ReplaceState:
		// Trusts the caller wholesale; validation happens at the API
		// boundary before the action is dispatched.
		return a.State.Clone(), nil
	}

	return state, nil
}

// =============================================================================
// ORDERING HELPERS
// =============================================================================
// Dates are YYYY-MM-DD strings, so lexical order is chronological.
// Sorting is stable: same-day entries keep their insertion order.

func insertRecord(records []Record, r Record) []Record {
	records = append([]Record{r}, records...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordDate() > records[j].RecordDate()
	})
	return records
}

func insertTransaction(txs []TabBookTransaction, tx TabBookTransaction) []TabBookTransaction {
	txs = append([]TabBookTransaction{tx}, txs...)
	sortTransactionsDesc(txs)
	return txs
}

func sortTransactionsDesc(txs []TabBookTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date > txs[j].Date
	})
}

func findRecord(records []Record, id string) int {
	for i, r := range records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

func findTransaction(txs []TabBookTransaction, id string) int {
	for i, tx := range txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
