/*
actions.go - The closed action set accepted by the engine

PURPOSE:
  Every mutation of the aggregate is expressed as one of the action
  variants below. The set is sealed so the transition function in
  engine.go can switch over it exhaustively; there is no generic
  "patch state" escape hatch.

CONTRACT:
  Actions carry fully-formed payloads. The engine never generates ids
  (callers supply them, typically "<prefix>_<unix millis>") and only
  validates what the transition semantics require: existence of the
  id being edited or deleted.

SEE ALSO:
  - engine.go: Reduce, the transition function
  - store.go: Store.Dispatch, the serialized entry point
*/
package farm

import "github.com/shopspring/decimal"

// Action is the sealed input type of the transition function.
type Action interface {
	sealedAction()
}

// --- Farm settings ---

// UpdateFarmName renames the farm.
type UpdateFarmName struct {
	Name string
}

// UpdateFeed partially updates the feed stock singleton. Nil fields
// are left untouched.
type UpdateFeed struct {
	Total            *decimal.Decimal
	DailyConsumption *decimal.Decimal
}

// --- Poultry categories ---

type AddPoultryCategory struct {
	Category PoultryCategory
}

type UpdatePoultryCategory struct {
	Category PoultryCategory
}

// DeletePoultryCategory removes a category. Records referencing it are
// left in place with a dangling category id; see engine.go.
type DeletePoultryCategory struct {
	ID string
}

// --- Records ---

type AddRecord struct {
	Record Record
}

// EditRecord replaces the record with the same id, reverting the
// original's side effect and applying the new one.
type EditRecord struct {
	Record Record
}

type DeleteRecord struct {
	ID string
}

// --- Calendar tasks ---

type AddTask struct {
	Task CalendarTask
}

type UpdateTask struct {
	Task CalendarTask
}

type DeleteTask struct {
	ID string
}

// --- Suppliers ---

type AddSupplier struct {
	Supplier Supplier
}

type UpdateSupplier struct {
	Supplier Supplier
}

// DeleteSupplier removes a supplier AND all tab book transactions that
// reference it. This cascade is asymmetric with category deletion on
// purpose; see engine.go.
type DeleteSupplier struct {
	ID string
}

// --- Tab book transactions ---

type AddTransaction struct {
	Transaction TabBookTransaction
}

type EditTransaction struct {
	Transaction TabBookTransaction
}

type DeleteTransaction struct {
	ID string
}

// BulkAddTransactions commits a validated import batch in one
// transition. The final state is identical to adding each transaction
// individually in batch order.
type BulkAddTransactions struct {
	Transactions []TabBookTransaction
}

// --- Whole-state replacement ---

// ReplaceState swaps in a complete aggregate, trusting the caller's
// validation wholesale. Used by backup restore / JSON import.
type ReplaceState struct {
	State AppState
}

func (UpdateFarmName) sealedAction()        {}
func (UpdateFeed) sealedAction()            {}
func (AddPoultryCategory) sealedAction()    {}
func (UpdatePoultryCategory) sealedAction() {}
func (DeletePoultryCategory) sealedAction() {}
func (AddRecord) sealedAction()             {}
func (EditRecord) sealedAction()            {}
func (DeleteRecord) sealedAction()          {}
func (AddTask) sealedAction()               {}
func (UpdateTask) sealedAction()            {}
func (DeleteTask) sealedAction()            {}
func (AddSupplier) sealedAction()           {}
func (UpdateSupplier) sealedAction()        {}
func (DeleteSupplier) sealedAction()        {}
func (AddTransaction) sealedAction()        {}
func (EditTransaction) sealedAction()       {}
func (DeleteTransaction) sealedAction()     {}
func (BulkAddTransactions) sealedAction()   {}
func (ReplaceState) sealedAction()          {}

// ActionName returns a stable label for an action, used for logging
// and metrics.
func ActionName(a Action) string {
	switch a.(type) {
	case UpdateFarmName:
		return "update_farm_name"
	case UpdateFeed:
		return "update_feed"
	case AddPoultryCategory:
		return "add_poultry_category"
	case UpdatePoultryCategory:
		return "update_poultry_category"
	case DeletePoultryCategory:
		return "delete_poultry_category"
	case AddRecord:
		return "add_record"
	case EditRecord:
		return "edit_record"
	case DeleteRecord:
		return "delete_record"
	case AddTask:
		return "add_task"
	case UpdateTask:
		return "update_task"
	case DeleteTask:
		return "delete_task"
	case AddSupplier:
		return "add_supplier"
	case UpdateSupplier:
		return "update_supplier"
	case DeleteSupplier:
		return "delete_supplier"
	case AddTransaction:
		return "add_transaction"
	case EditTransaction:
		return "edit_transaction"
	case DeleteTransaction:
		return "delete_transaction"
	case BulkAddTransactions:
		return "bulk_add_transactions"
	case ReplaceState:
		return "replace_state"
	default:
		return "unknown"
	}
}
