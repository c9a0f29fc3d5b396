/*
Package farm contains the core state engine for the farm dashboard.

PURPOSE:
  This package owns the single aggregate (AppState) that holds every
  entity the dashboard tracks: poultry categories, feed stock, the
  record log, calendar tasks, suppliers, and the supplier ledger
  ("tab book"). All mutation goes through one pure transition
  function (engine.go) so that derived fields — feed total, category
  counts, supplier balances — can never drift from the records that
  justify them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: a closed sum type over the three record kinds
  - PoultryCategory / FeedStock: inventory entities
  - Supplier / TabBookTransaction: the tab book ledger
  - CalendarTask: standalone scheduling entity

DESIGN PRINCIPLES:
  1. Value semantics: every entity is a plain value; the engine never
     mutates an input aggregate.
  2. Precision: decimal.Decimal for kilograms and currency, plain
     ints for head counts.
  3. Closed unions: Record and Action are sealed interfaces, so the
     transition function's type switches are exhaustive.
  4. Derived fields carry no authority: balances and counts are kept
     consistent by the engine, not trusted from callers.

SEE ALSO:
  - actions.go: The closed action set
  - effects.go: Apply/revert rules for derived fields
  - engine.go: The transition function
*/
package farm

import "github.com/shopspring/decimal"

// =============================================================================
// INVENTORY ENTITIES
// =============================================================================

// PoultryCategory is one inventory bucket (e.g. Broilers, Layers).
// Count is adjusted directly or through PoultryCountChangeRecord side
// effects, and never goes below zero.
type PoultryCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FeedStock is a singleton: total stock on hand and the estimated
// daily consumption, both in kilograms.
type FeedStock struct {
	Total            decimal.Decimal `json:"total"`
	DailyConsumption decimal.Decimal `json:"dailyConsumption"`
}

// =============================================================================
// RECORD - Closed sum over the three record kinds
// =============================================================================

// RecordType tags a record variant. The string values double as the
// persistence format's discriminator, so they must not change.
type RecordType string

const (
	RecordFeedPurchase       RecordType = "Feed Purchase"
	RecordVaccination        RecordType = "Vaccination"
	RecordPoultryCountChange RecordType = "Poultry Count Change"
)

// Record is the tagged union over farm records. It is sealed: only the
// three variants in this file implement it, which keeps the engine's
// type switches exhaustive.
type Record interface {
	RecordID() string
	RecordDate() string
	Kind() RecordType

	sealedRecord()
}

// FeedPurchaseRecord logs a feed purchase.
// Side effect: FeedStock.Total increases by Amount.
type FeedPurchaseRecord struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Supplier string          `json:"supplier"`
	Amount   decimal.Decimal `json:"amount"` // kg
	Cost     decimal.Decimal `json:"cost"`
}

func (r FeedPurchaseRecord) RecordID() string   { return r.ID }
func (r FeedPurchaseRecord) RecordDate() string { return r.Date }
func (r FeedPurchaseRecord) Kind() RecordType   { return RecordFeedPurchase }
func (r FeedPurchaseRecord) sealedRecord()      {}

// VaccinationRecord is informational only: no derived side effect.
type VaccinationRecord struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	VaccineType     string `json:"vaccineType"`
	BirdsVaccinated int    `json:"birdsVaccinated"`
	NextDueDate     string `json:"nextDueDate"`
}

func (r VaccinationRecord) RecordID() string   { return r.ID }
func (r VaccinationRecord) RecordDate() string { return r.Date }
func (r VaccinationRecord) Kind() RecordType   { return RecordVaccination }
func (r VaccinationRecord) sealedRecord()      {}

// PoultryChangeType says whether a count change adds or removes birds.
type PoultryChangeType string

const (
	ChangeAddition  PoultryChangeType = "addition"
	ChangeReduction PoultryChangeType = "reduction"
)

// PoultryChangeReason is the recorded cause of a count change.
type PoultryChangeReason string

const (
	ReasonHatching PoultryChangeReason = "hatching"
	ReasonPurchase PoultryChangeReason = "purchase"
	ReasonSold     PoultryChangeReason = "sold"
	ReasonDied     PoultryChangeReason = "died"
	ReasonEaten    PoultryChangeReason = "eaten"
)

// PoultryCountChangeRecord adjusts a category's count.
// Side effect: Count += ChangeAmount for additions, -= for reductions,
// floored at zero.
//
// PoultryCategoryName is denormalized at creation time for display and
// is deliberately NOT kept in sync when the category is renamed later.
type PoultryCountChangeRecord struct {
	ID                  string              `json:"id"`
	Date                string              `json:"date"`
	PoultryCategoryID   string              `json:"poultryCategoryId"`
	PoultryCategoryName string              `json:"poultryCategoryName"`
	ChangeType          PoultryChangeType   `json:"changeType"`
	Reason              PoultryChangeReason `json:"reason"`
	ChangeAmount        int                 `json:"changeAmount"` // always >= 0
}

func (r PoultryCountChangeRecord) RecordID() string   { return r.ID }
func (r PoultryCountChangeRecord) RecordDate() string { return r.Date }
func (r PoultryCountChangeRecord) Kind() RecordType   { return RecordPoultryCountChange }
func (r PoultryCountChangeRecord) sealedRecord()      {}

// =============================================================================
// CALENDAR
// =============================================================================

// CalendarTask is an independent scheduling entity. It has no derived
// coupling to other entities; the reminder scheduler only reads it.
type CalendarTask struct {
	ID          string `json:"id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Reminder    string `json:"reminder,omitempty"`
}

// =============================================================================
// TAB BOOK - Suppliers and the signed ledger
// =============================================================================

// Supplier is a tab book counterparty. Balance is entirely derived:
// it always equals the sum of Amount over the transactions that
// currently reference this supplier. Positive means the farm owes the
// supplier, negative means the supplier owes the farm.
type Supplier struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// TabBookTransaction is one signed ledger line.
// Side effect: Supplier.Balance += Amount.
type TabBookTransaction struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplierId"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}
