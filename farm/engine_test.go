package farm_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/greenacre/farmbook/farm"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testState() farm.AppState {
	return farm.AppState{
		FarmName: "Test Farm",
		Poultry: []farm.PoultryCategory{
			{ID: "c1", Name: "Broilers", Count: 100},
			{ID: "c2", Name: "Layers", Count: 50},
		},
		Feed: farm.FeedStock{Total: dec(2500), DailyConsumption: dec(120)},
		Suppliers: []farm.Supplier{
			{ID: "s1", Name: "FarmPro Feeds", Balance: decimal.Zero},
			{ID: "s2", Name: "Local Grains Co-op", Balance: decimal.Zero},
		},
	}
}

func mustReduce(t *testing.T, s farm.AppState, a farm.Action) farm.AppState {
	t.Helper()
	next, err := farm.Reduce(s, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return next
}

func countOf(t *testing.T, s farm.AppState, categoryID string) int {
	t.Helper()
	for _, c := range s.Poultry {
		if c.ID == categoryID {
			return c.Count
		}
	}
	t.Fatalf("category %q not in state", categoryID)
	return 0
}

func balanceOf(t *testing.T, s farm.AppState, supplierID string) decimal.Decimal {
	t.Helper()
	for _, sup := range s.Suppliers {
		if sup.ID == supplierID {
			return sup.Balance
		}
	}
	t.Fatalf("supplier %q not in state", supplierID)
	return decimal.Zero
}

// stateEqual compares two aggregates through the wire codec, which
// sidesteps decimal's multiple internal representations of one value.
func stateEqual(t *testing.T, a, b farm.AppState) bool {
	t.Helper()
	aj, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(aj) == string(bj)
}

func feedPurchase(id, date string, amount int64) farm.FeedPurchaseRecord {
	return farm.FeedPurchaseRecord{
		ID:       id,
		Date:     date,
		Supplier: "FarmPro Feeds",
		Amount:   dec(amount),
		Cost:     dec(amount / 2),
	}
}

func countChange(id, categoryID string, changeType farm.PoultryChangeType, amount int) farm.PoultryCountChangeRecord {
	reason := farm.ReasonPurchase
	if changeType == farm.ChangeReduction {
		reason = farm.ReasonSold
	}
	return farm.PoultryCountChangeRecord{
		ID:                  id,
		Date:                "2024-05-10",
		PoultryCategoryID:   categoryID,
		PoultryCategoryName: "Broilers",
		ChangeType:          changeType,
		Reason:              reason,
		ChangeAmount:        amount,
	}
}

func transaction(id, supplierID string, amount int64) farm.TabBookTransaction {
	return farm.TabBookTransaction{
		ID:          id,
		SupplierID:  supplierID,
		Date:        "2024-05-10",
		Description: "feed bags",
		Amount:      dec(amount),
	}
}

// =============================================================================
// FEED PURCHASE SIDE EFFECTS
// =============================================================================

func TestAddThenDeleteFeedPurchase_RestoresFeedTotal(t *testing.T) {
	// GIVEN: feed total 2500
	// WHEN: adding a purchase of 1000, then deleting that record
	// THEN: total goes 2500 -> 3500 -> 2500

	state := testState()

	state = mustReduce(t, state, farm.AddRecord{Record: feedPurchase("f1", "2024-05-10", 1000)})
	if !state.Feed.Total.Equal(dec(3500)) {
		t.Fatalf("after add: feed total = %v, want 3500", state.Feed.Total)
	}

	state = mustReduce(t, state, farm.DeleteRecord{ID: "f1"})
	if !state.Feed.Total.Equal(dec(2500)) {
		t.Errorf("after delete: feed total = %v, want 2500", state.Feed.Total)
	}
	if len(state.Records) != 0 {
		t.Errorf("record not removed: %d left", len(state.Records))
	}
}

func TestEditFeedPurchase_RevertsOldAmountBeforeApplyingNew(t *testing.T) {
	// GIVEN: feed total 2500 plus a recorded purchase of 1000 (total 3500)
	// WHEN: editing the purchase down to 400
	// THEN: total is 2900, not a double-application

	state := mustReduce(t, testState(), farm.AddRecord{Record: feedPurchase("f1", "2024-05-10", 1000)})

	edited := feedPurchase("f1", "2024-05-10", 400)
	state = mustReduce(t, state, farm.EditRecord{Record: edited})

	if !state.Feed.Total.Equal(dec(2900)) {
		t.Errorf("feed total = %v, want 2900", state.Feed.Total)
	}
}

func TestFeedTotalConsistency_InterleavedWithDirectUpdates(t *testing.T) {
	// Invariant: total == initial + sum(current purchase amounts) + direct adjustments.

	state := testState() // total 2500

	state = mustReduce(t, state, farm.AddRecord{Record: feedPurchase("f1", "2024-05-01", 1000)})
	newTotal := state.Feed.Total.Add(dec(500)) // direct top-up of 500
	state = mustReduce(t, state, farm.UpdateFeed{Total: &newTotal})
	state = mustReduce(t, state, farm.AddRecord{Record: feedPurchase("f2", "2024-05-02", 200)})
	state = mustReduce(t, state, farm.DeleteRecord{ID: "f1"})

	// 2500 + 500 direct + 200 remaining purchase
	if !state.Feed.Total.Equal(dec(3200)) {
		t.Errorf("feed total = %v, want 3200", state.Feed.Total)
	}
}

// =============================================================================
// POULTRY COUNT CHANGES
// =============================================================================

func TestCountChange_EditReappliesAgainstReducedBase(t *testing.T) {
	// GIVEN: category count 100 and a reduction of 30 (count 70)
	// WHEN: editing the record's amount to 50
	// THEN: count is 50 — revert to 100, then reduce by 50

	state := mustReduce(t, testState(), farm.AddRecord{
		Record: countChange("r1", "c1", farm.ChangeReduction, 30),
	})
	if got := countOf(t, state, "c1"); got != 70 {
		t.Fatalf("after add: count = %d, want 70", got)
	}

	state = mustReduce(t, state, farm.EditRecord{
		Record: countChange("r1", "c1", farm.ChangeReduction, 50),
	})
	if got := countOf(t, state, "c1"); got != 50 {
		t.Errorf("after edit: count = %d, want 50", got)
	}
}

func TestCountChange_EditMovesTargetCategory(t *testing.T) {
	// GIVEN: an addition of 20 applied to c1
	// WHEN: the record is edited to target c2
	// THEN: c1 gets its 20 back, c2 gains 20

	state := mustReduce(t, testState(), farm.AddRecord{
		Record: countChange("r1", "c1", farm.ChangeAddition, 20),
	})
	if got := countOf(t, state, "c1"); got != 120 {
		t.Fatalf("after add: c1 = %d, want 120", got)
	}

	state = mustReduce(t, state, farm.EditRecord{
		Record: countChange("r1", "c2", farm.ChangeAddition, 20),
	})
	if got := countOf(t, state, "c1"); got != 100 {
		t.Errorf("c1 = %d, want 100", got)
	}
	if got := countOf(t, state, "c2"); got != 70 {
		t.Errorf("c2 = %d, want 70", got)
	}
}

func TestClampingIsLossy_DeleteAfterClampedReduction(t *testing.T) {
	// GIVEN: category count 5
	// WHEN: reducing by 10 (clamps to 0), then deleting that record
	// THEN: count is 10, NOT 5 — the clamp loss is documented behavior

	state := testState()
	state.Poultry[0].Count = 5

	state = mustReduce(t, state, farm.AddRecord{
		Record: countChange("r1", "c1", farm.ChangeReduction, 10),
	})
	if got := countOf(t, state, "c1"); got != 0 {
		t.Fatalf("after clamped reduction: count = %d, want 0", got)
	}

	state = mustReduce(t, state, farm.DeleteRecord{ID: "r1"})
	if got := countOf(t, state, "c1"); got != 10 {
		t.Errorf("after revert: count = %d, want 10 (clamp loss preserved)", got)
	}
}

func TestReversal_NoClamp_IsExactInverse(t *testing.T) {
	// With count well above the change amount, add-then-delete is the
	// identity in both directions.

	for _, changeType := range []farm.PoultryChangeType{farm.ChangeAddition, farm.ChangeReduction} {
		start := testState()
		mid := mustReduce(t, start, farm.AddRecord{Record: countChange("r1", "c1", changeType, 30)})
		end := mustReduce(t, mid, farm.DeleteRecord{ID: "r1"})

		if got := countOf(t, end, "c1"); got != 100 {
			t.Errorf("%s: count = %d, want 100", changeType, got)
		}
	}
}

func TestVaccinationRecord_HasNoSideEffect(t *testing.T) {
	state := testState()
	vax := farm.VaccinationRecord{
		ID: "v1", Date: "2024-05-10",
		VaccineType: "Newcastle B1", BirdsVaccinated: 450, NextDueDate: "2024-06-10",
	}

	next := mustReduce(t, state, farm.AddRecord{Record: vax})

	if !next.Feed.Total.Equal(state.Feed.Total) {
		t.Errorf("feed total changed: %v", next.Feed.Total)
	}
	if countOf(t, next, "c1") != 100 || countOf(t, next, "c2") != 50 {
		t.Errorf("counts changed: %+v", next.Poultry)
	}
	if len(next.Records) != 1 {
		t.Errorf("record not stored")
	}
}

// =============================================================================
// RECORD ORDERING
// =============================================================================

func TestRecords_SortedByDateDescending(t *testing.T) {
	state := testState()
	state = mustReduce(t, state, farm.AddRecord{Record: feedPurchase("f1", "2024-05-10", 10)})
	state = mustReduce(t, state, farm.AddRecord{Record: feedPurchase("f2", "2024-05-20", 10)})
	state = mustReduce(t, state, farm.AddRecord{Record: feedPurchase("f3", "2024-05-15", 10)})

	got := []string{}
	for _, r := range state.Records {
		got = append(got, r.RecordID())
	}
	want := []string{"f2", "f3", "f1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record order = %v, want %v", got, want)
		}
	}
}

func TestTasks_SortedByDateAscending(t *testing.T) {
	state := testState()
	state = mustReduce(t, state, farm.AddTask{Task: farm.CalendarTask{ID: "t1", Date: "2024-05-20", Title: "later"}})
	state = mustReduce(t, state, farm.AddTask{Task: farm.CalendarTask{ID: "t2", Date: "2024-05-10", Title: "sooner"}})

	if state.Tasks[0].ID != "t2" || state.Tasks[1].ID != "t1" {
		t.Errorf("task order = %v", state.Tasks)
	}
}

// =============================================================================
// NOT-FOUND IS A NO-OP
// =============================================================================

func TestNotFound_LeavesStateUntouched(t *testing.T) {
	state := testState()

	actions := []farm.Action{
		farm.EditRecord{Record: feedPurchase("ghost", "2024-05-10", 10)},
		farm.DeleteRecord{ID: "ghost"},
		farm.UpdatePoultryCategory{Category: farm.PoultryCategory{ID: "ghost"}},
		farm.DeletePoultryCategory{ID: "ghost"},
		farm.UpdateTask{Task: farm.CalendarTask{ID: "ghost"}},
		farm.DeleteTask{ID: "ghost"},
		farm.UpdateSupplier{Supplier: farm.Supplier{ID: "ghost"}},
		farm.DeleteSupplier{ID: "ghost"},
		farm.EditTransaction{Transaction: transaction("ghost", "s1", 10)},
		farm.DeleteTransaction{ID: "ghost"},
	}

	for _, action := range actions {
		next, err := farm.Reduce(state, action)
		if err == nil {
			t.Errorf("%s: expected not-found error", farm.ActionName(action))
			continue
		}
		if !stateEqual(t, state, next) {
			t.Errorf("%s: state changed on missing id", farm.ActionName(action))
		}
	}
}

func TestReduce_NeverMutatesInput(t *testing.T) {
	state := testState()
	before, _ := json.Marshal(state)

	mustReduce(t, state, farm.AddRecord{Record: countChange("r1", "c1", farm.ChangeReduction, 30)})
	mustReduce(t, state, farm.AddTransaction{Transaction: transaction("tx1", "s1", 200)})
	mustReduce(t, state, farm.DeleteSupplier{ID: "s1"})

	after, _ := json.Marshal(state)
	if string(before) != string(after) {
		t.Errorf("input state was mutated")
	}
}

// =============================================================================
// TAB BOOK
// =============================================================================

func TestTransactionLifecycle_BalanceTracksLedger(t *testing.T) {
	// Invariant: balance always equals the sum of amounts currently
	// referencing the supplier.

	state := testState()

	state = mustReduce(t, state, farm.AddTransaction{Transaction: transaction("tx1", "s1", 200)})
	state = mustReduce(t, state, farm.AddTransaction{Transaction: transaction("tx2", "s1", -50)})
	if got := balanceOf(t, state, "s1"); !got.Equal(dec(150)) {
		t.Fatalf("balance = %v, want 150", got)
	}

	state = mustReduce(t, state, farm.EditTransaction{Transaction: transaction("tx1", "s1", 300)})
	if got := balanceOf(t, state, "s1"); !got.Equal(dec(250)) {
		t.Fatalf("after edit: balance = %v, want 250", got)
	}

	state = mustReduce(t, state, farm.DeleteTransaction{ID: "tx2"})
	if got := balanceOf(t, state, "s1"); !got.Equal(dec(300)) {
		t.Errorf("after delete: balance = %v, want 300", got)
	}
}

func TestEditTransaction_SupplierReassignmentMovesFullAmount(t *testing.T) {
	// GIVEN: tx of 200 on s1
	// WHEN: editing it to target s2
	// THEN: s1 back to 0, s2 at 200 — full reassignment, not a delta

	state := mustReduce(t, testState(), farm.AddTransaction{Transaction: transaction("tx1", "s1", 200)})

	state = mustReduce(t, state, farm.EditTransaction{Transaction: transaction("tx1", "s2", 200)})

	if got := balanceOf(t, state, "s1"); !got.Equal(decimal.Zero) {
		t.Errorf("s1 balance = %v, want 0", got)
	}
	if got := balanceOf(t, state, "s2"); !got.Equal(dec(200)) {
		t.Errorf("s2 balance = %v, want 200", got)
	}
}

func TestDeleteSupplier_CascadesTransactions(t *testing.T) {
	// Supplier deletion removes its ledger lines; other suppliers keep
	// theirs. This cascade is asymmetric with category deletion.

	state := testState()
	state = mustReduce(t, state, farm.AddTransaction{Transaction: transaction("tx1", "s1", 200)})
	state = mustReduce(t, state, farm.AddTransaction{Transaction: transaction("tx2", "s2", 75)})

	state = mustReduce(t, state, farm.DeleteSupplier{ID: "s1"})

	if len(state.Suppliers) != 1 || state.Suppliers[0].ID != "s2" {
		t.Fatalf("suppliers = %+v", state.Suppliers)
	}
	if len(state.TabTransactions) != 1 || state.TabTransactions[0].ID != "tx2" {
		t.Errorf("transactions = %+v", state.TabTransactions)
	}
}

func TestDeleteCategory_DoesNotCascadeRecords(t *testing.T) {
	// Category deletion leaves historical records dangling, and later
	// deletion of such a record must not fail or touch other counts.

	state := mustReduce(t, testState(), farm.AddRecord{
		Record: countChange("r1", "c1", farm.ChangeAddition, 20),
	})

	state = mustReduce(t, state, farm.DeletePoultryCategory{ID: "c1"})
	if len(state.Records) != 1 {
		t.Fatalf("record cascade-deleted with category")
	}

	state = mustReduce(t, state, farm.DeleteRecord{ID: "r1"})
	if len(state.Records) != 0 {
		t.Errorf("dangling record not deletable")
	}
	if got := countOf(t, state, "c2"); got != 50 {
		t.Errorf("unrelated category touched: c2 = %d", got)
	}
}

func TestBulkAdd_EquivalentToSequentialAdds(t *testing.T) {
	batch := []farm.TabBookTransaction{
		transaction("b1", "s1", 100),
		transaction("b2", "s2", -40),
		transaction("b3", "s1", 60),
	}

	bulk := mustReduce(t, testState(), farm.BulkAddTransactions{Transactions: batch})

	sequential := testState()
	for _, tx := range batch {
		sequential = mustReduce(t, sequential, farm.AddTransaction{Transaction: tx})
	}

	for _, id := range []string{"s1", "s2"} {
		b, s := balanceOf(t, bulk, id), balanceOf(t, sequential, id)
		if !b.Equal(s) {
			t.Errorf("supplier %s: bulk balance %v != sequential %v", id, b, s)
		}
	}
	if len(bulk.TabTransactions) != len(sequential.TabTransactions) {
		t.Errorf("ledger length differs: %d vs %d",
			len(bulk.TabTransactions), len(sequential.TabTransactions))
	}
}

// =============================================================================
// DIRECT OPERATIONS
// =============================================================================

func TestUpdateFeed_PartialMerge(t *testing.T) {
	state := testState()

	consumption := dec(150)
	state = mustReduce(t, state, farm.UpdateFeed{DailyConsumption: &consumption})

	if !state.Feed.Total.Equal(dec(2500)) {
		t.Errorf("total changed by partial update: %v", state.Feed.Total)
	}
	if !state.Feed.DailyConsumption.Equal(dec(150)) {
		t.Errorf("daily consumption = %v, want 150", state.Feed.DailyConsumption)
	}
}

func TestRenameCategory_DoesNotRewriteRecordNames(t *testing.T) {
	// The denormalized name on historical records stays as recorded.

	state := mustReduce(t, testState(), farm.AddRecord{
		Record: countChange("r1", "c1", farm.ChangeAddition, 10),
	})

	state = mustReduce(t, state, farm.UpdatePoultryCategory{
		Category: farm.PoultryCategory{ID: "c1", Name: "Roasters", Count: 110},
	})

	rec := state.Records[0].(farm.PoultryCountChangeRecord)
	if rec.PoultryCategoryName != "Broilers" {
		t.Errorf("record name rewritten to %q", rec.PoultryCategoryName)
	}
}

func TestReplaceState_SwapsAggregateWholesale(t *testing.T) {
	replacement := farm.AppState{
		FarmName: "Other Farm",
		Feed:     farm.FeedStock{Total: dec(1), DailyConsumption: dec(1)},
	}

	next := mustReduce(t, testState(), farm.ReplaceState{State: replacement})

	if next.FarmName != "Other Farm" || len(next.Poultry) != 0 {
		t.Errorf("replace did not swap wholesale: %+v", next)
	}
}

func TestUpdateFarmName(t *testing.T) {
	next := mustReduce(t, testState(), farm.UpdateFarmName{Name: "Sunrise Farm"})
	if next.FarmName != "Sunrise Farm" {
		t.Errorf("farm name = %q", next.FarmName)
	}
}
