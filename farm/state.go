/*
state.go - The aggregate and its default value

PURPOSE:
  AppState is the single in-memory aggregate the whole dashboard runs
  on. Nothing outside this package mutates it: the engine clones,
  transforms, returns.

DEFAULT STATE:
  When no snapshot exists (first run) or the stored blob fails to
  parse, the container falls back to the built-in demo farm below.
  Seed dates are relative to "now" so the dashboard always shows a
  plausible recent history.
*/
package farm

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppState is the aggregate: every entity collection in one value.
// It is the sole owner of its entities; nothing is shared or aliased
// outside it.
type AppState struct {
	FarmName        string
	Poultry         []PoultryCategory
	Feed            FeedStock
	Records         []Record
	Tasks           []CalendarTask
	Suppliers       []Supplier
	TabTransactions []TabBookTransaction
}

// Clone returns a deep-enough copy of s: fresh slices, value elements.
// Record variants are value structs, so copying the interface slice
// copies the records.
func (s AppState) Clone() AppState {
	c := s
	c.Poultry = append([]PoultryCategory(nil), s.Poultry...)
	c.Records = append([]Record(nil), s.Records...)
	c.Tasks = append([]CalendarTask(nil), s.Tasks...)
	c.Suppliers = append([]Supplier(nil), s.Suppliers...)
	c.TabTransactions = append([]TabBookTransaction(nil), s.TabTransactions...)
	return c
}

// DefaultState builds the built-in demo aggregate used when no
// snapshot is available.
func DefaultState() AppState {
	day := func(offset int) string {
		return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
	}

	return AppState{
		FarmName: "Green Acre Poultry Farm",
		Poultry: []PoultryCategory{
			{ID: "1", Name: "Broilers", Count: 1250},
			{ID: "2", Name: "Layers", Count: 800},
			{ID: "3", Name: "Chicks", Count: 450},
			{ID: "4", Name: "Turkeys", Count: 150},
		},
		Feed: FeedStock{
			Total:            decimal.NewFromInt(2500), // kg
			DailyConsumption: decimal.NewFromInt(120),  // kg
		},
		Records: []Record{
			VaccinationRecord{
				ID:              "v1",
				Date:            day(-10),
				VaccineType:     "Newcastle B1",
				BirdsVaccinated: 450,
				NextDueDate:     day(20),
			},
			FeedPurchaseRecord{
				ID:       "f1",
				Date:     day(-5),
				Supplier: "FarmPro Feeds",
				Amount:   decimal.NewFromInt(1000),
				Cost:     decimal.NewFromInt(450),
			},
			VaccinationRecord{
				ID:              "v2",
				Date:            day(-30),
				VaccineType:     "Infectious Bronchitis",
				BirdsVaccinated: 1250,
				NextDueDate:     day(-2),
			},
		},
		Tasks: []CalendarTask{
			{
				ID:          "t1",
				Date:        day(0),
				Title:       "Clean the main coop",
				Description: "Full cleanout, change litter, and disinfect.",
				Completed:   false,
			},
			{
				ID:          "t2",
				Date:        day(3),
				Title:       "Order new batch of feed",
				Description: "Order 1500kg of grower feed.",
				Completed:   false,
			},
			{
				ID:        "t3",
				Date:      day(3),
				Title:     "Repair fence on west pasture",
				Completed: true,
			},
		},
		Suppliers: []Supplier{
			{ID: "s1", Name: "FarmPro Feeds", Balance: decimal.Zero},
			{ID: "s2", Name: "Local Grains Co-op", Balance: decimal.Zero},
		},
		TabTransactions: []TabBookTransaction{},
	}
}
