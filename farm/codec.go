/*
codec.go - JSON codec for the aggregate

PURPOSE:
  The aggregate is persisted and exported as a single JSON document.
  The wire shape is fixed: camelCase keys, and records carried as a
  tagged envelope whose "type" field is the RecordType string
  ("Feed Purchase", "Vaccination", "Poultry Count Change"). Snapshots
  written by older dashboard builds must keep loading, so the tags and
  key names are not negotiable.

DECIMALS:
  Amounts serialize as bare JSON numbers, not strings, to match the
  existing snapshot format. decimal still parses both on the way in.
*/
package farm

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Snapshots store amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// =============================================================================
// RECORD ENVELOPE
// =============================================================================

// recordJSON is the tagged wire form of the Record union. Fields of
// all three variants are flattened; omitempty keeps each serialized
// record to its own kind's fields.
type recordJSON struct {
	Type RecordType `json:"type"`
	ID   string     `json:"id"`
	Date string     `json:"date"`

	// Feed purchase
	Supplier string           `json:"supplier,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`

	// Vaccination
	VaccineType     string `json:"vaccineType,omitempty"`
	BirdsVaccinated *int   `json:"birdsVaccinated,omitempty"`
	NextDueDate     string `json:"nextDueDate,omitempty"`

	// Poultry count change
	PoultryCategoryID   string              `json:"poultryCategoryId,omitempty"`
	PoultryCategoryName string              `json:"poultryCategoryName,omitempty"`
	ChangeType          PoultryChangeType   `json:"changeType,omitempty"`
	Reason              PoultryChangeReason `json:"reason,omitempty"`
	ChangeAmount        *int                `json:"changeAmount,omitempty"`
}

func encodeRecord(r Record) recordJSON {
	switch rec := r.(type) {
	case FeedPurchaseRecord:
		amount, cost := rec.Amount, rec.Cost
		return recordJSON{
			Type:     RecordFeedPurchase,
			ID:       rec.ID,
			Date:     rec.Date,
			Supplier: rec.Supplier,
			Amount:   &amount,
			Cost:     &cost,
		}
	case VaccinationRecord:
		birds := rec.BirdsVaccinated
		return recordJSON{
			Type:            RecordVaccination,
			ID:              rec.ID,
			Date:            rec.Date,
			VaccineType:     rec.VaccineType,
			BirdsVaccinated: &birds,
			NextDueDate:     rec.NextDueDate,
		}
	case PoultryCountChangeRecord:
		change := rec.ChangeAmount
		return recordJSON{
			Type:                RecordPoultryCountChange,
			ID:                  rec.ID,
			Date:                rec.Date,
			PoultryCategoryID:   rec.PoultryCategoryID,
			PoultryCategoryName: rec.PoultryCategoryName,
			ChangeType:          rec.ChangeType,
			Reason:              rec.Reason,
			ChangeAmount:        &change,
		}
	}
	return recordJSON{}
}

func decodeRecord(rj recordJSON) (Record, error) {
	switch rj.Type {
	case RecordFeedPurchase:
		rec := FeedPurchaseRecord{
			ID:       rj.ID,
			Date:     rj.Date,
			Supplier: rj.Supplier,
		}
		if rj.Amount != nil {
			rec.Amount = *rj.Amount
		}
		if rj.Cost != nil {
			rec.Cost = *rj.Cost
		}
		return rec, nil
	case RecordVaccination:
		rec := VaccinationRecord{
			ID:          rj.ID,
			Date:        rj.Date,
			VaccineType: rj.VaccineType,
			NextDueDate: rj.NextDueDate,
		}
		if rj.BirdsVaccinated != nil {
			rec.BirdsVaccinated = *rj.BirdsVaccinated
		}
		return rec, nil
	case RecordPoultryCountChange:
		rec := PoultryCountChangeRecord{
			ID:                  rj.ID,
			Date:                rj.Date,
			PoultryCategoryID:   rj.PoultryCategoryID,
			PoultryCategoryName: rj.PoultryCategoryName,
			ChangeType:          rj.ChangeType,
			Reason:              rj.Reason,
		}
		if rj.ChangeAmount != nil {
			rec.ChangeAmount = *rj.ChangeAmount
		}
		return rec, nil
	}
	return nil, fmt.Errorf("unknown record type %q", rj.Type)
}

// UnmarshalRecord parses a single record in the tagged wire form.
// Used by the API boundary, which receives records in the same shape
// the snapshot stores them.
func UnmarshalRecord(data []byte) (Record, error) {
	var rj recordJSON
	if err := json.Unmarshal(data, &rj); err != nil {
		return nil, err
	}
	return decodeRecord(rj)
}

// =============================================================================
// AGGREGATE DOCUMENT
// =============================================================================

type stateJSON struct {
	FarmName        string               `json:"farmName"`
	Poultry         []PoultryCategory    `json:"poultry"`
	Feed            FeedStock            `json:"feed"`
	Records         []recordJSON         `json:"records"`
	Tasks           []CalendarTask       `json:"tasks"`
	Suppliers       []Supplier           `json:"suppliers"`
	TabTransactions []TabBookTransaction `json:"tabTransactions"`
}

// MarshalJSON serializes the aggregate in the snapshot/export format.
func (s AppState) MarshalJSON() ([]byte, error) {
	doc := stateJSON{
		FarmName:        s.FarmName,
		Poultry:         s.Poultry,
		Feed:            s.Feed,
		Records:         make([]recordJSON, 0, len(s.Records)),
		Tasks:           s.Tasks,
		Suppliers:       s.Suppliers,
		TabTransactions: s.TabTransactions,
	}
	for _, r := range s.Records {
		doc.Records = append(doc.Records, encodeRecord(r))
	}
	return json.Marshal(doc)
}

// UnmarshalJSON parses a snapshot/export document. Any unknown record
// type fails the whole document; the container then falls back to the
// default aggregate.
func (s *AppState) UnmarshalJSON(data []byte) error {
	var doc stateJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	records := make([]Record, 0, len(doc.Records))
	for i, rj := range doc.Records {
		rec, err := decodeRecord(rj)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	*s = AppState{
		FarmName:        doc.FarmName,
		Poultry:         doc.Poultry,
		Feed:            doc.Feed,
		Records:         records,
		Tasks:           doc.Tasks,
		Suppliers:       doc.Suppliers,
		TabTransactions: doc.TabTransactions,
	}
	return nil
}
