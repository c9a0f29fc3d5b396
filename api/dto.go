/*
dto.go - Request and response types for the dashboard API

PURPOSE:
  Defines the JSON structures for API communication. Requests carry
  the caller-editable fields only; ids are generated server-side and
  derived fields (balances, counts driven by records) never come from
  clients.

VALIDATION:
  Simple shape rules live on struct tags (validator/v10); anything
  cross-field or union-shaped is checked in handlers.

SEE ALSO:
  - handlers.go: Uses these types
  - farm/codec.go: The record wire envelope reused for record bodies
*/
package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// UpdateFarmNameRequest renames the farm.
type UpdateFarmNameRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateFeedRequest partially updates feed stock. Absent fields are
// left untouched.
type UpdateFeedRequest struct {
	Total            *decimal.Decimal `json:"total"`
	DailyConsumption *decimal.Decimal `json:"dailyConsumption"`
}

// CategoryRequest creates or updates a poultry category.
type CategoryRequest struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

// TaskRequest creates or updates a calendar task.
type TaskRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Reminder    string `json:"reminder"`
}

// SupplierRequest creates or updates a supplier. Balance is derived
// from the ledger and cannot be set directly.
type SupplierRequest struct {
	Name string `json:"name" validate:"required"`
}

// TransactionRequest creates or updates a tab book transaction.
type TransactionRequest struct {
	SupplierID  string          `json:"supplierId" validate:"required"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// replaceStatePayload is the schema gate in front of REPLACE_STATE:
// a restore document must at least carry every top-level section.
// The core itself keeps the trust-the-caller contract.
type replaceStatePayload struct {
	FarmName        json.RawMessage `json:"farmName" validate:"required"`
	Poultry         json.RawMessage `json:"poultry" validate:"required"`
	Feed            json.RawMessage `json:"feed" validate:"required"`
	Records         json.RawMessage `json:"records" validate:"required"`
	Tasks           json.RawMessage `json:"tasks" validate:"required"`
	Suppliers       json.RawMessage `json:"suppliers" validate:"required"`
	TabTransactions json.RawMessage `json:"tabTransactions" validate:"required"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ImportResponse reports a committed CSV batch.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}
