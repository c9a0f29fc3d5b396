/*
handlers.go - HTTP handlers for the farm dashboard API

PURPOSE:
  Exposes the state engine over REST. Handlers parse and validate the
  request, build a fully-formed action payload (including a generated
  id), dispatch it, and return the resulting aggregate — the engine's
  only output.

ENDPOINTS:
  State:
    GET    /api/state                     Current aggregate
    POST   /api/state/replace             Restore from exported JSON
    GET    /api/export                    Download aggregate as JSON

  Farm settings:
    PUT    /api/farm                      Rename farm
    PUT    /api/feed                      Partial feed stock update

  Poultry / records / tasks / suppliers / transactions:
    POST, PUT /{id}, DELETE /{id} on their collections

  Tab book import:
    POST   /api/tabbook/import            CSV batch (all-or-nothing)
    GET    /api/tabbook/template          Reference CSV download

ERROR HANDLING:
  - 400: malformed body, failed field validation
  - 404: edit/delete on a missing id (the engine's ErrNotFound)
  - 422: CSV batch rejected; body lists every row error
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/greenacre/farmbook/farm"
	"github.com/greenacre/farmbook/importer"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *farm.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates a handler around the state container.
func NewHandler(store *farm.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

// =============================================================================
// STATE
// =============================================================================

// GetState returns the current aggregate.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.State())
}

// ReplaceState restores a previously exported aggregate. The document
// must carry every top-level section; beyond that the engine trusts
// it wholesale.
func (h *Handler) ReplaceState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var payload replaceStatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "not a valid farm backup: missing top-level fields")
		return
	}

	var state farm.AppState
	if err := json.Unmarshal(body, &state); err != nil {
		writeError(w, http.StatusBadRequest, "invalid farm backup: "+err.Error())
		return
	}

	h.dispatch(w, r, farm.ReplaceState{State: state})
}

// Export streams the aggregate as a pretty-printed JSON download
// named from the farm name and the current date.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	state := h.Store.State()

	blob, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed: "+err.Error())
		return
	}

	filename := fmt.Sprintf("%s_%s.json", slugify(state.FarmName), time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// =============================================================================
// FARM SETTINGS
// =============================================================================

func (h *Handler) UpdateFarmName(w http.ResponseWriter, r *http.Request) {
	var req UpdateFarmNameRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.UpdateFarmName{Name: req.Name})
}

func (h *Handler) UpdateFeed(w http.ResponseWriter, r *http.Request) {
	var req UpdateFeedRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.UpdateFeed{
		Total:            req.Total,
		DailyConsumption: req.DailyConsumption,
	})
}

// =============================================================================
// POULTRY CATEGORIES
// =============================================================================

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.AddPoultryCategory{Category: farm.PoultryCategory{
		ID:    newID("p"),
		Name:  req.Name,
		Count: req.Count,
	}})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.UpdatePoultryCategory{Category: farm.PoultryCategory{
		ID:    chi.URLParam(r, "id"),
		Name:  req.Name,
		Count: req.Count,
	}})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, farm.DeletePoultryCategory{ID: chi.URLParam(r, "id")})
}

// =============================================================================
// RECORDS
// =============================================================================

// AddRecord accepts a record body in the tagged wire form and assigns
// it a fresh id.
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, farm.AddRecord{Record: withRecordID(rec, newID("rec"))})
}

// EditRecord replaces the record at {id}; the body's id field, if any,
// is overridden by the path.
func (h *Handler) EditRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decodeRecord(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, farm.EditRecord{Record: withRecordID(rec, chi.URLParam(r, "id"))})
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, farm.DeleteRecord{ID: chi.URLParam(r, "id")})
}

func (h *Handler) decodeRecord(w http.ResponseWriter, r *http.Request) (farm.Record, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return nil, false
	}
	rec, err := farm.UnmarshalRecord(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record: "+err.Error())
		return nil, false
	}
	if rec.RecordDate() == "" {
		writeError(w, http.StatusBadRequest, "invalid record: date is required")
		return nil, false
	}
	return rec, true
}

// withRecordID returns a copy of rec with its id replaced.
func withRecordID(rec farm.Record, id string) farm.Record {
	switch v := rec.(type) {
	case farm.FeedPurchaseRecord:
		v.ID = id
		return v
	case farm.VaccinationRecord:
		v.ID = id
		return v
	case farm.PoultryCountChangeRecord:
		v.ID = id
		return v
	}
	return rec
}

// =============================================================================
// CALENDAR TASKS
// =============================================================================

func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.AddTask{Task: taskFromRequest(req, newID("t"))})
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.UpdateTask{Task: taskFromRequest(req, chi.URLParam(r, "id"))})
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, farm.DeleteTask{ID: chi.URLParam(r, "id")})
}

func taskFromRequest(req TaskRequest, id string) farm.CalendarTask {
	return farm.CalendarTask{
		ID:          id,
		Date:        req.Date,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Reminder:    req.Reminder,
	}
}

// =============================================================================
// SUPPLIERS
// =============================================================================

func (h *Handler) AddSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.AddSupplier{Supplier: farm.Supplier{
		ID:   newID("s"),
		Name: req.Name,
	}})
}

// UpdateSupplier renames a supplier. The derived balance is carried
// over from the current state, never taken from the client.
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	supplier, found := findSupplier(h.Store.State(), id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("supplier %q not found", id))
		return
	}
	supplier.Name = req.Name

	h.dispatch(w, r, farm.UpdateSupplier{Supplier: supplier})
}

func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, farm.DeleteSupplier{ID: chi.URLParam(r, "id")})
}

func findSupplier(state farm.AppState, id string) (farm.Supplier, bool) {
	for _, s := range state.Suppliers {
		if s.ID == id {
			return s, true
		}
	}
	return farm.Supplier{}, false
}

// =============================================================================
// TAB BOOK TRANSACTIONS
// =============================================================================

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.AddTransaction{Transaction: transactionFromRequest(req, newID("tx"))})
}

func (h *Handler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, farm.EditTransaction{Transaction: transactionFromRequest(req, chi.URLParam(r, "id"))})
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, farm.DeleteTransaction{ID: chi.URLParam(r, "id")})
}

func transactionFromRequest(req TransactionRequest, id string) farm.TabBookTransaction {
	return farm.TabBookTransaction{
		ID:          id,
		SupplierID:  req.SupplierID,
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
	}
}

// =============================================================================
// CSV IMPORT
// =============================================================================

// ImportTransactions validates a CSV body against the current supplier
// list and commits the whole batch, or rejects it whole with every row
// error.
func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	result := importer.Parse(string(body), h.Store.State().Suppliers)
	if !result.OK() {
		importRowsTotal.WithLabelValues("rejected").Add(float64(len(result.Errors)))
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "import rejected, nothing was committed",
			Errors: result.Errors,
		})
		return
	}

	if _, err := h.Store.Dispatch(r.Context(), farm.BulkAddTransactions{Transactions: result.Transactions}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	actionsTotal.WithLabelValues("bulk_add_transactions", "ok").Inc()
	importRowsTotal.WithLabelValues("committed").Add(float64(len(result.Transactions)))
	h.logger.Info("csv import committed", zap.Int("rows", len(result.Transactions)))

	writeJSON(w, http.StatusOK, ImportResponse{Imported: len(result.Transactions)})
}

// ImportTemplate serves the documented reference CSV.
func (h *Handler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", importer.TemplateFilename))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, importer.Template())
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

// dispatch runs the action and answers with the resulting aggregate.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, action farm.Action) {
	state, err := h.Store.Dispatch(r.Context(), action)
	if err != nil {
		if errors.Is(err, farm.ErrNotFound) {
			actionsTotal.WithLabelValues(farm.ActionName(action), "not_found").Inc()
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		actionsTotal.WithLabelValues(farm.ActionName(action), "error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	actionsTotal.WithLabelValues(farm.ActionName(action), "ok").Inc()
	writeJSON(w, http.StatusOK, state)
}

// decode parses a JSON body into dst and runs struct validation.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// newID builds the dashboard's conventional "<prefix>_<millis>" ids.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixMilli())
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "farm"
	}
	return b.String()
}
