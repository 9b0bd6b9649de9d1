package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"

	"github.com/cardlink/transfer-service/internal/models"
	"github.com/cardlink/transfer-service/internal/repository"
)

// cardFilterQuery carries the query parameters of the admin card routes.
type cardFilterQuery struct {
	Status     string `validate:"omitempty,oneof=active inactive expired"`
	CardNumber string
	Phone      string
}

func (q cardFilterQuery) toFilter() repository.CardFilter {
	return repository.CardFilter{
		Status:         models.CardStatus(q.Status),
		CardNumberLike: q.CardNumber,
		PhoneLike:      q.Phone,
	}
}

func (h *Handler) cardFilter(r *http.Request) (repository.CardFilter, error) {
	query := cardFilterQuery{
		Status:     r.URL.Query().Get("status"),
		CardNumber: r.URL.Query().Get("card_number"),
		Phone:      r.URL.Query().Get("phone"),
	}
	if err := h.validate.Struct(query); err != nil {
		return repository.CardFilter{}, err
	}
	return query.toFilter(), nil
}

// ImportCards handles POST /admin/cards/import. The body is a CSV file
// with a header row; the response lists per-row rejections.
func (h *Handler) ImportCards(w http.ResponseWriter, r *http.Request) {
	reader := csv.NewReader(http.MaxBytesReader(w, r.Body, 8<<20))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid csv payload"})
		return
	}

	result, err := h.cardAdmin.ImportRows(r.Context(), rows)
	if err != nil {
		h.logger.Error("card import failed", "error", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// ExportCards handles GET /admin/cards/export, streaming matching cards
// as a CSV attachment.
func (h *Handler) ExportCards(w http.ResponseWriter, r *http.Request) {
	filter, err := h.cardFilter(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filter"})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cards.csv"`)

	if _, err := h.cardAdmin.ExportCSV(r.Context(), filter, w); err != nil {
		h.logger.Error("card export failed", "error", err)
	}
}

// NotifyCards handles POST /admin/cards/notify, broadcasting the balance
// notice to every matching card.
func (h *Handler) NotifyCards(w http.ResponseWriter, r *http.Request) {
	filter, err := h.cardFilter(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid filter"})
		return
	}

	sent, err := h.cardAdmin.NotifyBalances(r.Context(), filter)
	if err != nil {
		h.logger.Error("balance broadcast failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "notification failed"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
