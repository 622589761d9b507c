package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/internal/service"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

// IndicatorHandler serves indicator state over REST
type IndicatorHandler struct {
	service *service.Service
}

// NewIndicatorHandler creates a new indicator handler
func NewIndicatorHandler(svc *service.Service) *IndicatorHandler {
	return &IndicatorHandler{service: svc}
}

// Health handles GET /health
func (h *IndicatorHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"symbols": h.service.SymbolCount(),
	})
}

// ListSymbols handles GET /api/v1/symbols
func (h *IndicatorHandler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols := h.service.Symbols()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": symbols,
		"count":   len(symbols),
	})
}

// ListDefinitions handles GET /api/v1/definitions
func (h *IndicatorHandler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	defs := h.service.Definitions()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"definitions": defs,
		"count":       len(defs),
	})
}

// GetIndicators handles GET /api/v1/indicators/:symbol
func (h *IndicatorHandler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	snap, err := h.service.Snapshot(symbol)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Symbol not tracked")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":   symbol,
		"snapshot": snap,
	})
}

// GetStatus handles GET /api/v1/status/:symbol
func (h *IndicatorHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	status, err := h.service.Status(symbol)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Symbol not tracked")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":     symbol,
		"indicators": status,
	})
}

// GetHistory handles GET /api/v1/history/:symbol
// It re-evaluates the buffered series in batch mode and returns the table.
func (h *IndicatorHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	table, err := h.service.Evaluate(symbol)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSymbol) {
			respondWithError(w, http.StatusNotFound, "Symbol not tracked")
			return
		}
		logger.Error("Batch evaluation failed",
			logger.String("symbol", symbol),
			logger.ErrorField(err),
		)
		respondWithError(w, http.StatusInternalServerError, "Evaluation failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"rows":   table.Rows(),
		"table":  table,
	})
}

// sampleRequest is the POST body for sample ingestion
type sampleRequest struct {
	Timestamp int64    `json:"timestamp"` // unix milliseconds
	Price     float64  `json:"price"`
	Volume    *float64 `json:"volume,omitempty"`
}

// IngestSample handles POST /api/v1/samples/:symbol
func (h *IndicatorHandler) IngestSample(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var req sampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Timestamp <= 0 {
		respondWithError(w, http.StatusBadRequest, "timestamp is required (unix milliseconds)")
		return
	}

	sample := models.NewSample(time.UnixMilli(req.Timestamp).UTC(), req.Price)
	if req.Volume != nil {
		sample.Volume = req.Volume
	}

	snap, err := h.service.ProcessSample(symbol, sample)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOutOfOrderSample):
			respondWithError(w, http.StatusConflict, "Sample is older than the last accepted sample")
		case errors.Is(err, models.ErrInvalidSample), errors.Is(err, models.ErrInvalidSymbol):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Evaluation failed")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":   symbol,
		"snapshot": snap,
	})
}
