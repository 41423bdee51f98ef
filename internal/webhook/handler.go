package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ohip/ohip/internal/catalog"
	"github.com/ohip/ohip/internal/ingestion"
	"github.com/ohip/ohip/pkg/country"
)

// Ingester is the part of ingestion.Service the webhook drives.
type Ingester interface {
	IngestCountry(ctx context.Context, rec *country.Record) (*catalog.Country, error)
	SyncCountry(ctx context.Context, isoCode string) (*catalog.Country, error)
	DeleteCountry(ctx context.Context, isoCode string) error
}

// Handler processes incoming provider webhook events.
type Handler struct {
	webhookSecret []byte
	ingestions    Ingester
	log           zerolog.Logger
}

// NewHandler creates a new webhook Handler.
func NewHandler(webhookSecret []byte, ingestions Ingester, log zerolog.Logger) *Handler {
	return &Handler{
		webhookSecret: webhookSecret,
		ingestions:    ingestions,
		log:           log,
	}
}

// ServeHTTP handles incoming webhook requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 10<<20)) // 10 MB limit
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Signature-256")
	if err := VerifySignature(body, signature, h.webhookSecret); err != nil {
		h.log.Warn().Err(err).Msg("webhook signature verification failed")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-Event")
	if eventType == "" {
		http.Error(w, "missing X-Event header", http.StatusBadRequest)
		return
	}

	event, err := ParseEvent(eventType, body)
	if err != nil {
		h.log.Warn().Err(err).Str("event", eventType).Msg("webhook parse error")
		http.Error(w, "unsupported event", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	switch eventType {
	case EventCountryUpdated:
		err = h.handleUpdated(ctx, event)
	case EventCountryDeleted:
		err = h.handleDeleted(ctx, event)
	}
	if err != nil {
		h.log.Error().Err(err).Str("event", eventType).Str("iso", event.ISOCode).Msg("webhook handling failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

func (h *Handler) handleUpdated(ctx context.Context, e *CountryEvent) error {
	if e.Record != nil {
		row, err := h.ingestions.IngestCountry(ctx, e.Record)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", e.ISOCode, err)
		}
		h.log.Info().Str("iso", row.ISOCode).Str("revision", row.Revision).Msg("ingested pushed record")
		return nil
	}

	row, err := h.ingestions.SyncCountry(ctx, e.ISOCode)
	if err != nil {
		return fmt.Errorf("sync %s: %w", e.ISOCode, err)
	}
	h.log.Info().Str("iso", row.ISOCode).Str("revision", row.Revision).Msg("re-fetched record from provider")
	return nil
}

func (h *Handler) handleDeleted(ctx context.Context, e *CountryEvent) error {
	err := h.ingestions.DeleteCountry(ctx, e.ISOCode)
	if ingestion.IsNotFound(err) {
		h.log.Debug().Str("iso", e.ISOCode).Msg("delete for unknown country ignored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", e.ISOCode, err)
	}
	h.log.Info().Str("iso", e.ISOCode).Msg("country removed")
	return nil
}
