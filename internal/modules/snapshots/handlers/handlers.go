// Package handlers provides HTTP handlers for snapshot ingest and the
// dashboard summary.
package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/mt5-bridge/internal/events"
	"github.com/aristath/mt5-bridge/internal/modules/snapshots"
)

// SecretHeader is the header the EA presents its shared secret in
const SecretHeader = "X-MT5-Secret"

// Handler handles snapshot HTTP requests
type Handler struct {
	service      *snapshots.Service
	bus          *events.Bus
	sharedSecret string
	log          zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(service *snapshots.Service, bus *events.Bus, sharedSecret string, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		bus:          bus,
		sharedSecret: sharedSecret,
		log:          log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleIngest handles POST /mt5/positions.
//
// The shared secret is checked before anything else; a missing or mismatched
// secret is rejected with 401 and no state is touched. The body is decoded as
// JSON or, when Content-Type is application/msgpack, as msgpack. A body that
// cannot be decoded at all is a 400; everything structurally acceptable
// succeeds, malformed individual fields degrade inside the normalizer.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(SecretHeader) != h.sharedSecret {
		h.log.Warn().Str("remote", r.RemoteAddr).Msg("Ingest rejected: bad shared secret")
		h.writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}

	var batch snapshots.IngestBatch
	if err := decodeBatch(r, &batch); err != nil {
		h.log.Warn().Err(err).Msg("Ingest rejected: undecodable body")
		h.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	snap := h.service.Ingest(batch)

	h.log.Info().
		Str("account", snap.AccountID).
		Int("positions", len(snap.Positions)).
		Msg("Snapshot stored")

	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// HandleSummary handles GET /summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Summary())
}

// decodeBatch decodes the request body according to its content type
func decodeBatch(r *http.Request, batch *snapshots.IngestBatch) error {
	mediaType := r.Header.Get("Content-Type")
	if mediaType != "" {
		if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = parsed
		}
	}

	if mediaType == "application/msgpack" || mediaType == "application/x-msgpack" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}
		return msgpack.Unmarshal(body, batch)
	}

	return json.NewDecoder(r.Body).Decode(batch)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
