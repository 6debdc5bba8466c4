// Package httpapi serves the encoder over HTTP for live-preview form clients.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tdavis6/myqrkit/internal/contract"
	"github.com/tdavis6/myqrkit/internal/payload"
)

const maxBodyBytes = 64 << 10

// Recorder persists successful encodes. The history store satisfies it.
type Recorder interface {
	Record(ctx context.Context, dataType, payload string) (contract.HistoryEntry, error)
}

type Config struct {
	Encoder  *payload.Encoder
	ECLevel  payload.ECLevel
	Recorder Recorder
	Logger   *slog.Logger
}

// Response is the JSON envelope for every reply.
type Response struct {
	Data  any                 `json:"data"`
	Error *contract.ErrorBody `json:"error,omitempty"`
}

type handler struct {
	enc   *payload.Encoder
	level payload.ECLevel
	rec   Recorder
	log   *slog.Logger
}

func NewRouter(cfg Config) http.Handler {
	h := &handler{enc: cfg.Encoder, level: cfg.ECLevel, rec: cfg.Recorder, log: cfg.Logger}
	if h.enc == nil {
		h.enc = payload.New()
	}
	if h.level == "" {
		h.level = payload.DefaultECLevel
	}
	if h.log == nil {
		h.log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/types", h.types)
		r.Post("/encode", h.encode)
	})
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) types(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, payload.TypeInfos())
}

func (h *handler) encode(w http.ResponseWriter, r *http.Request) {
	var form payload.Form
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, contract.ErrInvalidUsage, "invalid JSON body: "+err.Error())
		return
	}
	in, err := form.Input()
	if err != nil {
		writeError(w, http.StatusBadRequest, contract.ErrInvalidUsage, err.Error())
		return
	}
	if ev, ok := in.(payload.Event); ok {
		ev.End = payload.ClampEventEnd(ev.Start, ev.End)
		in = ev
	}
	out := h.enc.Encode(in)
	if err := payload.CheckCapacity(out, h.level); err != nil {
		var capErr *payload.CapacityError
		if errors.As(err, &capErr) {
			writeError(w, http.StatusUnprocessableEntity, contract.ErrPayloadTooLarge, capErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, contract.ErrGeneric, err.Error())
		return
	}
	if h.rec != nil {
		if _, err := h.rec.Record(r.Context(), string(in.Type()), out); err != nil {
			h.log.Warn("history record failed", "error", err, "type", in.Type())
		}
	}
	writeJSON(w, http.StatusOK, contract.Payload{
		Type:    string(in.Type()),
		Payload: out,
		Bytes:   len(out),
		Size:    humanize.Bytes(uint64(len(out))),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

func writeError(w http.ResponseWriter, status int, code contract.ErrorCode, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Error: &contract.ErrorBody{Code: code, Message: msg}})
}
