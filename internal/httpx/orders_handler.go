package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rizkyamr/order-console/internal/draft"
	"github.com/rizkyamr/order-console/internal/notify"
	"github.com/rizkyamr/order-console/internal/resolution"
	"github.com/rizkyamr/order-console/internal/stock"
	"github.com/rizkyamr/order-console/internal/submit"
)

// SessionStore parks submissions between the shortage response and the
// resolution request.
type SessionStore interface {
	Save(ctx context.Context, p resolution.PendingSubmission) error
	Take(ctx context.Context, id string) (resolution.PendingSubmission, error)
}

type OrdersHandler struct {
	Orchestrator *submit.Orchestrator
	Sessions     SessionStore
	Notifier     *notify.Notifier
}

// ShortageResponse is the 409 body: the console opens the resolution dialog
// from it and resumes via the resolution id.
type ShortageResponse struct {
	Code         string             `json:"code"`
	ResolutionID string             `json:"resolution_id"`
	Suggestions  []stock.Suggestion `json:"suggestions"`
}

type SubmitResponse struct {
	Status string        `json:"status"`
	Order  any           `json:"order,omitempty"`
	Notice notify.Notice `json:"notice"`
}

type resumeRequest struct {
	Force     bool             `json:"force"`
	Decisions []stock.Decision `json:"decisions"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders/submit", h.submitOrder)
	r.Post("/orders/submit/{resolutionID}", h.resumeOrder)
}

func (h *OrdersHandler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var form draft.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	d := draft.Build(form)
	out, pending, err := h.Orchestrator.Submit(ctx, d)
	if err != nil {
		writeError(w, submit.HTTPStatus(err), submit.Kind(err), err.Error())
		return
	}

	if pending != nil {
		p := resolution.PendingSubmission{
			ID:          uuid.NewString(),
			Draft:       d,
			Suggestions: pending.Suggestions,
			CreatedAt:   time.Now().UTC(),
		}
		if err := h.Sessions.Save(ctx, p); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", "could not park submission")
			return
		}
		writeJSON(w, http.StatusConflict, ShortageResponse{
			Code:         "stock_shortage",
			ResolutionID: p.ID,
			Suggestions:  p.Suggestions,
		})
		return
	}

	h.finish(w, r, uuid.NewString(), d, out)
}

func (h *OrdersHandler) resumeOrder(w http.ResponseWriter, r *http.Request) {
	resolutionID := chi.URLParam(r, "resolutionID")

	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	p, err := h.Sessions.Take(ctx, resolutionID)
	if errors.Is(err, resolution.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	// replay the dialog server-side so its rules hold regardless of client
	sess := resolution.NewSession()
	if err := sess.Open(p.Suggestions); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	// reject puts the parked submission back so the user can correct
	reject := func(err error) {
		_ = h.Sessions.Save(ctx, p)
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	}

	var decisions []stock.Decision
	if req.Force {
		if err := sess.ForceCreate(); err != nil {
			reject(err)
			return
		}
	} else {
		for _, dec := range req.Decisions {
			if err := sess.SetDecision(dec.ProductVariantID, dec); err != nil {
				reject(err)
				return
			}
		}
		decisions, err = sess.Confirm()
		if err != nil {
			reject(err)
			return
		}
	}

	out, err := h.Orchestrator.Resume(ctx, p.Draft, decisions, req.Force)
	if err != nil {
		writeError(w, submit.HTTPStatus(err), submit.Kind(err), err.Error())
		return
	}
	h.finish(w, r, p.ID, p.Draft, out)
}

func (h *OrdersHandler) finish(w http.ResponseWriter, r *http.Request, submissionID string, d draft.Draft, out submit.Outcome) {
	notice := h.Notifier.Notify(submissionID, r.Header.Get("X-Request-Id"), d, out)

	resp := SubmitResponse{Status: string(out.Status), Notice: notice}
	if out.Order.ID != "" {
		resp.Order = out.Order
	}
	switch out.Status {
	case submit.StatusFailed:
		writeJSON(w, submit.HTTPStatus(out.Err), resp)
	default:
		writeJSON(w, http.StatusCreated, resp)
	}
}
