package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rizkyamr/order-console/internal/category"
	"github.com/rizkyamr/order-console/internal/journal"
	"github.com/rizkyamr/order-console/internal/prefs"
)

type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// ConsoleHandler covers the supporting console endpoints: category tree,
// table preferences, submission reports.
type ConsoleHandler struct {
	Categories *category.Loader
	Prefs      *prefs.Store
	Journal    JournalReader
}

func (h *ConsoleHandler) Register(r *chi.Mux) {
	r.Get("/categories/tree", h.categoryTree)
	r.Get("/preferences/{user}/{table}", h.getPrefs)
	r.Put("/preferences/{user}/{table}", h.putPrefs)
	r.Get("/reports/submissions", h.recentSubmissions)
}

func (h *ConsoleHandler) categoryTree(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tree, err := h.Categories.Tree(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *ConsoleHandler) getPrefs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cfg, err := h.Prefs.Get(ctx, chi.URLParam(r, "user"), chi.URLParam(r, "table"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *ConsoleHandler) putPrefs(w http.ResponseWriter, r *http.Request) {
	var cfg prefs.TableConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Prefs.Put(ctx, chi.URLParam(r, "user"), chi.URLParam(r, "table"), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *ConsoleHandler) recentSubmissions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Journal.Recent(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
