package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/utils"
	"github.com/nuxeo/drive-sync/models"
)

// userHeader carries the acting principal. Authentication itself is the
// job of the gateway in front of this service.
const userHeader = "X-User-Name"

func (h *Handler) changeSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user := r.Header.Get(userHeader)
	if user == "" {
		log.Error().Str("func", "*Handler.changeSummary").Msg("no user was given")
		http.Error(w, "no user was given", http.StatusBadRequest)
		return
	}

	var summaryRequest models.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&summaryRequest); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.changeSummary").Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	summary, err := h.services.Summary.Summary(ctx, user, summaryRequest.LastRootRefs, summaryRequest.LowerBounds)
	if err != nil {
		log.Error().Err(err).Str("func", "*Handler.changeSummary").Msg("error building change summary")
		http.Error(w, "error building change summary", statusFromError(err))
		return
	}

	utils.WriteJSON(w, summary, http.StatusOK)
}

func (h *Handler) registerRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user := r.Header.Get(userHeader)
	if user == "" {
		log.Error().Str("func", "*Handler.registerRoot").Msg("no user was given")
		http.Error(w, "no user was given", http.StatusBadRequest)
		return
	}

	docID := chi.URLParam(r, "docID")

	set, err := h.services.Roots.Register(ctx, user, docID)
	if err != nil {
		log.Error().Err(err).Str("func", "*Handler.registerRoot").Msg("error registering synchronization root")
		http.Error(w, "error registering synchronization root", statusFromError(err))
		return
	}

	response := models.RootActionResponse{
		User:       user,
		Repository: set.Repository,
		RootID:     models.RootID(docID),
		RootPath:   set.PathForID(models.RootID(docID)),
	}

	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) unregisterRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user := r.Header.Get(userHeader)
	if user == "" {
		log.Error().Str("func", "*Handler.unregisterRoot").Msg("no user was given")
		http.Error(w, "no user was given", http.StatusBadRequest)
		return
	}

	docID := chi.URLParam(r, "docID")

	if err := h.services.Roots.Unregister(ctx, user, docID); err != nil {
		log.Error().Err(err).Str("func", "*Handler.unregisterRoot").Msg("error unregistering synchronization root")
		http.Error(w, "error unregistering synchronization root", statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// invalidateCache drops cached root sets. With a user query parameter
// only that user's entry is dropped; with a path parameter every
// registration under that path is purged from the store as well, for
// callers reacting to a deleted folder subtree. Without either the
// whole cache goes.
func (h *Handler) invalidateCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if path := r.URL.Query().Get("path"); path != "" {
		if err := h.services.Roots.PurgeRootsUnder(ctx, path); err != nil {
			log.Error().Err(err).Str("func", "*Handler.invalidateCache").Msg("error purging synchronization roots")
			http.Error(w, "error purging synchronization roots", statusFromError(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
		return
	}

	if user := r.URL.Query().Get("user"); user != "" {
		h.services.Roots.Invalidate(user)
	} else {
		h.services.Roots.InvalidateAll()
	}

	w.WriteHeader(http.StatusNoContent)
}
