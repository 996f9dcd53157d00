package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nuxeo/drive-sync/internal/logger"
	"github.com/nuxeo/drive-sync/internal/utils"
)

func (h *Handler) scroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user := r.Header.Get(userHeader)
	if user == "" {
		log.Error().Str("func", "*Handler.scroll").Msg("no user was given")
		http.Error(w, "no user was given", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()

	folderID := query.Get("folderId")
	cursor := query.Get("cursor")
	if folderID == "" && cursor == "" {
		log.Error().Str("func", "*Handler.scroll").Msg("neither folderId nor cursor was given")
		http.Error(w, "neither folderId nor cursor was given", http.StatusBadRequest)
		return
	}

	var batchSize int
	if raw := query.Get("batchSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Err(err).Str("func", "*Handler.scroll").Msg("invalid batchSize was passed")
			http.Error(w, "invalid batchSize was passed", http.StatusBadRequest)
			return
		}
		batchSize = parsed
	}

	var keepAlive time.Duration
	if raw := query.Get("keepAlive"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Err(err).Str("func", "*Handler.scroll").Msg("invalid keepAlive was passed")
			http.Error(w, "invalid keepAlive was passed", http.StatusBadRequest)
			return
		}
		keepAlive = parsed
	}

	batch, err := h.services.Scroll.Scroll(ctx, folderID, user, cursor, batchSize, keepAlive)
	if err != nil {
		log.Error().Err(err).Str("func", "*Handler.scroll").Msg("error scrolling descendants")
		http.Error(w, "error scrolling descendants", statusFromError(err))
		return
	}

	utils.WriteJSON(w, batch, http.StatusOK)
}
