package handlers

import (
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type SearchHandler struct {
	render *render.Render
	search *services.SearchService
	log    *zap.Logger
}

func NewSearchHandler(rnd *render.Render, search *services.SearchService, log *zap.Logger) *SearchHandler {
	return &SearchHandler{render: rnd, search: search, log: log}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, res)
}

func Health(rnd *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
