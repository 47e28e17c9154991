package api

import (
	"net/http"
)

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TranslateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.TranslationService.Translate(ctx, deviceFromContext(ctx), req.Sentences, req.Source, req.Target)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleLatestTranslation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := s.TranslationService.Latest(ctx, deviceFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
