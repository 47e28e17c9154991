package api

import (
	"net/http"
)

func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang, err := s.PreferenceService.Language(ctx, deviceFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, LanguageResponse{Language: lang, Available: s.PreferenceService.Languages()})
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LanguageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	lang, err := s.PreferenceService.SetLanguage(ctx, deviceFromContext(ctx), req.Language)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, LanguageResponse{Language: lang, Available: s.PreferenceService.Languages()})
}
