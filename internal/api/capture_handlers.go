package api

import (
	"net/http"

	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/services"
)

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req CaptureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	img, err := decodeImage(req.ImageBase64)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("capture request: mode=%s image_bytes=%d label=%q", req.Mode, len(img), req.Label)

	result, err := s.SessionService.HandleCapture(ctx, deviceFromContext(ctx), services.CaptureInput{
		Image:     img,
		Label:     req.Label,
		Mode:      models.CaptureMode(req.Mode),
		MissionID: req.MissionID,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	board, err := s.SessionService.TodaysMissions(ctx, deviceFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, board)
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := s.SessionService.QuotaStatus(ctx, deviceFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	progress, err := s.SessionService.Progress(ctx, deviceFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleLearning(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := s.SessionService.Learning(ctx, deviceFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if profile == nil {
		profile = models.LearningProfile{}
	}
	writeJSON(w, r, http.StatusOK, LearningResponse{Count: len(profile), Objects: profile})
}

func (s *Server) handleResetLearning(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	removed, err := s.SessionService.ResetLearning(ctx, deviceFromContext(ctx))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ResetLearningResponse{Removed: removed})
}
