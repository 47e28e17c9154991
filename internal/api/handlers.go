package api

import (
	"time"

	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/services"
)

type Server struct {
	// Store backs the readiness probe.
	Store kvstore.Store

	SessionService     services.SessionService
	TranslationService services.TranslationService
	PreferenceService  services.PreferenceService

	// RequestTimeout bounds every /api/v1 request. Zero disables it.
	RequestTimeout time.Duration
	// SecureCookies marks the device cookie Secure when served over HTTPS.
	SecureCookies bool
}
