package api_test

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vytor/visualdex/internal/api"
	"github.com/vytor/visualdex/internal/catalog"
	"github.com/vytor/visualdex/internal/codec"
	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/mission"
	"github.com/vytor/visualdex/internal/models"
	"github.com/vytor/visualdex/internal/quota"
	"github.com/vytor/visualdex/internal/repository/kv"
	"github.com/vytor/visualdex/internal/sentence"
	"github.com/vytor/visualdex/internal/services"
	"github.com/vytor/visualdex/internal/testutil"
	"github.com/vytor/visualdex/internal/testutil/mocks"
	"github.com/vytor/visualdex/internal/translation"
)

type errorResponse struct {
	Error struct {
		Code              string `json:"code"`
		Message           string `json:"message"`
		RetryAfterSeconds int64  `json:"retry_after_seconds"`
	} `json:"error"`
}

type downStore struct {
	*kvstore.MemoryStore
}

func (downStore) Ping(context.Context) error { return stderrors.New("connection refused") }

type APISuite struct {
	suite.Suite
	store   *kvstore.MemoryStore
	labeler *mocks.MockLabeler
	clock   *testutil.Clock
	server  *api.Server
	handler http.Handler
}

func (s *APISuite) SetupTest() {
	s.store = kvstore.NewMemoryStore()
	s.labeler = &mocks.MockLabeler{}
	s.clock = testutil.NewClock(time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))

	c := catalog.Default()
	s.server = &api.Server{
		Store: s.store,
		SessionService: services.NewSessionService(services.SessionDeps{
			LearningRepo:   kv.NewLearningRepository(s.store),
			MissionRepo:    kv.NewMissionRepository(s.store),
			QuotaRepo:      kv.NewQuotaRepository(s.store),
			ProgressRepo:   kv.NewProgressRepository(s.store),
			PreferenceRepo: kv.NewPreferenceRepository(s.store),
			Labeler:        s.labeler,
			Generator:      sentence.NewGenerator(c.Sentences, rand.New(rand.NewSource(7))),
			Scheduler:      mission.NewScheduler(c.Environments, 3, 50, rand.New(rand.NewSource(7))),
			Guard:          quota.NewGuard(10, 12*time.Hour),
			Catalog:        c,
			Location:       time.UTC,
			Now:            s.clock.Now,
		}),
		TranslationService: services.NewTranslationService(translation.NewCascade(0), kv.NewTranslationRepository(s.store)),
		PreferenceService:  services.NewPreferenceService(kv.NewPreferenceRepository(s.store), c),
	}
	s.handler = s.server.Routes()
}

func (s *APISuite) TearDownTest() {
	s.labeler.AssertExpectations(s.T())
}

func (s *APISuite) do(method, path, device, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if device != "" {
		req.Header.Set("X-Device-ID", device)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, dst any) {
	s.Require().Equal("application/json", rec.Header().Get("Content-Type"))
	s.Require().NoError(codec.JSON.Unmarshal(rec.Body.Bytes(), dst))
}

func (s *APISuite) decodeError(rec *httptest.ResponseRecorder) errorResponse {
	var body errorResponse
	s.decode(rec, &body)
	return body
}

func (s *APISuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("OK", rec.Body.String())
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (s *APISuite) TestReadyz() {
	rec := s.do(http.MethodGet, "/readyz", "", "")
	s.Equal(http.StatusOK, rec.Code)

	var body api.ReadyResponse
	s.decode(rec, &body)
	s.Equal("ready", body.Status)
}

func (s *APISuite) TestReadyz_StoreDown() {
	s.server.Store = downStore{kvstore.NewMemoryStore()}
	s.handler = s.server.Routes()

	rec := s.do(http.MethodGet, "/readyz", "", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	var body api.ReadyResponse
	s.decode(rec, &body)
	s.Equal("unavailable", body.Status)
}

func (s *APISuite) TestCapture_Label() {
	rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"label":"Cup"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("dev-1", rec.Header().Get("X-Device-ID"))

	var res models.CaptureResult
	s.decode(rec, &res)
	s.Equal(models.OutcomeSentences, res.Outcome)
	s.Equal(catalog.Default().Sentences.Curated["cup"], res.Sentences)
	s.Equal(1, res.Quota.PhotosUsed)
	s.Equal(9, res.Quota.Remaining)
}

func (s *APISuite) TestCapture_ImageGoesThroughVision() {
	img := []byte("fake-jpeg")
	s.labeler.On("DetectLabel", mock.Anything, img).Return("Lamp", nil).Twice()

	for _, encoded := range []string{
		base64.StdEncoding.EncodeToString(img),
		"data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
	} {
		rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"image_base64":"`+encoded+`"}`)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var res models.CaptureResult
		s.decode(rec, &res)
		s.Equal("Lamp", res.Label)
		s.Equal(models.OutcomeSentences, res.Outcome)
	}
}

func (s *APISuite) TestCapture_BadBase64() {
	rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"image_base64":"%%%not-base64"}`)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("CAPTURE_UNPROCESSABLE", s.decodeError(rec).Error.Code)
}

func (s *APISuite) TestCapture_NoInput() {
	rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{}`)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.Equal("CAPTURE_UNPROCESSABLE", s.decodeError(rec).Error.Code)
}

func (s *APISuite) TestCapture_InvalidMode() {
	rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"label":"Cup","mode":"burst"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	body := s.decodeError(rec)
	s.Equal("VALIDATION_ERROR", body.Error.Code)
	s.Contains(body.Error.Message, "mode")
}

func (s *APISuite) TestCapture_MalformedBody() {
	rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"label":`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("BAD_REQUEST", s.decodeError(rec).Error.Code)

	rec = s.do(http.MethodPost, "/api/v1/captures", "dev-1", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestCapture_QuotaExceeded() {
	for i := 0; i < 10; i++ {
		rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"label":"Cup"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
	}

	rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"label":"Cup"}`)
	s.Require().Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("43200", rec.Header().Get("Retry-After"))

	body := s.decodeError(rec)
	s.Equal("QUOTA_EXCEEDED", body.Error.Code)
	s.Equal(int64(43200), body.Error.RetryAfterSeconds)
	s.Contains(body.Error.Message, "12h 0m")

	rec = s.do(http.MethodGet, "/api/v1/quota", "dev-1", "")
	var status models.QuotaStatus
	s.decode(rec, &status)
	s.False(status.CanCapture)
	s.Equal(0, status.Remaining)
	s.Equal("12h 0m", status.RetryAfter)

	// Other devices are unaffected.
	rec = s.do(http.MethodPost, "/api/v1/captures", "dev-2", `{"label":"Cup"}`)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestDevice_MintedWhenAbsent() {
	rec := s.do(http.MethodGet, "/api/v1/quota", "", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "device_id" {
			cookie = c
		}
	}
	s.Require().NotNil(cookie)
	_, err := uuid.Parse(cookie.Value)
	s.NoError(err)
	s.Equal(cookie.Value, rec.Header().Get("X-Device-ID"))
}

func (s *APISuite) TestDevice_CookieIsUsed() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/captures", strings.NewReader(`{"label":"Cup"}`))
	req.AddCookie(&http.Cookie{Name: "device_id", Value: "cookie-device"})
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("cookie-device", rec.Header().Get("X-Device-ID"))

	rec = s.do(http.MethodGet, "/api/v1/learning", "cookie-device", "")
	var learning api.LearningResponse
	s.decode(rec, &learning)
	s.Equal(1, learning.Count)
}

func (s *APISuite) TestDevice_Invalid() {
	for _, device := range []string{"a:b", "has space", strings.Repeat("x", 65)} {
		rec := s.do(http.MethodGet, "/api/v1/quota", device, "")
		s.Equal(http.StatusBadRequest, rec.Code, device)
		s.Equal("BAD_REQUEST", s.decodeError(rec).Error.Code)
	}
}

func (s *APISuite) TestMissions_CompleteThroughCapture() {
	rec := s.do(http.MethodGet, "/api/v1/missions", "dev-1", "")
	s.Require().Equal(http.StatusOK, rec.Code)

	var board models.MissionBoard
	s.decode(rec, &board)
	s.Require().Len(board.Missions, 3)
	s.Equal(3, board.Total)
	s.Equal(models.DayKey("2024-05-10"), board.Day)
	s.Equal("en", board.Language)

	target := board.Missions[1]
	body := `{"label":"` + target.ObjectKey + `","mode":"mission","mission_id":"` + target.ID + `"}`
	rec = s.do(http.MethodPost, "/api/v1/captures", "dev-1", body)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res models.CaptureResult
	s.decode(rec, &res)
	s.Equal(models.OutcomeMissionCompleted, res.Outcome)
	s.Require().NotNil(res.AwardedMission)
	s.Equal(target.ID, res.AwardedMission.ID)
	s.Equal(50, res.Progress.Points)

	rec = s.do(http.MethodGet, "/api/v1/progress", "dev-1", "")
	var progress models.ProgressTotals
	s.decode(rec, &progress)
	s.Equal(50, progress.Points)

	rec = s.do(http.MethodPost, "/api/v1/captures", "dev-1", body)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestMissions_UnknownID() {
	rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"label":"Cup","mode":"mission","mission_id":"mission_9"}`)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.decodeError(rec).Error.Code)
}

func (s *APISuite) TestTranslations() {
	rec := s.do(http.MethodGet, "/api/v1/translations/latest", "dev-1", "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/translations", "dev-1", `{"sentences":["Hello","Bye"],"target":"es"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res models.TranslationResult
	s.decode(rec, &res)
	s.Equal("en", res.Source)
	s.Equal([]string{"[ES] Hello", "[ES] Bye"}, res.Translations)

	rec = s.do(http.MethodGet, "/api/v1/translations/latest", "dev-1", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var latest models.TranslationResult
	s.decode(rec, &latest)
	s.Equal(res, latest)
}

func (s *APISuite) TestTranslations_SlowRemoteFallsBackWithinRequestTimeout() {
	release := make(chan struct{})
	hang := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer hang.Close()
	defer close(release)

	requestTimeout := 500 * time.Millisecond
	cascade := translation.NewCascade(50*time.Millisecond,
		translation.NewRemoteStrategy(hang.URL, "", 5*time.Second),
		translation.NewPatternStrategy(catalog.Default()),
	)
	srv := *s.server
	srv.RequestTimeout = requestTimeout
	srv.TranslationService = services.NewTranslationService(cascade, kv.NewTranslationRepository(s.store),
		services.WithBatchTimeout(requestTimeout*3/4),
	)
	s.handler = srv.Routes()

	start := time.Now()
	rec := s.do(http.MethodPost, "/api/v1/translations", "dev-1", `{"sentences":["This is a bottle.","Hello"],"target":"es"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Less(time.Since(start), requestTimeout)

	var res models.TranslationResult
	s.decode(rec, &res)
	s.Equal([]string{"Esto es un botella.", "[ES] Hello"}, res.Translations)

	rec = s.do(http.MethodGet, "/api/v1/translations/latest", "dev-1", "")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestTranslations_Validation() {
	tooMany := `"s"` + strings.Repeat(`,"s"`, 20)
	cases := []struct {
		field string
		body  string
	}{
		{"sentences", `{"sentences":[],"target":"es"}`},
		{"sentences", `{"sentences":[` + tooMany + `],"target":"es"}`},
		{"sentences[0]", `{"sentences":["` + strings.Repeat("a", 501) + `"],"target":"es"}`},
		{"target", `{"sentences":["Hello"]}`},
	}

	for _, tc := range cases {
		rec := s.do(http.MethodPost, "/api/v1/translations", "dev-1", tc.body)
		s.Equal(http.StatusBadRequest, rec.Code, tc.field)

		resp := s.decodeError(rec)
		s.Equal("VALIDATION_ERROR", resp.Error.Code, tc.field)
		s.Contains(resp.Error.Message, tc.field)
	}
}

func (s *APISuite) TestLearning_ListAndReset() {
	for _, label := range []string{"Cup", "Lamp", "cup"} {
		rec := s.do(http.MethodPost, "/api/v1/captures", "dev-1", `{"label":"`+label+`"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
	}

	rec := s.do(http.MethodGet, "/api/v1/learning", "dev-1", "")
	var learning api.LearningResponse
	s.decode(rec, &learning)
	s.Equal(2, learning.Count)
	s.Equal(2, learning.Objects["cup"].Frequency)

	rec = s.do(http.MethodDelete, "/api/v1/learning", "dev-1", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var reset api.ResetLearningResponse
	s.decode(rec, &reset)
	s.Equal(2, reset.Removed)

	rec = s.do(http.MethodGet, "/api/v1/learning", "dev-1", "")
	learning = api.LearningResponse{}
	s.decode(rec, &learning)
	s.Equal(0, learning.Count)
	s.Empty(learning.Objects)
}

func (s *APISuite) TestLanguagePreference() {
	rec := s.do(http.MethodGet, "/api/v1/preferences/language", "dev-1", "")
	var lang api.LanguageResponse
	s.decode(rec, &lang)
	s.Equal("en", lang.Language)
	s.Equal([]string{"en", "es"}, lang.Available)

	rec = s.do(http.MethodPut, "/api/v1/preferences/language", "dev-1", `{"language":"ES"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	lang = api.LanguageResponse{}
	s.decode(rec, &lang)
	s.Equal("es", lang.Language)

	rec = s.do(http.MethodGet, "/api/v1/missions", "dev-1", "")
	var board models.MissionBoard
	s.decode(rec, &board)
	s.Equal("es", board.Language)

	rec = s.do(http.MethodPut, "/api/v1/preferences/language", "dev-1", `{"language":"fr"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.decodeError(rec).Error.Code)

	rec = s.do(http.MethodPut, "/api/v1/preferences/language", "dev-1", `{}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestUnknownRoute() {
	rec := s.do(http.MethodGet, "/api/v1/nope", "dev-1", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.decodeError(rec).Error.Code)

	rec = s.do(http.MethodPatch, "/api/v1/quota", "dev-1", "")
	s.Equal(http.StatusMethodNotAllowed, rec.Code)
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
