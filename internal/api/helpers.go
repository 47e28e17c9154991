package api

import (
	"encoding/base64"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/vytor/visualdex/internal/codec"
	"github.com/vytor/visualdex/internal/errors"
	"github.com/vytor/visualdex/internal/logger"
)

// maxBodyBytes bounds request bodies; captures carry a base64 photo.
const maxBodyBytes = 12 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := codec.JSON.Marshal(v)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// decodeJSON reads the request body into dst and runs its validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst validatable) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewBadRequestError("request body too large")
		}
		return errors.NewBadRequestError("could not read request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errors.NewBadRequestError("request body is empty")
	}
	if err := codec.JSON.Unmarshal(body, dst); err != nil {
		return errors.NewBadRequestError("malformed JSON body")
	}
	return dst.Validate()
}

// decodeImage accepts raw base64 or a data URL.
func decodeImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		}
	}
	img, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.NewUnprocessableError("could not process the capture: image is not valid base64")
	}
	return img, nil
}
