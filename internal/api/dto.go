package api

import (
	"github.com/vytor/visualdex/internal/models"
)

type CaptureRequest struct {
	ImageBase64 string `json:"image_base64"`
	Label       string `json:"label" validate:"max=100"`
	Mode        string `json:"mode" validate:"omitempty,oneof=free mission"`
	MissionID   string `json:"mission_id" validate:"max=32"`
}

func (r *CaptureRequest) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type TranslateRequest struct {
	Sentences []string `json:"sentences" validate:"required,min=1,max=20,dive,max=500"`
	Source    string   `json:"source" validate:"omitempty,max=8"`
	Target    string   `json:"target" validate:"required,max=8"`
}

func (r *TranslateRequest) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type LanguageRequest struct {
	Language string `json:"language" validate:"required,max=8"`
}

func (r *LanguageRequest) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return validationError(err)
	}
	return nil
}

type LanguageResponse struct {
	Language  string   `json:"language"`
	Available []string `json:"available"`
}

type LearningResponse struct {
	Count   int                    `json:"count"`
	Objects models.LearningProfile `json:"objects"`
}

type ResetLearningResponse struct {
	Removed int `json:"removed"`
}

type ReadyResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
