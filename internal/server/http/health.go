package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/defaultrisk/internal/model"
)

type HealthResponseDTO struct {
	Status    string               `json:"status" enum:"ok"`
	Artifacts []model.ArtifactInfo `json:"artifacts"`
}

type HealthOutput struct {
	Body HealthResponseDTO
}

// ArtifactLister reports the artifacts a process has loaded.
type ArtifactLister interface {
	Artifacts() []model.ArtifactInfo
}

// HealthHandler reports liveness and the loaded artifacts.
type HealthHandler struct {
	artifacts ArtifactLister
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(api huma.API, artifacts ArtifactLister) *HealthHandler {
	h := &HealthHandler{artifacts: artifacts}

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Report service health and loaded artifacts",
		Tags:        []string{"health"},
	}, h.handleHealth)

	return h
}

func (h *HealthHandler) handleHealth(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{
		Body: HealthResponseDTO{
			Status:    "ok",
			Artifacts: h.artifacts.Artifacts(),
		},
	}, nil
}
