package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ekisa-team/defaultrisk/internal/service"
)

type (
	PredictRequestDTO struct {
		Features []float64 `json:"features" minItems:"1" nullable:"false" doc:"Feature vector, in the order the model was fitted on"`
	}

	PredictResponseDTO struct {
		Prediction         int     `json:"prediction" enum:"0,1" doc:"Predicted class, 1 means default"`
		DefaultProbability float64 `json:"default_probability" minimum:"0" maximum:"1" doc:"Probability of the default class, rounded to 4 decimals"`
	}
)

type (
	PredictInput struct {
		Body PredictRequestDTO
	}

	PredictOutput struct {
		Body PredictResponseDTO
	}
)

// Predictor turns one feature vector into one prediction.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (*service.Result, error)
}

// PredictHandler handles HTTP requests for predictions.
type PredictHandler struct {
	service Predictor
}

// NewPredictHandler creates a new PredictHandler instance.
func NewPredictHandler(api huma.API, svc Predictor) *PredictHandler {
	h := &PredictHandler{service: svc}

	huma.Register(api, huma.Operation{
		OperationID:   "predict",
		Method:        http.MethodPost,
		Path:          "/predict",
		Summary:       "Predict the default risk of a feature vector",
		Tags:          []string{"predict"},
		DefaultStatus: http.StatusOK,
	}, h.handlePredict)

	return h
}

// handlePredict handles the predict operation. Body validation has already
// run, so any error here is a server-side failure and is reported without
// detail.
func (h *PredictHandler) handlePredict(ctx context.Context, input *PredictInput) (*PredictOutput, error) {
	result, err := h.service.Predict(ctx, input.Body.Features)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to predict",
			"error", err,
			"n_features", len(input.Body.Features),
			"request_id", RequestIDFromContext(ctx),
		)
		return nil, huma.Error500InternalServerError("Internal Server Error")
	}

	return &PredictOutput{
		Body: PredictResponseDTO{
			Prediction:         result.Prediction,
			DefaultProbability: result.DefaultProbability,
		},
	}, nil
}
