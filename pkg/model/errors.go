package model

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad matches any *LoadError.
	ErrLoad = errors.New("model load failed")

	// ErrPrediction matches any *PredictionError.
	ErrPrediction = errors.New("prediction failed")

	// ErrUnseenCategory is returned in strict mode for categorical values
	// the model was not trained on.
	ErrUnseenCategory = errors.New("unseen category")
)

// LoadError reports a model artifact that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error loading model: %v", e.Err)
	}
	return fmt.Sprintf("error loading model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// PredictionError reports a record the model could not score.
// Field is empty when the failure is not tied to a single column.
type PredictionError struct {
	Field string
	Err   error
}

func (e *PredictionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("error predicting churn for field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("error predicting churn: %v", e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

func (e *PredictionError) Is(target error) bool {
	return target == ErrPrediction
}
