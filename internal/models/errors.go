package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCNAE    = errors.New("cnae not mapped to any annex")
	ErrUnknownAnnex   = errors.New("annex not present in reference tables")
	ErrUnknownRegime  = errors.New("unknown regime")
	ErrYearOutOfRange = errors.New("year out of range")
	ErrMissingYear    = errors.New("transition year missing from reference tables")
)

// ValidationError: entrada malformada ou fora de faixa, rejeitada antes do motor.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ClassificationError indica um CNAE sem anexo mapeado. É fatal para o cálculo.
type ClassificationError struct {
	CNAE string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("cnae %s: %v", e.CNAE, ErrUnknownCNAE)
}

func (e *ClassificationError) Unwrap() error { return ErrUnknownCNAE }
