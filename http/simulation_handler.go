package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"credit-simulator/domain"
)

// Simulator is the engine behind the simulation endpoint.
type Simulator interface {
	Handle(ctx context.Context, req domain.SimulationRequest) (domain.SimulationResult, error)
}

// simulationRequest uses pointers so a missing field can be told apart from
// a zero value.
type simulationRequest struct {
	Capital      *decimal.Decimal `json:"capital" validate:"required"`
	Duration     *int             `json:"duration" validate:"required,gt=0"`
	AnnualIncome *decimal.Decimal `json:"annualIncome" validate:"required"`
	CreditType   string           `json:"creditType" validate:"required"`
}

func (r simulationRequest) toDomain() domain.SimulationRequest {
	return domain.SimulationRequest{
		Capital:      *r.Capital,
		Duration:     *r.Duration,
		AnnualIncome: *r.AnnualIncome,
		CreditType:   domain.CreditType(r.CreditType),
	}
}

type SimulationHandler struct {
	simulator Simulator
	validate  *validator.Validate
	logger    logrus.FieldLogger
}

func NewSimulationHandler(simulator Simulator, logger logrus.FieldLogger) *SimulationHandler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &SimulationHandler{simulator: simulator, validate: v, logger: logger}
}

func (h *SimulationHandler) StartSimulation(w http.ResponseWriter, r *http.Request) {
	var body simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	if err := h.validate.Struct(body); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, describeFieldError(fe))
		}
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Code:   "invalid_request",
			Error:  "request is missing or has malformed fields",
			Fields: fields,
		})
		return
	}

	result, err := h.simulator.Handle(r.Context(), body.toDomain())
	if err != nil {
		h.respondSimulationError(w, r, err)
		return
	}

	// encode first so a failure does not leave a half written 200
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(result); err != nil {
		h.logger.WithError(err).Error("encode simulation response")
		respondError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WithError(err).Warn("write simulation response")
	}
}

func (h *SimulationHandler) respondSimulationError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:   "validation_failed",
			Error:  validationErr.Error(),
			Fields: validationErr.Violations,
		})
	case errors.Is(err, domain.ErrUnsupportedCreditType):
		respondError(w, http.StatusBadRequest, "unsupported_credit_type", err.Error())
	case errors.Is(err, context.Canceled):
		// client went away, nothing useful to send
		h.logger.WithError(err).Debug("simulation canceled")
	default:
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("simulation failed")
		respondError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
