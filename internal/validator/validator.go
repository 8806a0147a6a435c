package validator

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/tokiwa-akira/gkentei/internal/errors"
	"github.com/tokiwa-akira/gkentei/internal/models"
)

// ratioTolerance is the accepted deviation of a difficulty-ratio sum
// from 1.0, covering float rounding on the client side.
const ratioTolerance = 0.01

// Validator combines struct-tag validation with the checks tags cannot
// express (ratio sums, difficulty labels, creativity bounds).
type Validator struct {
	structValidator *validator.Validate

	creativityMin float64
	creativityMax float64
}

func New(creativityMin, creativityMax float64) *Validator {
	return &Validator{
		structValidator: validator.New(),
		creativityMin:   creativityMin,
		creativityMax:   creativityMax,
	}
}

// ValidateStruct validates struct tags only.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := errors.As(err, &fieldErrs); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.NewValidationError(
				strings.ToLower(fe.Field()),
				"failed "+fe.Tag()+" constraint",
				fe.Value(),
			)
		}
		return err
	}
	return nil
}

// ValidateExamRequest performs full validation of an exam request:
// struct tags, ratio keys ("1".."5"), non-negative values, and a ratio
// sum of 1.0 within tolerance.
func (v *Validator) ValidateExamRequest(req *models.ExamGenerateRequest) error {
	if err := v.ValidateStruct(req); err != nil {
		return err
	}

	sum := 0.0
	for label, ratio := range req.DifficultyRatio {
		d, err := strconv.Atoi(label)
		if err != nil || d < models.DifficultyMin || d > models.DifficultyMax {
			return apperrors.NewValidationError("difficulty_ratio",
				"difficulty label must be an integer 1-5", label)
		}
		if ratio < 0 {
			return apperrors.NewValidationError("difficulty_ratio",
				"ratio values must be non-negative", ratio)
		}
		sum += ratio
	}
	if math.Abs(sum-1.0) > ratioTolerance {
		return apperrors.NewValidationError("difficulty_ratio",
			"ratio values must sum to 1.0", sum)
	}
	return nil
}

// ValidateSearch checks the result cap against the configured maximum.
func (v *Validator) ValidateSearch(k, maxResults int) error {
	if k < 1 {
		return apperrors.NewValidationError("k", "result count must be at least 1", k)
	}
	if k > maxResults {
		return apperrors.NewValidationError("k",
			"result count exceeds the configured maximum", k)
	}
	return nil
}

// ValidateParaphrase enforces non-empty text and the configured
// creativity bounds.
func (v *Validator) ValidateParaphrase(req *models.ParaphraseRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text", "text must not be empty", req.Text)
	}
	if req.Creativity < v.creativityMin || req.Creativity > v.creativityMax {
		return apperrors.NewValidationError("creativity",
			"creativity is outside the configured bounds", req.Creativity)
	}
	return nil
}
