package validation

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

// ValidationBuilder collects field rules and reports every failure at once.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

// Required rejects empty strings (after trimming), nil pointers, zero times
// and empty slices.
func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case time.Time:
			missing = v.IsZero()
		case *time.Time:
			missing = v == nil || v.IsZero()
		case []string:
			missing = len(v) == 0
		case nil:
			missing = true
		}
		if missing {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" && len(v) < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// Email does a shape check only; deliverability is not our concern.
func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		at := strings.LastIndex(v, "@")
		if at < 1 || at == len(v)-1 || strings.ContainsAny(v, " \t") {
			return fv.fail(fmt.Sprintf("%s must be a valid email address", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of %s", fv.FieldName, strings.Join(allowed, ", ")), errors.ErrCodeValidationFailed)
	})
	return fv
}

// NotBefore requires the field's time to be equal to or after other.
// Zero values on either side are left to Required.
func (fv *FieldValidator) NotBefore(otherName string, other time.Time) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(time.Time)
		if !ok || v.IsZero() || other.IsZero() {
			return nil
		}
		if v.Before(other) {
			return fv.fail(fmt.Sprintf("%s must not be before %s", fv.FieldName, otherName), errors.ErrCodeInvalidRange)
		}
		return nil
	})
	return fv
}

// NotAfter requires the field's time to be equal to or before other.
func (fv *FieldValidator) NotAfter(otherName string, other time.Time) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var v time.Time
		switch t := value.(type) {
		case time.Time:
			v = t
		case *time.Time:
			if t == nil {
				return nil
			}
			v = *t
		default:
			return nil
		}
		if v.IsZero() || other.IsZero() {
			return nil
		}
		if v.After(other) {
			return fv.fail(fmt.Sprintf("%s must not be after %s", fv.FieldName, otherName), errors.ErrCodeInvalidRange)
		}
		return nil
	})
	return fv
}

// NonNegative accepts int, *int, float64 and *float64.
func (fv *FieldValidator) NonNegative() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		negative := false
		switch v := value.(type) {
		case int:
			negative = v < 0
		case *int:
			negative = v != nil && *v < 0
		case float64:
			negative = v < 0
		case *float64:
			negative = v != nil && *v < 0
		}
		if negative {
			return fv.fail(fmt.Sprintf("%s must not be negative", fv.FieldName), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}
			if details, ok := err.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: err.Message,
					Code:    string(err.Code),
				})
			}
			// first failure per field is enough
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}
