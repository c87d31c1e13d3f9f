package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// BodyField names request-level failures that are not tied to one field.
const BodyField = "body"

// EmptyPatchMessage is returned when an update carries no field at all.
const EmptyPatchMessage = "at least one filled field is needed to be able to update the entity"

// ValidationError describes the first offending field of a request.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// EmptyPatch is the error for an update without any field.
func EmptyPatch() *ValidationError {
	return &ValidationError{Field: BodyField, Message: EmptyPatchMessage}
}

// Translate turns a binding failure into a ValidationError. Validator failures
// report their first field; decoding failures are reported against the body.
func Translate(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = BodyField
		}
		return &ValidationError{Field: field, Message: fmt.Sprintf("%q must be a %s", field, jsonKind(typeErr.Type.Kind().String()))}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ValidationError{Field: BodyField, Message: "request body is not valid JSON"}
	}

	if errors.Is(err, io.EOF) {
		return &ValidationError{Field: BodyField, Message: "request body is required"}
	}

	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		field := strings.Trim(rest, `"`)
		return &ValidationError{Field: field, Message: fmt.Sprintf("%q is not allowed", field)}
	}

	return &ValidationError{Field: BodyField, Message: msg}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%q must be greater than %s", field, fe.Param())
	case "min":
		if isText(fe) {
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isText(fe) {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "register":
		return fmt.Sprintf("%q with value %q fails to match the required pattern", field, fmt.Sprint(fe.Value()))
	case "agegroup":
		return fmt.Sprintf("%q must be one of [%s]", field, strings.Join(models.AgeGroupLabels(), ", "))
	case "gtweight":
		return fmt.Sprintf("%q must be greater than %q", field, fe.Param())
	default:
		return fmt.Sprintf("%q failed on the %q rule", field, fe.Tag())
	}
}

func isText(fe validator.FieldError) bool {
	return fe.Kind().String() == "string"
}

func jsonKind(kind string) string {
	switch kind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "ptr", "struct":
		return "valid value"
	default:
		return kind
	}
}
