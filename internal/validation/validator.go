// Package validation installs the request validation rules used by the HTTP
// layer and turns their failures into field-level messages.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// TagName is the struct tag read by the engine. It matches gin's binding tag.
const TagName = "binding"

var registerPattern = regexp.MustCompile(`^([A-Za-zÁÉÍÓÚáéíóúÑñÜü]+ )*[A-Za-zÁÉÍÓÚáéíóúÑñÜü]+$`)

// Validator implements gin's binding.StructValidator on top of go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the herd-specific tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(TagName)
	v.RegisterTagNameFunc(jsonFieldName)

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("register", validateRegister)
	_ = v.RegisterValidation("agegroup", validateAgeGroup)

	v.RegisterCustomTypeFunc(optionalIDValue, models.OptionalID{})
	v.RegisterStructValidation(cattleWeightsRule, models.CattleInput{}, models.CattlePatch{})

	return &Validator{validate: v}
}

// ValidateStruct validates structs and pointers to structs; anything else passes.
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return v.validate.Struct(obj)
}

// Engine exposes the underlying validator, as gin expects.
func (v *Validator) Engine() any {
	return v.validate
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// optionalIDValue lets numeric tags see the id inside an OptionalID. A null or
// absent id validates as empty, so omitempty skips it.
func optionalIDValue(field reflect.Value) any {
	opt, ok := field.Interface().(models.OptionalID)
	if !ok || opt.ID == nil {
		return nil
	}
	return *opt.ID
}

func validateRegister(fl validator.FieldLevel) bool {
	return registerPattern.MatchString(fl.Field().String())
}

func validateAgeGroup(fl validator.FieldLevel) bool {
	return models.AgeGroup(fl.Field().String()).IsKnown()
}

// cattleWeightsRule requires the quarterly weight to exceed the initial weight
// when a payload carries both.
func cattleWeightsRule(sl validator.StructLevel) {
	var initial, quarterly *float64
	switch in := sl.Current().Interface().(type) {
	case models.CattleInput:
		initial, quarterly = in.InitWeight, in.QuarterlyWeight
	case models.CattlePatch:
		initial, quarterly = in.InitWeight, in.QuarterlyWeight
	default:
		return
	}
	if initial == nil || quarterly == nil {
		return
	}
	if *quarterly <= *initial {
		sl.ReportError(quarterly, "quarterlyWeight", "QuarterlyWeight", "gtweight", "initWeight")
	}
}
