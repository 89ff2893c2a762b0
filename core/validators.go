package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validation is a custom validation tag with its english message.
// Func is nil for tags only reported by struct-level validations.
// Override replaces the default translation of a builtin tag.
type Validation struct {
	Tag      string
	Text     string
	Func     validator.Func
	Override bool
}

var globalValidations = []Validation{
	{Tag: "notblank", Text: "this field cannot be blank", Func: StringFunc(func(s string) bool { return strings.TrimSpace(s) != "" })},
	{Tag: "required", Text: "this field is required", Override: true},
	{Tag: "required_with", Text: "this field is required", Override: true},
}

// NewTranslator returns the english translator used for validation error messages.
func NewTranslator() ut.Translator {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	return translator
}

// InitValidators sets up validate for the whole app: default translations, JSON field names and global tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	RegisterValidations(validate, translator, globalValidations...)
}

// RegisterValidations registers the tags and their translations.
func RegisterValidations(validate *validator.Validate, translator ut.Translator, validations ...Validation) {
	for _, v := range validations {
		if v.Func != nil {
			_ = validate.RegisterValidation(v.Tag, v.Func)
		}
		registerTranslation(validate, translator, v)
	}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, v Validation) {
	_ = validate.RegisterTranslation(
		v.Tag, translator,
		func(t ut.Translator) error { return t.Add(v.Tag, v.Text, v.Override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(v.Tag, fe.Field())
			return s
		},
	)
}

// StringFunc adapts a string predicate to a validator.Func. Non-string fields are invalid.
func StringFunc(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, isStr := fl.Field().Interface().(string)
		return isStr && ok(s)
	}
}
