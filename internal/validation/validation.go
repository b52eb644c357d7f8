// Package validation turns struct-tag constraints into itemized field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
)

var webURLPattern = regexp.MustCompile(`^https?://.+`)

// messages overrides the generated message for a field.tag pair.
var messages = map[string]string{
	"email.email":        "Please provide a valid email address",
	"email.required":     "Please provide a valid email address",
	"message.min":        "Message must be between 10 and 2000 characters",
	"message.max":        "Message must be between 10 and 2000 characters",
	"slug.required":      "Slug is required",
	"slug.required_with": "Slug could not be derived from the title",
	"githubUrl.weburl":   "Please provide a valid URL",
	"liveUrl.weburl":     "Please provide a valid URL",
}

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator that reports JSON field names and knows the
// custom "weburl" and "stringlist" tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Both registrations only fail on an empty tag or nil func.
	_ = v.RegisterValidation("weburl", isWebURL)
	_ = v.RegisterValidation("stringlist", isStringList)

	return &Validator{validate: v}
}

// Struct validates s. Every violated rule produces one FieldError, so an
// empty message reports both "required" and its length rule; identical
// field/message pairs are reported once. The result is nil or a
// *customerrors.ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation could not run: %w", err)
	}

	out := &customerrors.ValidationError{}
	seen := make(map[customerrors.FieldError]bool)
	add := func(fe customerrors.FieldError) {
		if !seen[fe] {
			seen[fe] = true
			out.Errors = append(out.Errors, fe)
		}
	}
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		add(customerrors.FieldError{Field: field, Message: messageFor(field, fe)})
		for _, later := range v.laterViolations(s, fe) {
			add(customerrors.FieldError{Field: field, Message: messageFor(field, later)})
		}
	}
	return out
}

// laterViolations runs the rules that follow the failed one on the same field.
// validator stops at the first failing rule of a field; the rules after it
// are checked one by one against the field value.
func (v *Validator) laterViolations(s any, fe validator.FieldError) []validator.FieldError {
	if fe.Value() == nil {
		return nil
	}
	rules := strings.Split(ruleTag(reflect.TypeOf(s), fe.StructNamespace()), ",")

	start := -1
	for i, rule := range rules {
		if strings.SplitN(rule, "=", 2)[0] == fe.Tag() {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var out []validator.FieldError
	for _, rule := range rules[start:] {
		if rule == "dive" || strings.Contains(rule, "|") {
			break
		}
		if rule == "" || rule == "omitempty" || strings.HasPrefix(rule, "required") {
			continue
		}
		var verrs validator.ValidationErrors
		if errors.As(v.validate.Var(fe.Value(), rule), &verrs) {
			out = append(out, verrs...)
		}
	}
	return out
}

// ruleTag returns the validate tag of the field at ns, a struct namespace
// like "contactRecord.Message". Sliced or mapped paths yield "".
func ruleTag(t reflect.Type, ns string) string {
	parts := strings.Split(ns, ".")
	tag := ""
	for _, name := range parts[1:] {
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t == nil || t.Kind() != reflect.Struct || strings.Contains(name, "[") {
			return ""
		}
		f, ok := t.FieldByName(name)
		if !ok {
			return ""
		}
		t = f.Type
		tag = f.Tag.Get("validate")
	}
	return tag
}

// fieldPath drops the leading struct name from a namespace like "contactForm.message".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(field string, fe validator.FieldError) string {
	last := field
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		last = field[i+1:]
	}
	if msg, ok := messages[last+"."+fe.Tag()]; ok {
		return msg
	}

	label := Label(last)
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "Please provide a valid email address"
	case "weburl":
		return "Please provide a valid URL"
	case "stringlist":
		return label + " must be an array of strings"
	}
	return label + " is invalid"
}

// Label turns a camelCase field name into a sentence-case label: "longDescription" -> "Long description".
func Label(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isWebURL(fl validator.FieldLevel) bool {
	return webURLPattern.MatchString(fl.Field().String())
}

// isStringList accepts a sequence whose every element is a string. Scalars,
// objects and mixed arrays fail.
func isStringList(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < f.Len(); i++ {
			el := f.Index(i)
			if el.Kind() == reflect.Interface {
				el = el.Elem()
			}
			if el.Kind() != reflect.String {
				return false
			}
		}
		return true
	}
	return false
}
