package form

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator"

	"github.com/naveenspark/liftlog/pkg/domain"
)

// Errors maps a field path such as "exercises[0].sets" to a message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, ", ")
}

// Validator checks payload structs against their validate tags.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool { //nolint:errcheck // static tag
		return domain.ValidCategory(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates s and returns nil or Errors.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := Errors{}
	for _, fe := range verrs {
		out[fieldPath(fe.Namespace())] = message(fe)
	}
	return out
}

// fieldPath drops the leading struct name from a namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "category":
		return "must be one of: " + strings.Join(domain.Categories, ", ")
	case "eqfield":
		return "does not match"
	default:
		return "is not valid"
	}
}

// ValidateWorkoutDate requires a date that is not after today.
func ValidateWorkoutDate(raw string, now time.Time) (domain.Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Timestamp{}, Errors{"date": "is required"}
	}
	ts, err := domain.ParseTimestamp(raw)
	if err != nil {
		return domain.Timestamp{}, Errors{"date": "must be a date like 2025-02-25"}
	}
	y, m, d := now.Date()
	endOfToday := time.Date(y, m, d, 23, 59, 59, 0, now.Location())
	if ts.After(endOfToday) {
		return domain.Timestamp{}, Errors{"date": "cannot be in the future"}
	}
	return ts, nil
}
