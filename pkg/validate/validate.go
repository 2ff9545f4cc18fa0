package validate

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const NotFutureTag = "notfuture"

// MessageTag overrides the message of single rules of a field, as in
// `msg:"required=Name can not be empty!;email=Email is invalid!"`.
const MessageTag = "msg"

var timeType = reflect.TypeOf(time.Time{})

type CustomValidator struct {
	validator *validator.Validate
	now       func() time.Time
}

// NewCustomValidator returns the echo validator used by every handler.
// Field names in messages come from the `label` tag, then from `json`.
func NewCustomValidator() *CustomValidator {
	cv := &CustomValidator{
		validator: validator.New(),
		now:       time.Now,
	}
	cv.validator.RegisterTagNameFunc(fieldLabel)
	if err := cv.validator.RegisterValidation(NotFutureTag, cv.notFuture); err != nil {
		panic(err)
	}
	return cv
}

// WithClock replaces the reference time used by the notfuture rule.
func (cv *CustomValidator) WithClock(now func() time.Time) *CustomValidator {
	cv.now = now
	return cv
}

// Validate returns an error carrying the message of the first failed field.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if msg, ok := override(reflect.TypeOf(i), fe); ok {
			return errors.New(msg)
		}
		return errors.New(Message(fe))
	}
	return err
}

// override looks the failed rule up in the field's msg tag.
func override(typ reflect.Type, fe validator.FieldError) (string, bool) {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return "", false
	}
	fld, ok := typ.FieldByName(fe.StructField())
	if !ok {
		return "", false
	}
	for _, rule := range strings.Split(fld.Tag.Get(MessageTag), ";") {
		tag, msg, found := strings.Cut(rule, "=")
		if found && tag == fe.Tag() {
			return msg, true
		}
	}
	return "", false
}

func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", fe.Field())
	case "email":
		return fmt.Sprintf("%s is invalid!", fe.Field())
	case NotFutureTag:
		return fmt.Sprintf("%s can not be a future date", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// notFuture accepts any struct convertible to time.Time and compares by
// calendar date, so "today" is always valid.
func (cv *CustomValidator) notFuture(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Struct || !field.Type().ConvertibleTo(timeType) {
		return false
	}
	t := field.Convert(timeType).Interface().(time.Time)
	if t.IsZero() {
		return true
	}
	y, m, d := cv.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := t.Date()
	return !time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).After(today)
}

func fieldLabel(fld reflect.StructField) string {
	if label := fld.Tag.Get("label"); label != "" {
		return label
	}
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
