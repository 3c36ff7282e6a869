package dto

import (
	"html"
	"reflect"
	"strings"

	"wallet-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("decimal_positive", validateDecimalPositive)
		_ = v.RegisterValidation("decimal_nonneg", validateDecimalNonNeg)
		_ = v.RegisterValidation("spend_category", validateCategory)
		_ = v.RegisterValidation("spend_mood", validateMood)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
	}
}

// validateDecimalPositive accepts strictly positive decimal strings.
func validateDecimalPositive(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

// validateDecimalNonNeg accepts zero or positive decimal strings.
func validateDecimalNonNeg(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

func validateCategory(fl validator.FieldLevel) bool {
	return domain.ValidCategory(domain.Category(fl.Field().String()))
}

func validateMood(fl validator.FieldLevel) bool {
	return domain.ValidMood(domain.Mood(fl.Field().String()))
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return domain.ValidPaymentMethod(domain.PaymentMethod(fl.Field().String()))
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			switch elem.Kind() {
			case reflect.String:
				elem.SetString(sanitize(elem.String()))
			case reflect.Struct:
				sanitizeFields(elem)
			}
		}
	}
}

func sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
