package handlers

import (
	"reflect"
	"sync"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the decimal validators used by the request DTOs to gin's validator:
// dgte0 (not negative) and money (at most domain.MoneyScale decimal places).
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// validate decimals by their string form instead of descending into the struct
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
			d, ok := fieldDecimal(fl)
			return ok && !d.IsNegative()
		})
		_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
			d, ok := fieldDecimal(fl)
			return ok && d.Equal(d.Truncate(domain.MoneyScale))
		})
	})
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}
