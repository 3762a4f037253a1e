package handlers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// RegisterValidators installs the ledger binding tags on gin's validator engine:
// ledgerdate, decimalgte0 and decimalgt0.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("unexpected binding validator engine %T", binding.Validator.Engine()))
		}
		// Decimals are validated through their string form.
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		tags := map[string]validator.Func{
			"ledgerdate":  validateLedgerDate,
			"decimalgte0": validateDecimalSign(false),
			"decimalgt0":  validateDecimalSign(true),
		}
		for tag, fn := range tags {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("register %s validator: %v", tag, err))
			}
		}
	})
}

func validateLedgerDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := dto.ParseDate(value)
	return err == nil
}

func validateDecimalSign(strict bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		if !accounting.HasAmountScale(d) {
			return false
		}
		if strict {
			return d.IsPositive()
		}
		return !d.IsNegative()
	}
}
