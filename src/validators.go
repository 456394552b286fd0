package main

import (
	"hbs/src/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var referenceNoValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	ref, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return utils.ValidReferenceNo(utils.NormalizeReferenceNo(ref))
}

var transactionTypeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return utils.ValidTransactionType(t)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("refno", referenceNoValidatorFunc)
		v.RegisterValidation("txntype", transactionTypeValidatorFunc)
	}
}
