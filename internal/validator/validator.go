// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"spendbook/internal/normalize"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
// Currency codes use the engine's built-in iso4217 validator and need no
// registration here.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("tx_date", validateTxDate)
		_ = v.RegisterValidation("budget_month", validateBudgetMonth)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

// validateTxDate accepts calendar-valid YYYY-MM-DD dates only, so a shape
// match like 2024-13-40 fails here rather than deeper in the service.
func validateTxDate(fl validator.FieldLevel) bool {
	return normalize.ValidDate(fl.Field().String())
}

func validateBudgetMonth(fl validator.FieldLevel) bool {
	return normalize.ValidMonth(fl.Field().String())
}
