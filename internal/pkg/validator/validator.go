package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/restaurant-roulette/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// В сообщениях используем имена полей из JSON, как их видит клиент
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate - валидация структуры; ошибки полей собираются в *errors.ValidationError
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}

	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, fieldIssue(fe))
	}
	return errors.NewValidationError(issues)
}

// Var - валидация одиночного значения по тегу
func Var(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

func fieldIssue(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("`%s` is required.", fe.Field())
	case "max":
		return fmt.Sprintf("`%s` must be at most %s characters.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("`%s` must be at least %s characters.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("`%s` must be one of: %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("`%s` is invalid.", fe.Field())
	}
}
