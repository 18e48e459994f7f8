package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GenericEchoValidator plugs go-playground/validator struct tags into echo.
type GenericEchoValidator struct {
	Validator *validator.Validate
}

func NewGenericEchoValidator() *GenericEchoValidator {
	return &GenericEchoValidator{Validator: validator.New()}
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	if err := gv.Validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request body: %s", describe(err)))
	}
	return nil
}

// describe flattens validation errors into "Field (tag=param)" items.
func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), rule))
	}
	return strings.Join(parts, ", ")
}
