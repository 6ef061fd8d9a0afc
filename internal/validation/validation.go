// Package validation checks caller-supplied input against the domain rules
// and translates failures into model errors.
package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/pickupgames/internal/model"
)

// Credentials is a username and password pair supplied at register or login
type Credentials struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Event validates event input: end time after start time, at least MinPlayers
func Event(ctx context.Context, input model.EventInput) error {
	return translate(validate.StructCtx(ctx, input))
}

// Account validates the credential pair used by Register and Login
func Account(ctx context.Context, creds Credentials) error {
	return translate(validate.StructCtx(ctx, creds))
}

// translate maps the first failing field to its model error
func translate(err error) error {
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}

	fe := vErrs[0]
	switch fe.StructField() {
	case "EndTime":
		return model.ErrInvalidTimeRange
	case "MaxPlayers":
		return model.ErrInvalidMaxPlayers
	default:
		return fmt.Errorf("%w: %s failed %s", model.ErrInvalidInput, fe.Field(), fe.Tag())
	}
}
