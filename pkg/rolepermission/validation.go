package rolepermission

import (
	"errors"
	"reflect"

	"code.cloudfoundry.org/permstore/pkg/api/errdefs"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func newValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})

	return v
}

// validateStruct reports the first blank required field as ErrCannotBeEmpty
// named after its label tag.
func (s *Service) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return errdefs.NewErrCannotBeEmpty(fieldErrs[0].Field())
	}

	return err
}

func (s *Service) requireNotBlank(value string, errBlank error) error {
	if err := s.validate.Var(value, "notblank"); err != nil {
		return errBlank
	}

	return nil
}
