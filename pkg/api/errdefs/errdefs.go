package errdefs

import (
	"errors"
	"fmt"
)

type ErrNotFound struct {
	model string
}

func NewErrNotFound(model string) ErrNotFound {
	return ErrNotFound{
		model: model,
	}
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.model)
}

type ErrAlreadyExists struct {
	model string
}

func NewErrAlreadyExists(model string) ErrAlreadyExists {
	return ErrAlreadyExists{
		model: model,
	}
}

func (err ErrAlreadyExists) Error() string {
	return fmt.Sprintf("%s already exists", err.model)
}

type ErrCannotBeEmpty struct {
	model string
}

func NewErrCannotBeEmpty(model string) ErrCannotBeEmpty {
	return ErrCannotBeEmpty{
		model: model,
	}
}

func (err ErrCannotBeEmpty) Error() string {
	return fmt.Sprintf("%s cannot be empty", err.model)
}

func IsNotFound(err error) bool {
	var target ErrNotFound
	return errors.As(err, &target)
}

func IsAlreadyExists(err error) bool {
	var target ErrAlreadyExists
	return errors.As(err, &target)
}

func IsCannotBeEmpty(err error) bool {
	var target ErrCannotBeEmpty
	return errors.As(err, &target)
}
