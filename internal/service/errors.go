package service

import (
	"go-jewelry-store/internal/apperror"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/pkg/validator"
)

func validationFailed(errs []*validator.ErrorResponse) *apperror.Error {
	details := make([]apperror.Detail, len(errs))
	for i, e := range errs {
		details[i] = apperror.Detail{Field: e.FailedField, Message: e.Message}
	}
	return apperror.Validation("Validation failed", details...)
}

// storageError classifies a repository failure for the given resource.
func storageError(err error, resource string) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	switch {
	case repository.IsNotFound(err):
		return apperror.NotFound(resource)
	case repository.IsUniqueViolation(err):
		return apperror.Duplicate(resource + " already exists").Wrap(err)
	default:
		return apperror.Internal(err)
	}
}
