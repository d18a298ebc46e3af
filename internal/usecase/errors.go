package usecase

import apperrors "github.com/location-microservice/internal/pkg/errors"

var (
	errNoAcceptableRows = apperrors.ErrBadRequest.WithMessage("no rows in the uploaded CSV were acceptable")
	errCenterNotFound   = apperrors.ErrNotFound.WithMessage("center not found or inactive")
	errOfficeNotFound   = apperrors.ErrNotFound.WithMessage("office not found for this center")
	errFlagNotFound     = apperrors.ErrNotFound.WithMessage("deletion flag not found")
	errFlagConflict     = apperrors.ErrConflict.WithMessage("deletion flag already approved")
	errInvalidDecision  = apperrors.ErrBadRequest.WithMessage("decision must be approve or reject")
)
