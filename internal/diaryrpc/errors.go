package diaryrpc

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus maps a domain error onto a gRPC status.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(Code(err), err.Error())
}

// Code picks the gRPC code for a domain error.
func Code(err error) codes.Code {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrRoleRequired), errors.Is(err, common.ErrSelfPartner):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrNotOwner):
		return codes.PermissionDenied
	case errors.Is(err, common.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrRefreshTokenExpired):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrQuery), errors.Is(err, common.ErrImagePersist):
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// FromStatus turns a status received by a client back into an error that
// matches the domain sentinels with errors.Is.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var sentinel error
	switch st.Code() {
	case codes.InvalidArgument:
		sentinel = common.ErrValidation
	case codes.PermissionDenied:
		sentinel = common.ErrNotOwner
	case codes.NotFound:
		sentinel = common.ErrNotFound
	case codes.AlreadyExists:
		sentinel = common.ErrAlreadyExists
	case codes.Unauthenticated:
		sentinel = common.ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		sentinel = common.ErrQuery
	default:
		return err
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
