package user

import (
	"github.com/PrjctQ/qcore/pkg/apierror"
)

func errIncorrectCredentials() *apierror.APIError {
	return apierror.NewUnauthorized("Incorrect email or password")
}
