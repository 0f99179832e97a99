package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrMissingRole = errors.New("user has no role")
var ErrRoleMismatch = errors.New("account role does not match requested role")
var ErrUIDMismatch = errors.New("uid mismatch between token and session")
var ErrNoSession = errors.New("no stored session")
var ErrPermissionDenied = errors.New("background location permission denied")
var ErrBackendRejected = errors.New("backend rejected request")
var ErrValidation = errors.New("validation failed")
var ErrResetCodeInvalid = errors.New("password reset code invalid or expired")
