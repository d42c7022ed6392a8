package session

import "errors"

var (
	InvalidCredentialsErr = errors.New("invalid credentials")
	NoRefreshTokenErr     = errors.New("no refresh token stored")
	RefreshRejectedErr    = errors.New("refresh rejected by authority")
)
