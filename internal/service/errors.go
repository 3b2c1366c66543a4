package service

// SignupCode identifies why a registration was rejected.
type SignupCode string

const (
	SignupMissingField     SignupCode = "missing_field"
	SignupInvalidUsername  SignupCode = "invalid_username"
	SignupPasswordMismatch SignupCode = "password_mismatch"
	SignupWeakPassword     SignupCode = "weak_password"
	SignupUsernameTaken    SignupCode = "username_taken"
)

// SignupError is returned by Register. Message is the text shown to the user.
type SignupError struct {
	Code    SignupCode
	Message string
}

func (e *SignupError) Error() string { return e.Message }

// Is matches any *SignupError with the same code, so callers can write
// errors.Is(err, service.ErrUsernameTaken).
func (e *SignupError) Is(target error) bool {
	t, ok := target.(*SignupError)
	return ok && t.Code == e.Code
}

var (
	ErrSignupMissingField = &SignupError{Code: SignupMissingField, Message: "All fields are required"}
	ErrSignupInvalidName  = &SignupError{Code: SignupInvalidUsername, Message: "Username must be letters, numbers, or underscores only."}
	ErrPasswordMismatch   = &SignupError{Code: SignupPasswordMismatch, Message: "Passwords do not match"}
	ErrWeakPassword       = &SignupError{Code: SignupWeakPassword, Message: "Weak password: use letters and digits (min 6 chars)"}
	ErrUsernameTaken      = &SignupError{Code: SignupUsernameTaken, Message: "Username already taken"}
)

// AuthCode identifies why a login was rejected.
type AuthCode string

const (
	AuthMissingField       AuthCode = "missing_field"
	AuthInvalidUsername    AuthCode = "invalid_username"
	AuthInvalidCredentials AuthCode = "invalid_credentials"
)

// AuthError is returned by Authenticate. Message is the text shown to the user.
type AuthError struct {
	Code    AuthCode
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Code == e.Code
}

var (
	ErrAuthMissingField   = &AuthError{Code: AuthMissingField, Message: "Enter username and password"}
	ErrAuthInvalidName    = &AuthError{Code: AuthInvalidUsername, Message: "Username must be letters, numbers, or underscores only."}
	ErrInvalidCredentials = &AuthError{Code: AuthInvalidCredentials, Message: "Invalid credentials"}
)

// newSignupError copies a sentinel so callers never share a mutable value.
func newSignupError(sentinel *SignupError) error {
	e := *sentinel
	return &e
}

func newAuthError(sentinel *AuthError) error {
	e := *sentinel
	return &e
}
