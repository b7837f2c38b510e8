package api

// Authentication service endpoints
const (
	AuthRegister     = "/api/v1/register"
	AuthLogin        = "/api/v1/login"
	AuthVerifyTOTP   = "/api/v1/login/verify"
	AuthLogout       = "/api/v1/logout"
	AuthResetRequest = "/api/v1/reset/request"
	AuthResetConfirm = "/api/v1/reset"

	// Admin endpoints require a bearer token for an admin account.
	AdminLock   = "/api/v1/admin/accounts/{username}/lock"
	AdminUnlock = "/api/v1/admin/accounts/{username}/unlock"
)

// PublicEndpoints defines endpoints that don't require authentication
var PublicEndpoints = map[string]bool{
	AuthRegister:     true,
	AuthLogin:        true,
	AuthVerifyTOTP:   true,
	AuthLogout:       true,
	AuthResetRequest: true,
	AuthResetConfirm: true,
}

// ThrottledEndpoints are subject to the per-IP login rate limiter.
var ThrottledEndpoints = map[string]bool{
	AuthLogin:        true,
	AuthVerifyTOTP:   true,
	AuthResetRequest: true,
	AuthResetConfirm: true,
}
