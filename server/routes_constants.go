package server

const (
	RouteGoogleLogin    = "/auth/google"
	RouteGoogleCallback = "/auth/google/callback"
	RouteLogout         = "/auth/logout"

	RouteDashboard = "/dashboard"
	RouteAdmin     = "/admin"
	RouteHealthz   = "/healthz"
)
