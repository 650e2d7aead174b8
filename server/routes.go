package server

func (s *Server) initRoutes() {
	// OAuth entry and callback are part of a browser redirect chain; they
	// carry no auth requirement of their own.
	s.RegisterRouteHandler("GET "+RouteGoogleLogin, ChainMiddleware(s.GoogleLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteGoogleCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.APIMiddleware()...))

	// Logout accepts either an established session or a bearer token.
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Example protected resources.
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteAdmin, ChainMiddleware(s.AdminHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())...))

	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
}
