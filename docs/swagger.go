package docs

// @title           RideLink API
// @version         1.0
// @description     Real-time ride-hailing backend: ride lifecycle operations over HTTP and live ride events over WebSocket.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
