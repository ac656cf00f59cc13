package app

import (
	httpMW "github.com/chordist/chordist-backend/internal/http/middleware"
	"github.com/chordist/chordist-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}
