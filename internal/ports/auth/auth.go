// Package auth define el puerto de autenticación: el router sólo conoce AuthVerifier y Claims.
package auth

import (
	"context"
	"time"
)

// Claims identifica al dueño de los medicamentos e historial del request.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time // cero = sin vencimiento (modo dev)
}

// AuthVerifier valida un bearer token; jwtauth es la implementación.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
