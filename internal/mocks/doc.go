// Package mocks provides centralized mock implementations for testing.
//
// Mocks use function fields so each test overrides only the behavior it
// exercises; unset functions fall back to the default values on the struct.
//
// Usage:
//
//	jwtService := &mocks.MockJWTService{
//	    ValidateErr: auth.ErrExpiredToken,
//	}
package mocks
