package services

import (
	"errors"

	"socialchat/internal/repositories"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = repositories.ErrNotFound
)
