package image

import (
	"context"
	"errors"
)

// ErrNoImage is returned once every backend has been tried without producing bytes.
var ErrNoImage = errors.New("no image returned")

// Payload is what a backend hands back: inline bytes, a URL to fetch, or neither.
type Payload struct {
	Data []byte
	URL  string
}

type Backend interface {
	Name() string
	Generate(context.Context, string) (Payload, error)
}

// Generator resolves a prompt to image bytes and the name of the backend that made them.
type Generator interface {
	Generate(context.Context, string) ([]byte, string, error)
}
