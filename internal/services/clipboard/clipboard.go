// Package clipboard abstracts the system clipboard behind a small interface
// so the listing pipeline can be tested without touching the real clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier receives the fully rendered listing when copying was requested.
type Copier interface {
	Copy(text string) error
}

// Service is the production Copier backed by github.com/atotto/clipboard.
type Service struct{}

// NewService returns the system-clipboard Copier.
func NewService() *Service {
	return &Service{}
}

// Copy replaces the clipboard contents with text.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
