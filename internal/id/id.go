// Package id generates and resolves entity ids.
package id

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ShortLen is how many characters Short keeps.
const ShortLen = 8

var (
	// ErrUnknown means no id matches a reference.
	ErrUnknown = errors.New("no such id")
	// ErrAmbiguous means a prefix matches more than one id.
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// New returns a fresh random id.
func New() string {
	return uuid.New().String()
}

// derived is the namespace of ids computed by Derive.
var derived = uuid.MustParse("6f1d3c2a-9b4e-4f7a-8c21-5e0b7d9a4c13")

// Derive returns an id determined by parts: the same parts always give the
// same id.
func Derive(parts ...string) string {
	return uuid.NewSHA1(derived, []byte(strings.Join(parts, "\x00"))).String()
}

// Short abbreviates id for display.
func Short(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}

// Resolve finds the id that ref names among ids: an exact match wins,
// otherwise ref must be a prefix of exactly one id.
func Resolve(ref string, ids []string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrUnknown)
	}
	var match string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %q", ErrAmbiguous, ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknown, ref)
	}
	return match, nil
}
