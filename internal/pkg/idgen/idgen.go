// Package idgen produces the opaque 24-character lowercase hex identifiers
// used for every stored record.
package idgen

import (
	"fmt"
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	Length   = 24
	alphabet = "0123456789abcdef"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

func New() (string, error) {
	id, err := gonanoid.Generate(alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("generate id failed: %w", err)
	}
	return id, nil
}

// Valid reports whether id has the identifier shape. It says nothing about
// whether a record with that id exists.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}
