package store

import (
	"errors"
	"strings"
)

// note is a minimal entity used to exercise the stores.
type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (n note) Validate() error {
	if n.ID == "" {
		return errors.New("missing id")
	}
	return nil
}

type noteCodec struct{}

func (noteCodec) Header() []string { return []string{"id", "text"} }

func (noteCodec) Row(n note) []string { return []string{n.ID, n.Text} }

func (noteCodec) Parse(fields []string) (note, error) {
	n := note{ID: strings.TrimSpace(fields[0]), Text: fields[1]}
	return n, n.Validate()
}
