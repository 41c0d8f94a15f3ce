// Package uuid wraps google/uuid so IDs can be bound from gin URI and
// query parameters.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

// UUID embeds the google/uuid type so all its methods stay available.
type UUID struct {
	google_uuid.UUID
}

// Nil is the zero UUID, used to detect unset IDs.
var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

func NewString() string {
	return google_uuid.NewString()
}

// UnmarshalParam parses a UUID from a request parameter. The empty
// string parses to Nil so optional query parameters can be left out.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}
