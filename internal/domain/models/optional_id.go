package models

import (
	"bytes"
	"encoding/json"
)

// OptionalID is a patch field that tells an absent key from an explicit null.
// Set is true whenever the key was present; ID is nil when it was null.
type OptionalID struct {
	Set bool
	ID  *int64
}

// SetID returns an OptionalID pointing at id.
func SetID(id int64) OptionalID {
	return OptionalID{Set: true, ID: &id}
}

// ClearID returns an OptionalID that clears the reference.
func ClearID() OptionalID {
	return OptionalID{Set: true}
}

// Cleared reports whether the field was sent as null.
func (o OptionalID) Cleared() bool {
	return o.Set && o.ID == nil
}

// UnmarshalJSON implements json.Unmarshaler. It is only called when the key is
// present, null included.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.ID = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.ID == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.ID)
}
