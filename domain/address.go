package domain

import (
	"encoding/json"
	"strings"
)

// Address is an immutable shipping address; every field is required.
type Address struct {
	street  string
	city    string
	state   string
	zip     string
	country string
}

// NewAddress trims and validates all five fields.
func NewAddress(street, city, state, zip, country string) (Address, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"street", &street},
		{"city", &city},
		{"state", &state},
		{"zip code", &zip},
		{"country", &country},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return Address{}, Errorf(ErrCodeInvalidAddress, "%s is required", f.name)
		}
	}
	return Address{street: street, city: city, state: state, zip: zip, country: country}, nil
}

func (a Address) Street() string  { return a.street }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
func (a Address) ZipCode() string { return a.zip }
func (a Address) Country() string { return a.country }

// IsDefined reports whether the value was constructed.
func (a Address) IsDefined() bool { return a.street != "" }

func (a Address) String() string {
	return a.street + ", " + a.city + ", " + a.state + " " + a.zip + ", " + a.country
}

type addressJSON struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{a.street, a.city, a.state, a.zip, a.country})
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var raw addressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError(ErrCodeInvalidAddress, "malformed address", err)
	}
	parsed, err := NewAddress(raw.Street, raw.City, raw.State, raw.ZipCode, raw.Country)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
