package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minCustomerNameLength = 2
	maxCustomerNameLength = 100
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,18}[0-9]$`)
)

// CustomerInfo holds contact details captured on an order. Phone is optional.
type CustomerInfo struct {
	name  string
	email string
	phone string
}

// NewCustomerInfo validates name length, email format and, when present, phone format.
func NewCustomerInfo(name, email, phone string) (CustomerInfo, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	if n := utf8.RuneCountInString(name); n < minCustomerNameLength || n > maxCustomerNameLength {
		return CustomerInfo{}, Errorf(ErrCodeInvalidCustomerInfo, "name must be between %d and %d characters", minCustomerNameLength, maxCustomerNameLength)
	}
	if !emailPattern.MatchString(email) {
		return CustomerInfo{}, Errorf(ErrCodeInvalidCustomerInfo, "email %q is not valid", email)
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return CustomerInfo{}, Errorf(ErrCodeInvalidCustomerInfo, "phone %q is not valid", phone)
	}
	return CustomerInfo{name: name, email: email, phone: phone}, nil
}

func (c CustomerInfo) Name() string  { return c.name }
func (c CustomerInfo) Email() string { return c.email }
func (c CustomerInfo) Phone() string { return c.phone }

func (c CustomerInfo) HasPhone() bool { return c.phone != "" }

// IsDefined reports whether the value was constructed.
func (c CustomerInfo) IsDefined() bool { return c.email != "" }

func (c CustomerInfo) WithName(name string) (CustomerInfo, error) {
	return NewCustomerInfo(name, c.email, c.phone)
}

func (c CustomerInfo) WithEmail(email string) (CustomerInfo, error) {
	return NewCustomerInfo(c.name, email, c.phone)
}

// WithPhone replaces the phone; an empty value clears it.
func (c CustomerInfo) WithPhone(phone string) (CustomerInfo, error) {
	return NewCustomerInfo(c.name, c.email, phone)
}

type customerInfoJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func (c CustomerInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(customerInfoJSON{Name: c.name, Email: c.email, Phone: c.phone})
}

func (c *CustomerInfo) UnmarshalJSON(data []byte) error {
	var raw customerInfoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError(ErrCodeInvalidCustomerInfo, "malformed customer info", err)
	}
	parsed, err := NewCustomerInfo(raw.Name, raw.Email, raw.Phone)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
