package domain

import (
	"regexp"
	"strings"
)

const (
	minNameLength = 2
	maxNameLength = 100
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	skuPattern   = regexp.MustCompile(`^[A-Za-z]+-\d{4}-[A-Za-z]{3}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Name is a validated person or product name.
type Name struct {
	value string
}

// NewName normalizes and validates a name.
func NewName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Name{}, validationErrorf("invalid name: must not be empty")
	}
	if len(trimmed) < minNameLength || len(trimmed) > maxNameLength {
		return Name{}, validationErrorf("invalid name: %q", value)
	}
	if !namePattern.MatchString(trimmed) {
		return Name{}, validationErrorf("invalid name: %q", value)
	}
	return Name{value: titleCase(trimmed)}, nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func (n Name) String() string { return n.value }

// Email is a validated email address. Empty is allowed for anonymous customers.
type Email struct {
	value string
}

// NewEmail normalizes and validates an email address.
func NewEmail(value string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return Email{}, nil
	}
	if !emailPattern.MatchString(normalized) {
		return Email{}, validationErrorf("invalid email address: %q", value)
	}
	return Email{value: normalized}, nil
}

func (e Email) String() string { return e.value }

// Empty reports whether no address is set.
func (e Email) Empty() bool { return e.value == "" }

// Document is a Brazilian CPF. Empty is allowed for anonymous customers.
type Document struct {
	value string
}

// NewDocument strips formatting and validates the CPF check digits.
func NewDocument(value string) (Document, error) {
	clean := nonDigits.ReplaceAllString(value, "")
	if clean == "" {
		return Document{}, nil
	}
	if !validCPF(clean) {
		return Document{}, validationErrorf("invalid CPF: %q", value)
	}
	return Document{value: clean}, nil
}

func (d Document) String() string { return d.value }

// Empty reports whether no document is set.
func (d Document) Empty() bool { return d.value == "" }

// Formatted renders the CPF as XXX.XXX.XXX-XX.
func (d Document) Formatted() string {
	if len(d.value) != 11 {
		return d.value
	}
	return d.value[:3] + "." + d.value[3:6] + "." + d.value[6:9] + "-" + d.value[9:]
}

func validCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	allSame := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	digits := make([]int, 11)
	for i, r := range cpf {
		digits[i] = int(r - '0')
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digits[i] * (10 - i)
	}
	check := (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	if digits[9] != check {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += digits[i] * (11 - i)
	}
	check = (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	return digits[10] == check
}

// SKU is a stock keeping unit in LETTERS-4DIGITS-3LETTERS form, e.g. ABC-1234-XYZ.
type SKU struct {
	value string
}

// NewSKU normalizes and validates a SKU.
func NewSKU(value string) (SKU, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if len(normalized) <= 8 || len(normalized) >= 15 {
		return SKU{}, validationErrorf("invalid SKU: %q", value)
	}
	if !skuPattern.MatchString(normalized) {
		return SKU{}, validationErrorf("invalid SKU: %q", value)
	}
	return SKU{value: normalized}, nil
}

func (s SKU) String() string { return s.value }
