package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Validators return "" when the value is acceptable and a user-facing
// message otherwise, so forms can show them next to the field as-is.

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// plates like ABCD12 (current format) or AB1234 (older format)
var plateRegex = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{2,4}$`)

const (
	MinPasswordLength = 8
	MinPhoneDigits    = 8
	MaxPhoneDigits    = 15
	MinVehicleYear    = 1950
)

// ValidateEmail checks the local@domain.tld shape
func ValidateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "El correo es obligatorio"
	}
	if !strings.Contains(email, "@") {
		return "El correo debe contener @"
	}
	if !emailRegex.MatchString(email) {
		return "Formato de correo inválido"
	}
	return ""
}

// ValidateStrongPassword enforces length, character classes and no whitespace.
// Rules are checked in a fixed order and the first failing one is reported.
func ValidateStrongPassword(password string) string {
	if password == "" {
		return "La contraseña es obligatoria"
	}
	if len([]rune(password)) < MinPasswordLength {
		return "La contraseña debe tener al menos 8 caracteres"
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return "La contraseña no debe contener espacios"
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return "Debe incluir al menos una letra mayúscula"
	case !hasLower:
		return "Debe incluir al menos una letra minúscula"
	case !hasDigit:
		return "Debe incluir al menos un número"
	case !hasSymbol:
		return "Debe incluir al menos un símbolo"
	}
	return ""
}

// ValidatePasswordConfirmation checks that both password fields match
func ValidatePasswordConfirmation(password, confirmation string) string {
	if confirmation == "" {
		return "Confirma tu contraseña"
	}
	if password != confirmation {
		return "Las contraseñas no coinciden"
	}
	return ""
}

// ValidatePhone accepts only digit strings of 8 to 15 characters
func ValidatePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "El teléfono es obligatorio"
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return "El teléfono solo debe contener números"
		}
	}
	if len(phone) < MinPhoneDigits || len(phone) > MaxPhoneDigits {
		return "El teléfono debe tener entre 8 y 15 dígitos"
	}
	return ""
}

// ValidateName requires at least two letters and no digits
func ValidateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "El nombre es obligatorio"
	}
	letters := 0
	for _, r := range name {
		if unicode.IsDigit(r) {
			return "El nombre no debe contener números"
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 2 {
		return "El nombre es demasiado corto"
	}
	return ""
}

// ValidatePlate normalizes case and spacing before matching
func ValidatePlate(plate string) string {
	p := NormalizePlate(plate)
	if p == "" {
		return "La patente es obligatoria"
	}
	if !plateRegex.MatchString(p) {
		return "Formato de patente inválido"
	}
	return ""
}

// NormalizePlate upper-cases a plate and strips spaces and dashes
func NormalizePlate(plate string) string {
	p := strings.ToUpper(strings.TrimSpace(plate))
	p = strings.ReplaceAll(p, " ", "")
	return strings.ReplaceAll(p, "-", "")
}

// ValidateYear accepts a vehicle year between MinVehicleYear and next year
func ValidateYear(year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return "El año es obligatorio"
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return "El año debe ser numérico"
	}
	if y < MinVehicleYear || y > time.Now().Year()+1 {
		return "Año fuera de rango"
	}
	return ""
}

// ValidateRequired reports an empty field by name
func ValidateRequired(value, field string) string {
	if strings.TrimSpace(value) == "" {
		return "El campo " + field + " es obligatorio"
	}
	return ""
}
