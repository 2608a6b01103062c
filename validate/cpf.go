package validate

import "strings"

// CPF validates a Brazilian taxpayer number and returns its 11 digits with all
// punctuation removed.
func CPF(raw string) (string, error) {
	v, err := NonEmpty(raw, "cpf")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) != 11 {
		return "", invalid("cpf", "must have 11 digits", raw)
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return "", invalid("cpf", "all digits are equal", raw)
	}
	if checkDigit(digits[:9]) != int(digits[9]-'0') {
		return "", invalid("cpf", "first check digit does not match", raw)
	}
	if checkDigit(digits[:10]) != int(digits[10]-'0') {
		return "", invalid("cpf", "second check digit does not match", raw)
	}
	return digits, nil
}

// checkDigit weights the digits from len+1 down to 2 and reduces the sum
// modulo 11.
func checkDigit(digits string) int {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
