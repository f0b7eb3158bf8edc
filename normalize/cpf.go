// Package normalize holds the small pure helpers the admin portal applies
// to upstream data: CPF validation, category de-duplication and repair of
// accent corruption in strings that went through a Latin-1 hop.
package normalize

// ValidCPF reports whether a CPF is structurally valid: 11 digits, not all
// the same, with both check digits correct. Formatting characters
// ("529.982.247-25") are tolerated.
func ValidCPF(cpf string) bool {
	digits := make([]int, 0, 11)
	for _, r := range cpf {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r == '.' || r == '-' || r == ' ':
			// formatting, skip
		default:
			return false
		}
	}
	if len(digits) != 11 {
		return false
	}

	// Sequences like 000... or 111... pass the check-digit math but are
	// not valid CPFs.
	allSame := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(digits, 9) == digits[9] && checkDigit(digits, 10) == digits[10]
}

// checkDigit computes the CPF verifier digit over the first n digits, with
// weights n+1 down to 2.
func checkDigit(digits []int, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += digits[i] * (n + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}
