// Package document validates Brazilian tax ids (CPF for people, CNPJ for companies).
package document

import "github.com/mentora/checkout/internal/models"

const (
	cpfLength  = 11
	cnpjLength = 14
)

var (
	cnpjFirstWeights  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjSecondWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits strips everything but ASCII digits, so "529.982.247-25" becomes "52998224725".
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// Type returns the document type implied by the number of digits, or "" when neither fits.
func Type(s string) string {
	switch len(Digits(s)) {
	case cpfLength:
		return models.DocumentCPF
	case cnpjLength:
		return models.DocumentCNPJ
	}
	return ""
}

// Valid checks s against the checksum rules of docType. Punctuation is ignored.
func Valid(docType, s string) bool {
	switch docType {
	case models.DocumentCPF:
		return ValidCPF(s)
	case models.DocumentCNPJ:
		return ValidCNPJ(s)
	}
	return false
}

// ValidAny accepts either a valid CPF or a valid CNPJ.
func ValidAny(s string) bool {
	t := Type(s)
	return t != "" && Valid(t, s)
}

// ValidCPF reports whether s is a well-formed CPF with correct check digits.
func ValidCPF(s string) bool {
	d := toInts(Digits(s))
	if len(d) != cpfLength || repeated(d) {
		return false
	}
	return cpfCheck(d[:9], 10) == d[9] && cpfCheck(d[:10], 11) == d[10]
}

// ValidCNPJ reports whether s is a well-formed CNPJ with correct check digits.
func ValidCNPJ(s string) bool {
	d := toInts(Digits(s))
	if len(d) != cnpjLength || repeated(d) {
		return false
	}
	return cnpjCheck(d[:12], cnpjFirstWeights) == d[12] && cnpjCheck(d[:13], cnpjSecondWeights) == d[13]
}

func cpfCheck(d []int, weight int) int {
	sum := 0
	for _, n := range d {
		sum += n * weight
		weight--
	}
	r := (sum * 10) % 11
	if r == 10 {
		return 0
	}
	return r
}

func cnpjCheck(d []int, weights []int) int {
	sum := 0
	for i, n := range d {
		sum += n * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func toInts(s string) []int {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = int(s[i] - '0')
	}
	return out
}

// repeated catches 000.000.000-00 and friends, which pass the checksum.
func repeated(d []int) bool {
	for _, n := range d[1:] {
		if n != d[0] {
			return false
		}
	}
	return true
}
