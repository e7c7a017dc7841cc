package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// remove qualquer coisa que não seja dígito ("6201-5/01" -> "6201501")
func SanitizeCNAE(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// CNAE subclasse tem 7 dígitos; só checamos tamanho e que não é tudo zero.
func ValidateCNAE(cnae string) bool {
	if len(cnae) != 7 {
		return false
	}
	return strings.Trim(cnae, "0") != ""
}

// FormatCNAE devolve a máscara oficial 0000-0/00. Entradas inválidas voltam como vieram.
func FormatCNAE(cnae string) string {
	if !ValidateCNAE(cnae) {
		return cnae
	}
	return cnae[:4] + "-" + cnae[4:5] + "/" + cnae[5:]
}

// NormalizeCity gera a chave de busca da cidade: sem acento, minúscula, espaços simples.
// "  São  Paulo " -> "sao paulo"
func NormalizeCity(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
