package textnorm

import "strings"

// mojibake pairs produced by UTF-8 job feeds decoded as CP437/latin1
// somewhere upstream. The list covers the sequences actually observed in
// collected postings; anything else is left alone.
var encodingRepairer = strings.NewReplacer(
	"├®", "é",
	"├á", "à",
	"├¿", "è",
	"├¬", "ê",
	"├«", "î",
	"├´", "ô",
	"├╗", "û",
	"├ç", "ç",
	"├ë", "É",
	"├Ç", "À",
	"┬░", "°",
	"┬½", "«",
	"┬╗", "»",
	"ÔÇÖ", "'",
	"ÔÇó", "•",
	"ÔÇô", "–",
)

// RepairEncoding fixes doubly-decoded UTF-8 sequences in place. Text without
// mojibake markers passes through untouched.
func RepairEncoding(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "├┬Ô") {
		return s
	}
	return encodingRepairer.Replace(s)
}
