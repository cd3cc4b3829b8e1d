// Package title derives a short topical label for a new session from the
// first user message. Derivation is pure: the same message always yields
// the same title.
package title

import "strings"

const (
	maxTitleRunes  = 50
	truncateRunes  = 47
	ellipsisMarker = "..."
)

type keywordTitle struct {
	keyword string
	title   string
}

// Ordered: first match wins, so more specific keywords come first.
var bioTitles = []keywordTitle{
	{"crispr", "CRISPR Design"},
	{"dna", "DNA Sequence Analysis"},
	{"rna", "RNA Analysis"},
	{"protein", "Protein Analysis"},
	{"blast", "BLAST Search"},
	{"alignment", "Sequence Alignment"},
	{"genome", "Genome Analysis"},
	{"fastq", "FASTQ Quality Analysis"},
	{"fasta", "FASTA File Analysis"},
	{"pcr", "PCR Primer Design"},
	{"primer", "Primer Design"},
	{"phylogen", "Phylogenetic Analysis"},
	{"mutation", "Mutation Analysis"},
	{"sequencing", "Sequencing Data"},
	{"gene", "Gene Analysis"},
}

var programmingTitles = []keywordTitle{
	{"biopython", "Biopython Script"},
	{"python", "Python Script"},
	{"pandas", "Data Analysis Script"},
	{"pipeline", "Analysis Pipeline"},
	{"script", "Script Help"},
	{"debug", "Debugging Help"},
	{"error", "Error Troubleshooting"},
	{"code", "Code Help"},
}

var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true,
	"what": true, "when": true, "where": true, "which": true,
	"have": true, "help": true, "please": true, "about": true,
	"could": true, "would": true, "there": true, "these": true,
	"need": true, "want": true, "lets": true, "some": true,
}

// Generate derives a session title from the first user message.
// Precedence: bioinformatics keyword > programming keyword > first
// meaningful words > raw truncation. Output is capped at 50 characters.
func Generate(message string) string {
	lower := strings.ToLower(message)

	for _, kt := range bioTitles {
		if strings.Contains(lower, kt.keyword) {
			return truncate(kt.title)
		}
	}
	for _, kt := range programmingTitles {
		if strings.Contains(lower, kt.keyword) {
			return truncate(kt.title)
		}
	}
	if t := meaningfulWords(message); t != "" {
		return truncate(t)
	}
	return truncate(strings.TrimSpace(message))
}

// meaningfulWords extracts the first one or two words longer than three
// characters that are not stop words.
func meaningfulWords(message string) string {
	var picked []string
	for _, w := range strings.Fields(message) {
		w = strings.Trim(w, ".,!?;:\"'()[]{}")
		if len(w) <= 3 {
			continue
		}
		if stopWords[strings.ToLower(w)] {
			continue
		}
		picked = append(picked, capitalize(w))
		if len(picked) == 2 {
			break
		}
	}
	return strings.Join(picked, " ")
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxTitleRunes {
		return s
	}
	return string(r[:truncateRunes]) + ellipsisMarker
}
