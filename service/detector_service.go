package service

import (
	"sort"
	"strings"
	"unicode"

	"lexiq-backend/models"
	"lexiq-backend/patterns"
)

// DetectorService scans extracted terms for known interchangeable-term
// groups. Detection is read-only over the pattern tables.
type DetectorService struct {
	tables *patterns.Tables
}

// DetectorServiceOption is a functional option for DetectorService
type DetectorServiceOption func(*DetectorService)

// DetectorWithPatternTables sets the pattern tables
func DetectorWithPatternTables(tables *patterns.Tables) DetectorServiceOption {
	return func(s *DetectorService) {
		s.tables = tables
	}
}

// NewDetectorService creates a new detector service
func NewDetectorService(opts ...DetectorServiceOption) *DetectorService {
	s := &DetectorService{tables: patterns.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DetectInterchangeableTerms checks each term against the domain table and
// then the general table, returning a match per detected group member
func (s *DetectorService) DetectInterchangeableTerms(terms []string, domain, context string) []models.InterchangeableMatch {
	domainLower := strings.ToLower(domain)

	var matches []models.InterchangeableMatch
	matches = append(matches, s.checkDomain(terms, domainLower, context)...)
	if domainLower != "general" {
		matches = append(matches, s.checkDomain(terms, "general", context)...)
	}

	return matches
}

func (s *DetectorService) checkDomain(terms []string, domain, context string) []models.InterchangeableMatch {
	groups := s.tables.Groups(domain)
	if len(groups) == 0 {
		return nil
	}

	// Stable iteration keeps detection deterministic when a term belongs
	// to more than one group
	baseTerms := make([]string, 0, len(groups))
	for baseTerm := range groups {
		baseTerms = append(baseTerms, baseTerm)
	}
	sort.Strings(baseTerms)

	var matches []models.InterchangeableMatch
	for _, term := range terms {
		termLower := strings.ToLower(strings.TrimSpace(term))
		if termLower == "" {
			continue
		}

		for _, baseTerm := range baseTerms {
			alternatives := groups[baseTerm]
			if !groupContains(baseTerm, alternatives, termLower) {
				continue
			}

			confidence := 0.8
			if termLower == strings.ToLower(baseTerm) {
				confidence = 0.9
			}

			var remaining []string
			for _, alt := range alternatives {
				if !strings.EqualFold(alt, termLower) {
					remaining = append(remaining, alt)
				}
			}

			if len(remaining) > 0 {
				matches = append(matches, models.InterchangeableMatch{
					BaseTerm:     baseTerm,
					DetectedTerm: termLower,
					Alternatives: remaining,
					Context:      snippetAround(context, termLower),
					Confidence:   confidence,
					Domain:       domain,
				})
			}

			// One group per term is enough
			break
		}
	}

	return matches
}

func groupContains(baseTerm string, alternatives []string, termLower string) bool {
	if strings.ToLower(baseTerm) == termLower {
		return true
	}
	for _, alt := range alternatives {
		if strings.ToLower(alt) == termLower {
			return true
		}
	}
	return false
}

// snippetAround extracts up to 50 characters either side of the first
// case-insensitive occurrence of term, falling back to the first 100
// characters when the term is absent
func snippetAround(text, term string) string {
	textRunes := []rune(text)
	termRunes := []rune(term)

	idx := foldIndex(textRunes, termRunes)
	if idx < 0 {
		return truncate(text, 100)
	}

	// Byte offsets into the original text, so casings that change byte
	// length under ToLower cannot shift the window
	start := len(string(textRunes[:idx]))
	end := start + len(string(textRunes[idx:idx+len(termRunes)]))
	return extractContext(text, start, end)
}

// foldIndex returns the rune index of the first occurrence of term in text
// under simple case folding, or -1 when term is empty or absent
func foldIndex(text, term []rune) int {
	if len(term) == 0 {
		return -1
	}
	for i := 0; i+len(term) <= len(text); i++ {
		match := true
		for j, r := range term {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(r) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
