package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"lexiq-backend/cache"
	"lexiq-backend/models"

	"github.com/google/uuid"
)

var (
	capitalizedWordRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
	punctuationRe     = regexp.MustCompile(`[.,;:!?()"'\[\]{}]`)
	numberRe          = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
	multiSpaceRe      = regexp.MustCompile(`  +`)
	tagRe             = regexp.MustCompile(`<[^>]+>`)
	placeholderRe     = regexp.MustCompile(`\{[^}]+\}|%[sd]|\$\{[^}]+\}`)
)

// contentCacheTTL bounds how long a fingerprinted check result stays cached
const contentCacheTTL = time.Hour

// ConsistencyService runs a battery of independent checks against a
// source/target segment pair and aggregates them into a quality verdict.
// Results are deterministic for identical inputs and cached by content
// fingerprint.
type ConsistencyService struct {
	cache cache.Cache
}

// ConsistencyServiceOption is a functional option for ConsistencyService
type ConsistencyServiceOption func(*ConsistencyService)

// WithConsistencyCache sets the result cache
func WithConsistencyCache(c cache.Cache) ConsistencyServiceOption {
	return func(s *ConsistencyService) {
		s.cache = c
	}
}

// NewConsistencyService creates a new consistency service
func NewConsistencyService(opts ...ConsistencyServiceOption) *ConsistencyService {
	s := &ConsistencyService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckConsistencyRequest represents a request to check a segment pair
type CheckConsistencyRequest struct {
	Source         string
	Target         string
	SourceLanguage string
	TargetLanguage string
	Glossary       []models.GlossaryTerm
	CustomRules    []models.CustomRule
	CheckTypes     []models.CheckType
	SkipCache      bool
}

// CheckConsistencyResult represents the issues and statistics of one check run
type CheckConsistencyResult struct {
	Issues     []models.Issue    `json:"issues"`
	Statistics models.Statistics `json:"statistics"`
}

// CacheKey returns the content fingerprint for a segment pair
func CacheKey(source, target, sourceLanguage, targetLanguage string) string {
	content := source + "|" + target + "|" + sourceLanguage + "-" + targetLanguage
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CheckConsistency runs the configured checks. Identical inputs return the
// cached result unchanged; cache failures only cost a recompute.
func (s *ConsistencyService) CheckConsistency(ctx context.Context, req CheckConsistencyRequest) *CheckConsistencyResult {
	key := CacheKey(req.Source, req.Target, req.SourceLanguage, req.TargetLanguage)

	if s.cache != nil && !req.SkipCache {
		if cached, ok := s.cache.Get(ctx, key); ok {
			if result, ok := cached.(*CheckConsistencyResult); ok {
				return result
			}
		}
	}

	checkTypes := req.CheckTypes
	if len(checkTypes) == 0 {
		checkTypes = models.AllCheckTypes()
	}

	var issues []models.Issue
	for _, ct := range checkTypes {
		switch ct {
		case models.CheckSegmentAlignment:
			issues = append(issues, s.checkSegmentAlignment(req.Source, req.Target)...)
		case models.CheckGlossaryCompliance:
			issues = append(issues, s.checkGlossaryCompliance(req.Source, req.Target, req.Glossary)...)
		case models.CheckCapitalization:
			issues = append(issues, s.checkCapitalization(req.Target)...)
		case models.CheckPunctuation:
			issues = append(issues, s.checkPunctuation(req.Source, req.Target)...)
		case models.CheckNumberFormat:
			issues = append(issues, s.checkNumberFormat(req.Source, req.Target)...)
		case models.CheckWhitespace:
			issues = append(issues, s.checkWhitespace(req.Target)...)
		case models.CheckTagPlaceholder:
			issues = append(issues, s.checkTagsPlaceholders(req.Source, req.Target)...)
		case models.CheckCustomRule:
			issues = append(issues, s.checkCustomRules(req.Target, req.CustomRules)...)
		}
	}

	result := &CheckConsistencyResult{
		Issues:     issues,
		Statistics: calculateStatistics(issues),
	}

	if s.cache != nil && !req.SkipCache {
		s.cache.Set(ctx, key, result, contentCacheTTL)
	}

	return result
}

func (s *ConsistencyService) checkSegmentAlignment(source, target string) []models.Issue {
	sourceSentences := splitSentences(source)
	targetSentences := splitSentences(target)

	if len(sourceSentences) == len(targetSentences) {
		return nil
	}

	src := truncate(source, 100)
	return []models.Issue{{
		ID:            uuid.NewString(),
		Type:          models.CheckSegmentAlignment,
		Severity:      models.SeverityMajor,
		TargetText:    target,
		StartPosition: 0,
		EndPosition:   len(target),
		Context:       truncate(target, 100),
		Message:       fmt.Sprintf("Segment count mismatch: %d source vs %d target", len(sourceSentences), len(targetSentences)),
		Rationale:     "The number of sentences in source and target do not match, indicating potential missing or extra content",
		Suggestions:   []string{"Review segment alignment and ensure all source segments are translated"},
		Confidence:    0.9,
		AutoFixable:   false,
		SourceText:    &src,
	}}
}

func (s *ConsistencyService) checkGlossaryCompliance(source, target string, glossary []models.GlossaryTerm) []models.Issue {
	var issues []models.Issue

	for _, term := range glossary {
		if term.Source == "" || term.Target == "" {
			continue
		}

		sourceRe, err := termPattern(term.Source, term.CaseSensitive)
		if err != nil {
			continue
		}
		targetRe, err := termPattern(term.Target, term.CaseSensitive)
		if err != nil {
			continue
		}

		sourceMatches := sourceRe.FindAllStringIndex(source, -1)
		if len(sourceMatches) == 0 {
			continue
		}

		targetMatches := targetRe.FindAllStringIndex(target, -1)

		if term.Forbidden && len(targetMatches) > 0 {
			for _, m := range targetMatches {
				src := term.Source
				issues = append(issues, models.Issue{
					ID:            uuid.NewString(),
					Type:          models.CheckGlossaryCompliance,
					Severity:      models.SeverityCritical,
					TargetText:    target[m[0]:m[1]],
					StartPosition: m[0],
					EndPosition:   m[1],
					Context:       extractContext(target, m[0], m[1]),
					Message:       fmt.Sprintf("Forbidden term used: '%s'", term.Target),
					Rationale:     fmt.Sprintf("The term '%s' is marked as forbidden in the glossary", term.Target),
					Suggestions:   []string{fmt.Sprintf("Remove or replace '%s'", term.Target)},
					Confidence:    1.0,
					AutoFixable:   false,
					SourceText:    &src,
				})
			}
		} else if !term.Forbidden && len(sourceMatches) > len(targetMatches) {
			src := term.Source
			issues = append(issues, models.Issue{
				ID:            uuid.NewString(),
				Type:          models.CheckGlossaryCompliance,
				Severity:      models.SeverityMajor,
				TargetText:    truncate(target, 100),
				StartPosition: 0,
				EndPosition:   len(target),
				Context:       truncate(target, 100),
				Message:       fmt.Sprintf("Glossary term '%s' appears fewer times than source term '%s'", term.Target, term.Source),
				Rationale:     fmt.Sprintf("Expected %d occurrences but found %d", len(sourceMatches), len(targetMatches)),
				Suggestions:   []string{fmt.Sprintf("Ensure all instances of '%s' are translated as '%s'", term.Source, term.Target)},
				Confidence:    0.85,
				AutoFixable:   false,
				SourceText:    &src,
			})
		}
	}

	return issues
}

func (s *ConsistencyService) checkCapitalization(target string) []models.Issue {
	var issues []models.Issue

	type occurrence struct {
		pos  int
		word string
	}
	positions := make(map[string][]occurrence)
	var order []string

	for _, m := range capitalizedWordRe.FindAllStringIndex(target, -1) {
		word := target[m[0]:m[1]]
		lower := strings.ToLower(word)
		if _, seen := positions[lower]; !seen {
			order = append(order, lower)
		}
		positions[lower] = append(positions[lower], occurrence{pos: m[0], word: word})
	}

	for _, lower := range order {
		occ := positions[lower]
		if len(occ) < 2 {
			continue
		}

		distinct := make(map[string]struct{})
		for _, o := range occ {
			distinct[o.word] = struct{}{}
		}
		if len(distinct) < 2 {
			continue
		}

		first := occ[0].word
		for _, o := range occ[1:] {
			if o.word == first {
				continue
			}
			issues = append(issues, models.Issue{
				ID:            uuid.NewString(),
				Type:          models.CheckCapitalization,
				Severity:      models.SeverityMinor,
				TargetText:    o.word,
				StartPosition: o.pos,
				EndPosition:   o.pos + len(o.word),
				Context:       extractContext(target, o.pos, o.pos+len(o.word)),
				Message:       fmt.Sprintf("Inconsistent capitalization: '%s' vs '%s'", o.word, first),
				Rationale:     "The same word appears with different capitalization patterns",
				Suggestions:   []string{first},
				Confidence:    0.7,
				AutoFixable:   true,
			})
		}
	}

	return issues
}

func (s *ConsistencyService) checkPunctuation(source, target string) []models.Issue {
	var issues []models.Issue

	sourcePunct := punctuationSet(source)
	targetPunct := punctuationSet(target)

	var missing []string
	for _, p := range sourcePunct {
		found := false
		for _, q := range targetPunct {
			if p == q {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, p)
		}
	}

	if len(missing) > 0 {
		joined := strings.Join(missing, ", ")
		issues = append(issues, models.Issue{
			ID:            uuid.NewString(),
			Type:          models.CheckPunctuation,
			Severity:      models.SeverityMinor,
			TargetText:    truncate(target, 100),
			StartPosition: 0,
			EndPosition:   len(target),
			Context:       truncate(target, 100),
			Message:       "Missing punctuation types: " + joined,
			Rationale:     "Some punctuation marks present in source are missing in target",
			Suggestions:   []string{fmt.Sprintf("Review if punctuation marks %s should be included", joined)},
			Confidence:    0.6,
			AutoFixable:   false,
		})
	}

	pairs := []struct {
		open    string
		closing string
	}{
		{"(", ")"},
		{"[", "]"},
		{"{", "}"},
	}
	for _, pair := range pairs {
		openCount := strings.Count(target, pair.open)
		closeCount := strings.Count(target, pair.closing)
		if openCount != closeCount {
			issues = append(issues, models.Issue{
				ID:            uuid.NewString(),
				Type:          models.CheckPunctuation,
				Severity:      models.SeverityMajor,
				TargetText:    truncate(target, 100),
				StartPosition: 0,
				EndPosition:   len(target),
				Context:       truncate(target, 100),
				Message:       fmt.Sprintf("Unbalanced %s%s: %d opening vs %d closing", pair.open, pair.closing, openCount, closeCount),
				Rationale:     "Mismatched opening and closing punctuation marks",
				Suggestions:   []string{fmt.Sprintf("Ensure all %s have matching %s", pair.open, pair.closing)},
				Confidence:    0.95,
				AutoFixable:   false,
			})
		}
	}

	// Straight quotes pair with themselves, so an odd count means one is
	// left unclosed
	if quoteCount := strings.Count(target, `"`); quoteCount%2 != 0 {
		issues = append(issues, models.Issue{
			ID:            uuid.NewString(),
			Type:          models.CheckPunctuation,
			Severity:      models.SeverityMajor,
			TargetText:    truncate(target, 100),
			StartPosition: 0,
			EndPosition:   len(target),
			Context:       truncate(target, 100),
			Message:       fmt.Sprintf(`Unbalanced "": %d quotation marks`, quoteCount),
			Rationale:     "Mismatched opening and closing punctuation marks",
			Suggestions:   []string{"Ensure all opening quotes have a closing quote"},
			Confidence:    0.95,
			AutoFixable:   false,
		})
	}

	return issues
}

func (s *ConsistencyService) checkNumberFormat(source, target string) []models.Issue {
	sourceNumbers := numberRe.FindAllString(source, -1)
	targetNumbers := numberRe.FindAllString(target, -1)

	if len(sourceNumbers) == len(targetNumbers) {
		return nil
	}

	src := strings.Join(sourceNumbers, ", ")
	return []models.Issue{{
		ID:            uuid.NewString(),
		Type:          models.CheckNumberFormat,
		Severity:      models.SeverityMajor,
		TargetText:    truncate(target, 100),
		StartPosition: 0,
		EndPosition:   len(target),
		Context:       truncate(target, 100),
		Message:       fmt.Sprintf("Number count mismatch: %d in source vs %d in target", len(sourceNumbers), len(targetNumbers)),
		Rationale:     "The number of numeric values differs between source and target",
		Suggestions:   []string{"Verify all numbers are correctly translated"},
		Confidence:    0.9,
		AutoFixable:   false,
		SourceText:    &src,
	}}
}

func (s *ConsistencyService) checkWhitespace(target string) []models.Issue {
	var issues []models.Issue

	if strings.HasPrefix(target, " ") || strings.HasPrefix(target, "\t") {
		issues = append(issues, models.Issue{
			ID:            uuid.NewString(),
			Type:          models.CheckWhitespace,
			Severity:      models.SeverityMinor,
			TargetText:    truncate(target, 10),
			StartPosition: 0,
			EndPosition:   1,
			Context:       truncate(target, 50),
			Message:       "Leading whitespace detected",
			Rationale:     "Text begins with unnecessary whitespace",
			Suggestions:   []string{"Remove leading whitespace"},
			Confidence:    1.0,
			AutoFixable:   true,
		})
	}

	if strings.HasSuffix(target, " ") || strings.HasSuffix(target, "\t") {
		issues = append(issues, models.Issue{
			ID:            uuid.NewString(),
			Type:          models.CheckWhitespace,
			Severity:      models.SeverityMinor,
			TargetText:    tail(target, 10),
			StartPosition: len(target) - 1,
			EndPosition:   len(target),
			Context:       tail(target, 50),
			Message:       "Trailing whitespace detected",
			Rationale:     "Text ends with unnecessary whitespace",
			Suggestions:   []string{"Remove trailing whitespace"},
			Confidence:    1.0,
			AutoFixable:   true,
		})
	}

	for _, m := range multiSpaceRe.FindAllStringIndex(target, -1) {
		issues = append(issues, models.Issue{
			ID:            uuid.NewString(),
			Type:          models.CheckWhitespace,
			Severity:      models.SeverityMinor,
			TargetText:    target[m[0]:m[1]],
			StartPosition: m[0],
			EndPosition:   m[1],
			Context:       extractContext(target, m[0], m[1]),
			Message:       fmt.Sprintf("Multiple consecutive spaces (%d spaces)", m[1]-m[0]),
			Rationale:     "Multiple spaces should typically be reduced to a single space",
			Suggestions:   []string{" "},
			Confidence:    0.95,
			AutoFixable:   true,
		})
	}

	return issues
}

func (s *ConsistencyService) checkTagsPlaceholders(source, target string) []models.Issue {
	var issues []models.Issue

	sourceTags := tagRe.FindAllString(source, -1)
	targetTags := tagRe.FindAllString(target, -1)

	if len(sourceTags) != len(targetTags) {
		src := strings.Join(sourceTags, ", ")
		issues = append(issues, models.Issue{
			ID:            uuid.NewString(),
			Type:          models.CheckTagPlaceholder,
			Severity:      models.SeverityCritical,
			TargetText:    truncate(target, 100),
			StartPosition: 0,
			EndPosition:   len(target),
			Context:       truncate(target, 100),
			Message:       fmt.Sprintf("Tag count mismatch: %d in source vs %d in target", len(sourceTags), len(targetTags)),
			Rationale:     "XML/HTML tags must be preserved between source and target",
			Suggestions:   []string{"Ensure all tags from source are present in target"},
			Confidence:    1.0,
			AutoFixable:   false,
			SourceText:    &src,
		})
	}

	sourcePlaceholders := placeholderRe.FindAllString(source, -1)
	targetPlaceholders := placeholderRe.FindAllString(target, -1)

	if len(sourcePlaceholders) != len(targetPlaceholders) {
		src := strings.Join(sourcePlaceholders, ", ")
		issues = append(issues, models.Issue{
			ID:            uuid.NewString(),
			Type:          models.CheckTagPlaceholder,
			Severity:      models.SeverityCritical,
			TargetText:    truncate(target, 100),
			StartPosition: 0,
			EndPosition:   len(target),
			Context:       truncate(target, 100),
			Message:       fmt.Sprintf("Placeholder count mismatch: %d in source vs %d in target", len(sourcePlaceholders), len(targetPlaceholders)),
			Rationale:     "Placeholders must be preserved between source and target",
			Suggestions:   []string{"Ensure all placeholders from source are present in target"},
			Confidence:    1.0,
			AutoFixable:   false,
			SourceText:    &src,
		})
	}

	return issues
}

func (s *ConsistencyService) checkCustomRules(target string, rules []models.CustomRule) []models.Issue {
	var issues []models.Issue

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}

		switch rule.Type {
		case models.RuleRegex:
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				log.Printf("Warning: skipping custom rule %q with invalid pattern: %v", rule.Name, err)
				continue
			}
			for _, m := range re.FindAllStringIndex(target, -1) {
				var suggestions []string
				if rule.Replacement != nil {
					suggestions = []string{*rule.Replacement}
				}
				ruleID := rule.ID
				issues = append(issues, models.Issue{
					ID:            uuid.NewString(),
					Type:          models.CheckCustomRule,
					Severity:      rule.Severity,
					TargetText:    target[m[0]:m[1]],
					StartPosition: m[0],
					EndPosition:   m[1],
					Context:       extractContext(target, m[0], m[1]),
					Message:       "Custom rule violation: " + rule.Name,
					Rationale:     rule.Description,
					Suggestions:   suggestions,
					Confidence:    0.8,
					AutoFixable:   rule.Replacement != nil,
					RuleID:        &ruleID,
				})
			}

		case models.RuleForbidden:
			re, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				log.Printf("Warning: skipping custom rule %q with invalid pattern: %v", rule.Name, err)
				continue
			}
			for _, m := range re.FindAllStringIndex(target, -1) {
				ruleID := rule.ID
				issues = append(issues, models.Issue{
					ID:            uuid.NewString(),
					Type:          models.CheckCustomRule,
					Severity:      models.SeverityCritical,
					TargetText:    target[m[0]:m[1]],
					StartPosition: m[0],
					EndPosition:   m[1],
					Context:       extractContext(target, m[0], m[1]),
					Message:       "Forbidden term detected: " + rule.Name,
					Rationale:     rule.Description,
					Suggestions:   []string{"Remove or replace this term"},
					Confidence:    1.0,
					AutoFixable:   false,
					RuleID:        &ruleID,
				})
			}

		case models.RuleRequired:
			re, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				log.Printf("Warning: skipping custom rule %q with invalid pattern: %v", rule.Name, err)
				continue
			}
			if !re.MatchString(target) {
				ruleID := rule.ID
				issues = append(issues, models.Issue{
					ID:            uuid.NewString(),
					Type:          models.CheckCustomRule,
					Severity:      rule.Severity,
					TargetText:    truncate(target, 100),
					StartPosition: 0,
					EndPosition:   len(target),
					Context:       truncate(target, 100),
					Message:       "Required term missing: " + rule.Name,
					Rationale:     rule.Description,
					Suggestions:   []string{"Add required term matching pattern: " + rule.Pattern},
					Confidence:    0.9,
					AutoFixable:   false,
					RuleID:        &ruleID,
				})
			}
		}
	}

	return issues
}

func calculateStatistics(issues []models.Issue) models.Statistics {
	stats := models.Statistics{
		TotalIssues:  len(issues),
		IssuesByType: make(map[models.CheckType]int),
	}
	for _, ct := range models.AllCheckTypes() {
		stats.IssuesByType[ct] = 0
	}

	weighted := 0
	totalConfidence := 0.0
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityCritical:
			stats.CriticalIssues++
		case models.SeverityMajor:
			stats.MajorIssues++
		case models.SeverityMinor:
			stats.MinorIssues++
		case models.SeverityInfo:
			stats.InfoIssues++
		}
		stats.IssuesByType[issue.Type]++
		weighted += issue.Severity.Weight()
		totalConfidence += issue.Confidence
	}

	stats.QualityScore = float64(100 - weighted)
	if stats.QualityScore < 0 {
		stats.QualityScore = 0
	}

	if len(issues) > 0 {
		stats.AverageConfidence = totalConfidence / float64(len(issues))
	} else {
		stats.AverageConfidence = 1.0
	}

	return stats
}

func termPattern(term string, caseSensitive bool) (*regexp.Regexp, error) {
	pattern := regexp.QuoteMeta(term)
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

func punctuationSet(text string) []string {
	seen := make(map[string]struct{})
	var marks []string
	for _, m := range punctuationRe.FindAllString(text, -1) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			marks = append(marks, m)
		}
	}
	return marks
}

// splitSentences splits text on CJK terminators when CJK codepoints are
// present, otherwise on Western terminators followed by whitespace and a
// capital letter or end of text
func splitSentences(text string) []string {
	var raw []string

	if containsCJK(text) {
		raw = strings.FieldsFunc(text, func(r rune) bool {
			return r == '。' || r == '！' || r == '？'
		})
	} else {
		runes := []rune(text)
		start := 0
		for i := 0; i < len(runes); i++ {
			r := runes[i]
			if r != '.' && r != '!' && r != '?' {
				continue
			}
			if westernBoundary(runes, i) {
				raw = append(raw, string(runes[start:i]))
				start = i + 1
			}
		}
		if start < len(runes) {
			raw = append(raw, string(runes[start:]))
		}
	}

	var sentences []string
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// westernBoundary reports whether the terminator at index i ends a sentence:
// whitespace then an uppercase letter follows, or only whitespace remains
func westernBoundary(runes []rune, i int) bool {
	j := i + 1
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j >= len(runes) {
		return true
	}
	return j > i+1 && unicode.IsUpper(runes[j])
}

func containsCJK(text string) bool {
	for _, r := range text {
		if (r >= 0x4E00 && r <= 0x9FFF) || // CJK ideographs
			(r >= 0x3040 && r <= 0x309F) || // Hiragana
			(r >= 0x30A0 && r <= 0x30FF) || // Katakana
			(r >= 0xAC00 && r <= 0xD7AF) { // Hangul
			return true
		}
	}
	return false
}

// extractContext returns a window of up to 50 characters on each side of a
// span, ellipsis-marked when truncated. start and end are byte offsets on
// rune boundaries, as produced by the regexp package.
func extractContext(text string, start, end int) string {
	const window = 50

	contextStart := start
	for i := 0; i < window && contextStart > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:contextStart])
		contextStart -= size
	}
	contextEnd := end
	for i := 0; i < window && contextEnd < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[contextEnd:])
		contextEnd += size
	}

	context := text[contextStart:contextEnd]
	if contextStart > 0 {
		context = "..." + context
	}
	if contextEnd < len(text) {
		context = context + "..."
	}
	return context
}

// truncate keeps the first n characters of text
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// tail keeps the last n characters of text
func tail(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
