package patterns

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// SemanticTypePattern maps a semantic type to the term patterns that
// identify it. Order matters: the first matching pattern wins.
type SemanticTypePattern struct {
	Type     string   `yaml:"type"`
	Patterns []string `yaml:"patterns"`
}

// Tables holds the immutable per-domain dictionaries used for term
// validation and interchangeable-term detection. Tables are loaded once at
// startup and shared read-only between services.
type Tables struct {
	// Interchangeable maps domain -> base term -> accepted alternatives
	Interchangeable map[string]map[string][]string `yaml:"interchangeable"`

	// DomainKeywords maps domain -> keywords used for relevance scoring
	DomainKeywords map[string][]string `yaml:"domain_keywords"`

	// SemanticTypes lists term patterns per semantic type, checked in order
	SemanticTypes []SemanticTypePattern `yaml:"semantic_types"`
}

// Groups returns the interchangeable-term groups for a domain, or nil when
// the domain has no table
func (t *Tables) Groups(domain string) map[string][]string {
	return t.Interchangeable[strings.ToLower(domain)]
}

// Keywords returns the relevance keywords for a domain
func (t *Tables) Keywords(domain string) []string {
	return t.DomainKeywords[strings.ToLower(domain)]
}

// Load reads pattern tables from YAML
func Load(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern tables: %w", err)
	}

	t := &Tables{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse pattern tables: %w", err)
	}

	if len(t.Interchangeable) == 0 && len(t.DomainKeywords) == 0 {
		return nil, fmt.Errorf("pattern tables are empty")
	}

	return t, nil
}

// Default returns the built-in pattern tables
func Default() *Tables {
	return &Tables{
		Interchangeable: map[string]map[string][]string{
			"technology": {
				"implementation": {"deployment", "rollout", "integration", "execution"},
				"framework":      {"architecture", "structure", "scaffold", "platform"},
				"validation":     {"verification", "authentication", "certification", "confirmation"},
				"configuration":  {"setup", "settings", "parameters", "options"},
				"optimization":   {"enhancement", "improvement", "refinement", "tuning"},
				"interface":      {"UI", "user interface", "frontend", "GUI"},
				"database":       {"data store", "repository", "storage", "datastore"},
				"authentication": {"login", "sign-in", "authorization", "access control"},
				"endpoint":       {"API", "service", "route", "resource"},
				"module":         {"component", "package", "library", "plugin"},
			},
			"medical": {
				"treatment":   {"therapy", "intervention", "management", "care"},
				"diagnosis":   {"assessment", "evaluation", "identification", "examination"},
				"medication":  {"drug", "pharmaceutical", "medicine", "prescription"},
				"procedure":   {"operation", "surgery", "intervention", "technique"},
				"symptom":     {"sign", "indication", "manifestation", "presentation"},
				"patient":     {"individual", "subject", "case", "client"},
				"physician":   {"doctor", "clinician", "practitioner", "medical professional"},
				"examination": {"checkup", "assessment", "evaluation", "screening"},
			},
			"legal": {
				"contract":     {"agreement", "covenant", "pact", "arrangement"},
				"litigation":   {"lawsuit", "legal action", "proceedings", "case"},
				"compliance":   {"adherence", "conformity", "observance", "accordance"},
				"regulation":   {"rule", "law", "statute", "ordinance"},
				"liability":    {"responsibility", "accountability", "obligation", "duty"},
				"jurisdiction": {"authority", "domain", "territory", "purview"},
				"plaintiff":    {"claimant", "complainant", "petitioner", "litigant"},
				"defendant":    {"respondent", "accused", "party"},
			},
			"finance": {
				"investment":  {"capital allocation", "funding", "stake", "portfolio"},
				"revenue":     {"income", "earnings", "proceeds", "receipts"},
				"expenditure": {"expense", "cost", "outlay", "spending"},
				"profit":      {"gain", "return", "earnings", "surplus"},
				"asset":       {"holding", "property", "resource", "capital"},
				"liability":   {"debt", "obligation", "commitment", "payable"},
				"transaction": {"deal", "trade", "exchange", "operation"},
				"portfolio":   {"holdings", "investments", "assets", "collection"},
			},
			"marketing": {
				"campaign":   {"initiative", "program", "effort", "drive"},
				"engagement": {"interaction", "involvement", "participation", "activity"},
				"conversion": {"acquisition", "sale", "signup", "registration"},
				"audience":   {"market", "demographic", "target group", "consumers"},
				"brand":      {"trademark", "identity", "label", "name"},
				"content":    {"material", "copy", "messaging", "collateral"},
				"strategy":   {"plan", "approach", "tactic", "methodology"},
			},
			"general": {
				"utilize":     {"use", "employ", "apply", "leverage"},
				"facilitate":  {"enable", "support", "assist", "help"},
				"implement":   {"execute", "deploy", "apply", "carry out"},
				"optimize":    {"improve", "enhance", "refine", "perfect"},
				"analyze":     {"examine", "study", "evaluate", "assess"},
				"demonstrate": {"show", "illustrate", "display", "exhibit"},
				"establish":   {"create", "set up", "form", "institute"},
				"maintain":    {"preserve", "sustain", "keep", "uphold"},
			},
		},
		DomainKeywords: map[string][]string{
			"technology": {
				"implementation", "deployment", "framework", "architecture",
				"database", "API", "interface", "authentication", "configuration",
				"optimization", "validation", "module", "component",
			},
			"medical": {
				"treatment", "diagnosis", "medication", "procedure", "symptom",
				"patient", "physician", "examination", "therapy", "intervention",
			},
			"legal": {
				"contract", "litigation", "compliance", "regulation", "liability",
				"jurisdiction", "plaintiff", "defendant", "statute", "ordinance",
			},
			"finance": {
				"investment", "revenue", "expenditure", "profit", "asset",
				"liability", "transaction", "portfolio", "capital", "equity",
			},
			"marketing": {
				"campaign", "engagement", "conversion", "audience", "brand",
				"content", "strategy", "analytics", "ROI", "demographic",
			},
		},
		SemanticTypes: []SemanticTypePattern{
			{Type: "technical_term", Patterns: []string{"system", "process", "method", "technique", "protocol"}},
			{Type: "action_verb", Patterns: []string{"implement", "execute", "deploy", "configure", "optimize"}},
			{Type: "entity", Patterns: []string{"user", "client", "server", "database", "application"}},
			{Type: "attribute", Patterns: []string{"secure", "efficient", "scalable", "robust", "reliable"}},
			{Type: "measurement", Patterns: []string{"performance", "throughput", "latency", "capacity", "load"}},
		},
	}
}
