package knowledge

// #region imports
import "context"

// #endregion

// #region records

// Fact is a single retrievable statement.
type Fact struct {
	ID         string  `json:"id" yaml:"id"`
	Content    string  `json:"content" yaml:"content"`
	Domain     string  `json:"domain" yaml:"domain"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Source     string  `json:"source" yaml:"source"`
	Score      float64 `json:"score,omitempty" yaml:"score,omitempty"` // query relevance, set by Search
}

// Rule is an if/then inference rule scoped to a domain.
type Rule struct {
	ID         string  `json:"id" yaml:"id"`
	Domain     string  `json:"domain" yaml:"domain"`
	Condition  string  `json:"condition" yaml:"condition"`
	Conclusion string  `json:"conclusion" yaml:"conclusion"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Statistic is a quantitative observation about a concept.
type Statistic struct {
	Concept    string  `json:"concept" yaml:"concept"`
	Metric     string  `json:"metric" yaml:"metric"`
	Value      float64 `json:"value" yaml:"value"`
	SampleSize int     `json:"sample_size" yaml:"sample_size"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// CausalLink is a directed cause → effect relationship.
type CausalLink struct {
	Cause     string  `json:"cause" yaml:"cause"`
	Effect    string  `json:"effect" yaml:"effect"`
	Strength  float64 `json:"strength" yaml:"strength"`
	Mechanism string  `json:"mechanism" yaml:"mechanism"`
}

// Corpus bundles seed content for an adapter.
type Corpus struct {
	Facts      []Fact       `json:"facts" yaml:"facts"`
	Rules      []Rule       `json:"rules" yaml:"rules"`
	Statistics []Statistic  `json:"statistics" yaml:"statistics"`
	Links      []CausalLink `json:"links" yaml:"links"`
}

// #endregion

// #region interfaces

// Adapter answers fact and rule lookups. Every call may block.
type Adapter interface {
	Search(ctx context.Context, query string, limit int) ([]Fact, error)
	Rules(ctx context.Context, domain string) ([]Rule, error)
	// Facts is a convenience alias of Search with the default limit.
	Facts(ctx context.Context, query string) ([]Fact, error)
}

// StatisticsProvider is an optional Adapter capability.
type StatisticsProvider interface {
	Statistics(ctx context.Context, concept string) ([]Statistic, error)
}

// CausalProvider is an optional Adapter capability. An empty effect matches any effect.
type CausalProvider interface {
	CausalRelationships(ctx context.Context, cause, effect string) ([]CausalLink, error)
}

// ConsistencyValidator is an optional Adapter capability.
type ConsistencyValidator interface {
	ValidateConsistency(ctx context.Context, fact, domain string) (bool, error)
}

// #endregion

// #region limits

const (
	// DefaultLimit is used when a caller passes limit <= 0.
	DefaultLimit = 10
	// MaxFactLen drops overlong facts from search results.
	MaxFactLen = 2000
)

// #endregion
