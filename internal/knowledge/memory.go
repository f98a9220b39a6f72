// Package knowledge defines the fact/rule lookup contract strategies consume,
// plus in-memory, SQLite and gRPC implementations of it.
package knowledge

// #region imports
import (
	"context"
	"strings"
	"sync"
)

// #endregion

// #region memory-struct

// Memory is an in-process Adapter over a fixed corpus. Safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	corpus Corpus
}

// NewMemory creates a Memory adapter seeded with corpus.
func NewMemory(corpus Corpus) *Memory {
	m := &Memory{}
	m.Load(corpus)
	return m
}

// Load appends corpus content.
func (m *Memory) Load(corpus Corpus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpus.Facts = append(m.corpus.Facts, corpus.Facts...)
	m.corpus.Rules = append(m.corpus.Rules, corpus.Rules...)
	m.corpus.Statistics = append(m.corpus.Statistics, corpus.Statistics...)
	m.corpus.Links = append(m.corpus.Links, corpus.Links...)
}

// #endregion

// #region adapter

// Search returns up to limit facts ranked by keyword overlap with query.
func (m *Memory) Search(ctx context.Context, query string, limit int) ([]Fact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return rank(query, m.corpus.Facts, limit), nil
}

func (m *Memory) Facts(ctx context.Context, query string) ([]Fact, error) {
	return m.Search(ctx, query, DefaultLimit)
}

// Rules returns rules for domain; empty domain returns every rule.
func (m *Memory) Rules(ctx context.Context, domain string) ([]Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Rule
	for _, r := range m.corpus.Rules {
		if domain == "" || strings.EqualFold(r.Domain, domain) {
			out = append(out, r)
		}
	}
	return out, nil
}

// #endregion

// #region capabilities

func (m *Memory) Statistics(ctx context.Context, concept string) ([]Statistic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Statistic
	for _, s := range m.corpus.Statistics {
		if matches(concept, s.Concept) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) CausalRelationships(ctx context.Context, cause, effect string) ([]CausalLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []CausalLink
	for _, l := range m.corpus.Links {
		if matches(cause, l.Cause) && matches(effect, l.Effect) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) ValidateConsistency(ctx context.Context, fact, domain string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var known []Fact
	for _, f := range m.corpus.Facts {
		if domain == "" || strings.EqualFold(f.Domain, domain) {
			known = append(known, f)
		}
	}
	return consistent(fact, known), nil
}

// #endregion
