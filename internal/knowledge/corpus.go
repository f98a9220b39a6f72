package knowledge

// DefaultCorpus returns a small general-purpose seed used by the CLI and the
// knowledge server when no store is configured.
func DefaultCorpus() Corpus {
	return Corpus{
		Facts: []Fact{
			{ID: "f-rain-wet", Content: "Rain makes streets wet", Domain: "weather", Confidence: 0.95, Source: "seed"},
			{ID: "f-rain-clouds", Content: "Rain falls from clouds when water vapor condenses", Domain: "weather", Confidence: 0.9, Source: "seed"},
			{ID: "f-sprinkler-wet", Content: "Street cleaning trucks and sprinklers can also make streets wet", Domain: "weather", Confidence: 0.7, Source: "seed"},
			{ID: "f-wet-slippery", Content: "Wet streets are slippery and increase braking distance", Domain: "traffic", Confidence: 0.85, Source: "seed"},
			{ID: "f-interest-rates", Content: "Higher interest rates increase the cost of borrowing money", Domain: "finance", Confidence: 0.9, Source: "seed"},
			{ID: "f-inflation", Content: "Inflation reduces the purchasing power of money over time", Domain: "finance", Confidence: 0.9, Source: "seed"},
			{ID: "f-diversify", Content: "Diversifying an investment portfolio reduces market risk", Domain: "finance", Confidence: 0.8, Source: "seed"},
			{ID: "f-seasons", Content: "Seasons follow each other in a fixed yearly sequence", Domain: "time", Confidence: 0.95, Source: "seed"},
			{ID: "f-sunrise", Content: "Sunrise happens before noon every day", Domain: "time", Confidence: 0.95, Source: "seed"},
			{ID: "f-mammals", Content: "All mammals are warm blooded animals", Domain: "biology", Confidence: 0.95, Source: "seed"},
			{ID: "f-whale", Content: "A whale is a mammal that lives in the ocean", Domain: "biology", Confidence: 0.95, Source: "seed"},
			{ID: "f-contract", Content: "A contract requires offer acceptance and consideration", Domain: "law", Confidence: 0.85, Source: "seed"},
		},
		Rules: []Rule{
			{ID: "r-mammal-warm", Domain: "biology", Condition: "x is a mammal", Conclusion: "x is warm blooded", Confidence: 0.95},
			{ID: "r-rain-wet", Domain: "weather", Condition: "it rains", Conclusion: "streets become wet", Confidence: 0.9},
			{ID: "r-rate-borrow", Domain: "finance", Condition: "interest rates rise", Conclusion: "borrowing becomes more expensive", Confidence: 0.85},
			{ID: "r-contract-valid", Domain: "law", Condition: "offer acceptance and consideration exist", Conclusion: "a contract is formed", Confidence: 0.8},
		},
		Statistics: []Statistic{
			{Concept: "rain", Metric: "probability_wet_streets_given_rain", Value: 0.92, SampleSize: 500, Confidence: 0.85},
			{Concept: "wet streets", Metric: "probability_rain_given_wet_streets", Value: 0.68, SampleSize: 500, Confidence: 0.75},
			{Concept: "market", Metric: "annual_volatility", Value: 0.18, SampleSize: 120, Confidence: 0.7},
		},
		Links: []CausalLink{
			{Cause: "rain", Effect: "wet streets", Strength: 0.9, Mechanism: "water accumulates on the road surface"},
			{Cause: "wet streets", Effect: "traffic accidents", Strength: 0.5, Mechanism: "reduced tire friction"},
			{Cause: "interest rates", Effect: "borrowing cost", Strength: 0.85, Mechanism: "lenders price loans off the base rate"},
		},
	}
}
