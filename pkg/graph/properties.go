package graph

import (
	"encoding/json"
	"maps"
	"math"
)

// Property keys recognized in node property bags.
const (
	PropConfidence     = "confidence"
	PropVerified       = "verified"
	PropEngagementRate = "engagement_rate"
	PropFollowerCount  = "follower_count"
	PropSentimentScore = "sentiment_score"
	PropTemporalData   = "temporal_data"
	PropMentionCount   = "mention_count"
)

// DefaultConfidence is assumed for nodes without a confidence signal.
const DefaultConfidence = 0.5

// Properties is the typed view of a node's open property bag. Every signal is
// optional; nil means absent. Consumers read signals through the accessor
// functions ([Confidence], [Verified], ...) which embed the defaults, never
// through the fields directly.
//
// Decoding is tolerant: numbers given as strings are parsed, values of the
// wrong type are dropped, and unknown keys are kept in Extra so that exports
// round-trip the original bag.
type Properties struct {
	Confidence     *float64
	Verified       *bool
	EngagementRate *float64
	FollowerCount  *float64
	SentimentScore *float64
	MentionCount   *float64 // temporal_data.mention_count

	Extra map[string]any
}

// Float returns a pointer to v, for building Properties literals.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for building Properties literals.
func Bool(v bool) *bool { return &v }

// IsEmpty reports whether no signal and no extra key is present.
func (p Properties) IsEmpty() bool {
	return p.Confidence == nil && p.Verified == nil && p.EngagementRate == nil &&
		p.FollowerCount == nil && p.SentimentScore == nil && p.MentionCount == nil &&
		len(p.Extra) == 0
}

// UnmarshalJSON decodes a property bag, keeping unknown keys in Extra.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		// Non-object bags ("null", arrays, scalars) degrade to no properties.
		*p = Properties{}
		return nil
	}

	out := Properties{}
	takeFloat := func(key string) *float64 {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		if f, ok := asFloat(v); ok {
			return &f
		}
		return nil
	}

	out.Confidence = takeFloat(PropConfidence)
	out.EngagementRate = takeFloat(PropEngagementRate)
	out.FollowerCount = takeFloat(PropFollowerCount)
	out.SentimentScore = takeFloat(PropSentimentScore)

	if v, ok := raw[PropVerified]; ok {
		delete(raw, PropVerified)
		if b, ok := asBool(v); ok {
			out.Verified = &b
		}
	}

	if td, ok := raw[PropTemporalData].(map[string]any); ok {
		if v, ok := td[PropMentionCount]; ok {
			if f, ok := asFloat(v); ok {
				out.MentionCount = &f
			}
			rest := maps.Clone(td)
			delete(rest, PropMentionCount)
			if len(rest) == 0 {
				delete(raw, PropTemporalData)
			} else {
				raw[PropTemporalData] = rest
			}
		}
	}

	if len(raw) > 0 {
		out.Extra = raw
	}
	*p = out
	return nil
}

// MarshalJSON encodes the property bag back into its open map form.
func (p Properties) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		m[k] = v
	}
	if p.Confidence != nil {
		m[PropConfidence] = *p.Confidence
	}
	if p.Verified != nil {
		m[PropVerified] = *p.Verified
	}
	if p.EngagementRate != nil {
		m[PropEngagementRate] = *p.EngagementRate
	}
	if p.FollowerCount != nil {
		m[PropFollowerCount] = *p.FollowerCount
	}
	if p.SentimentScore != nil {
		m[PropSentimentScore] = *p.SentimentScore
	}
	if p.MentionCount != nil {
		td := map[string]any{}
		if existing, ok := m[PropTemporalData].(map[string]any); ok {
			td = maps.Clone(existing)
		}
		td[PropMentionCount] = *p.MentionCount
		m[PropTemporalData] = td
	}
	return json.Marshal(m)
}

// =============================================================================
// Accessors
// =============================================================================

// Confidence returns the confidence signal clamped to [0, 1], or
// [DefaultConfidence] when absent.
func Confidence(p Properties) float64 {
	if p.Confidence == nil || math.IsNaN(*p.Confidence) {
		return DefaultConfidence
	}
	return clamp(*p.Confidence, 0, 1)
}

// Verified reports the verified flag; absent reads as false.
func Verified(p Properties) bool {
	return p.Verified != nil && *p.Verified
}

// EngagementRate returns the engagement rate; absent reads as 0.
func EngagementRate(p Properties) float64 {
	return valueOrZero(p.EngagementRate)
}

// FollowerCount returns the follower count; absent reads as 0.
func FollowerCount(p Properties) float64 {
	return valueOrZero(p.FollowerCount)
}

// SentimentScore returns the sentiment score clamped to [-1, 1]; absent reads as 0.
func SentimentScore(p Properties) float64 {
	return clamp(valueOrZero(p.SentimentScore), -1, 1)
}

// MentionCount returns temporal_data.mention_count; absent reads as 0.
func MentionCount(p Properties) float64 {
	return valueOrZero(p.MentionCount)
}

func valueOrZero(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
