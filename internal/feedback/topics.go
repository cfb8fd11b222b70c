package feedback

import "strings"

// Topic is a phishing knowledge area used to pick advice.
type Topic string

const (
	TopicEmailPhishing      Topic = "email_phishing"
	TopicLinkVerification   Topic = "link_verification"
	TopicPasswordSecurity   Topic = "password_security"
	TopicSocialEngineering  Topic = "social_engineering"
	TopicIncidentResponse   Topic = "incident_response"
	TopicThreatIntelligence Topic = "threat_intelligence"
)

// DisplayName is the human-readable topic name.
func (t Topic) DisplayName() string {
	switch t {
	case TopicEmailPhishing:
		return "email phishing"
	case TopicLinkVerification:
		return "link verification"
	case TopicPasswordSecurity:
		return "password security"
	case TopicSocialEngineering:
		return "social engineering"
	case TopicIncidentResponse:
		return "incident response"
	case TopicThreatIntelligence:
		return "general awareness"
	default:
		return strings.ReplaceAll(string(t), "_", " ")
	}
}

// TopicRule assigns Topic to question text containing any keyword.
type TopicRule struct {
	Topic    Topic
	Keywords []string
}

// DefaultTopicRules returns the rules in priority order. The first rule with
// a keyword contained in the lower-cased question wins.
func DefaultTopicRules() []TopicRule {
	return []TopicRule{
		{TopicEmailPhishing, []string{"email", "confirm", "details", "account"}},
		{TopicLinkVerification, []string{"link", "click", "url", "website"}},
		{TopicPasswordSecurity, []string{"password", "reset", "login", "credentials"}},
		{TopicSocialEngineering, []string{"urgent", "suspicious", "social", "trick"}},
		{TopicIncidentResponse, []string{"clicked", "response", "report", "incident"}},
	}
}

// TopicMapper applies ordered topic rules with a fallback.
type TopicMapper struct {
	Rules    []TopicRule
	Fallback Topic
}

var defaultMapper = TopicMapper{Rules: DefaultTopicRules(), Fallback: TopicThreatIntelligence}

// TopicFor maps question text using the default rules.
func TopicFor(question string) Topic {
	return defaultMapper.TopicFor(question)
}

// TopicFor returns the first matching rule's topic, or the fallback.
func (m TopicMapper) TopicFor(question string) Topic {
	q := strings.ToLower(question)
	for _, r := range m.Rules {
		for _, kw := range r.Keywords {
			if strings.Contains(q, kw) {
				return r.Topic
			}
		}
	}
	return m.Fallback
}
