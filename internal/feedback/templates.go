package feedback

import (
	"fmt"
	"strings"

	"github.com/abhisek/phishwise/internal/answerkey"
)

var enhancements = map[Topic]map[string]string{
	TopicEmailPhishing: {
		"basic":        "Learn to identify suspicious emails and common phishing tactics",
		"intermediate": "Understand advanced phishing techniques and email security features",
		"advanced":     "Implement enterprise email security and anti-phishing solutions",
	},
	TopicLinkVerification: {
		"basic":        "Learn how to safely check links before clicking them",
		"intermediate": "Understand URL analysis and link inspection techniques",
		"advanced":     "Implement automated link analysis and threat intelligence",
	},
	TopicPasswordSecurity: {
		"basic":        "Learn about secure password practices and password managers",
		"intermediate": "Understand multi-factor authentication and account security",
		"advanced":     "Implement enterprise identity and access management solutions",
	},
	TopicSocialEngineering: {
		"basic":        "Recognize common social engineering tactics and manipulation",
		"intermediate": "Understand psychological manipulation and verification processes",
		"advanced":     "Develop organizational security awareness and training programs",
	},
	TopicIncidentResponse: {
		"basic":        "Know what to do if you fall for a phishing attack",
		"intermediate": "Understand incident reporting and damage assessment",
		"advanced":     "Develop comprehensive incident response and recovery procedures",
	},
	TopicThreatIntelligence: {
		"basic":        "Stay informed about current phishing trends and threats",
		"intermediate": "Use threat intelligence feeds and security tools",
		"advanced":     "Implement advanced threat detection and response systems",
	},
}

var searchTerms = map[Topic][]string{
	TopicEmailPhishing:      {"phishing email examples", "email security guide"},
	TopicLinkVerification:   {"how to check suspicious links", "URL safety verification"},
	TopicPasswordSecurity:   {"password security best practices", "multi-factor authentication"},
	TopicSocialEngineering:  {"social engineering tactics", "manipulation techniques security"},
	TopicIncidentResponse:   {"phishing attack response", "cybersecurity incident handling"},
	TopicThreatIntelligence: {"phishing threat intelligence", "cybersecurity awareness"},
}

var levelModifiers = map[string]string{
	"beginner":     "beginner guide",
	"intermediate": "best practices",
	"advanced":     "enterprise security",
}

var nextLevels = map[string]string{
	"wrong":        "beginner",
	"unscored":     "beginner",
	"beginner":     "intermediate",
	"basic":        "intermediate",
	"intermediate": "advanced",
	"advanced":     "expert",
}

// Advice returns the one-line enhancement for a topic at the learner's
// current level.
func Advice(topic Topic, level answerkey.Level) string {
	if byLevel, ok := enhancements[topic]; ok {
		if text, ok := byLevel[answerkey.Normalize(string(level))]; ok {
			return text
		}
	}
	return fmt.Sprintf("Continue learning about %s to improve your phishing awareness.", topic.DisplayName())
}

// NextLevel is the level a learner should aim for after current.
func NextLevel(current answerkey.Level) string {
	if next, ok := nextLevels[answerkey.Normalize(string(current))]; ok {
		return next
	}
	return "advanced"
}

// SearchTerms suggests web searches for a topic at a level.
func SearchTerms(topic Topic, level answerkey.Level) []string {
	base, ok := searchTerms[topic]
	if !ok {
		base = []string{"phishing awareness security"}
	}
	mod, ok := levelModifiers[answerkey.Normalize(string(level))]
	if !ok {
		mod = "tutorial"
	}
	out := make([]string, 0, len(base))
	for _, term := range base {
		out = append(out, term+" "+mod)
	}
	return out
}

// DetailedGuidance is the static study plan for one weak area. It is never
// empty.
func DetailedGuidance(topic Topic, level answerkey.Level) string {
	current := answerkey.Normalize(string(level))
	if current == "" {
		current = string(answerkey.LevelUnscored)
	}
	name := topic.DisplayName()

	var b strings.Builder
	fmt.Fprintf(&b, "To advance from %s to %s level in %s:\n", current, NextLevel(level), name)
	switch current {
	case "wrong", "unscored", "beginner", "basic":
		fmt.Fprintf(&b, "   • Start with basic %s concepts\n", name)
		b.WriteString("   • Practice identifying suspicious emails daily\n")
		b.WriteString("   • Use official cybersecurity training resources\n")
	case "intermediate":
		fmt.Fprintf(&b, "   • Deepen your understanding of %s\n", name)
		b.WriteString("   • Learn advanced threat detection techniques\n")
		b.WriteString("   • Consider cybersecurity certifications\n")
	}
	fmt.Fprintf(&b, "   • Recommended searches: %s", strings.Join(SearchTerms(topic, level), ", "))
	return b.String()
}
