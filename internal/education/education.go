// Package education holds curated learning resources and builds a
// personalized learning plan from an assessment.
package education

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/phishwise/internal/scoring"
)

// Level is a learning track.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Score thresholds for LevelForScore, inclusive.
const (
	AdvancedThreshold     = 80.0
	IntermediateThreshold = 60.0
)

// LevelForScore maps a quiz percentage to a learning track.
func LevelForScore(percentage float64) Level {
	switch {
	case percentage >= AdvancedThreshold:
		return LevelAdvanced
	case percentage >= IntermediateThreshold:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// ParseLevel accepts a level name or its menu number (1-3). Anything else
// is LevelBeginner.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2", string(LevelIntermediate):
		return LevelIntermediate
	case "3", string(LevelAdvanced):
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// Article is a reading recommendation.
type Article struct {
	Title       string
	URL         string
	Description string
}

// Video is a viewing recommendation.
type Video struct {
	Title       string
	Platform    string
	Description string
}

// Resources is the curated material for one level.
type Resources struct {
	Articles []Article
	Videos   []Video
}

var catalog = map[Level]Resources{
	LevelBeginner: {
		Articles: []Article{
			{"Phishing Awareness Basics", "https://www.ftc.gov/news-events/topics/identity-theft/phishing-scams", "FTC guide on phishing scams and protection"},
			{"Recognizing Phishing Emails", "https://www.consumer.ftc.gov/articles/how-recognize-and-avoid-phishing-scams", "FTC consumer guide to spotting phishing"},
			{"Email Security Tips", "https://www.cisa.gov/secure-our-world/recognize-and-report-phishing", "CISA phishing recognition and reporting guide"},
		},
		Videos: []Video{
			{"Phishing 101", "Educational Content", "Basic concepts of phishing attacks"},
		},
	},
	LevelIntermediate: {
		Articles: []Article{
			{"Advanced Phishing Techniques", "https://www.cisa.gov/topics/cybersecurity-best-practices/phishing", "CISA advanced phishing awareness"},
			{"Spear Phishing Defense", "https://www.nist.gov/cyberframework/spear-phishing", "NIST spear phishing prevention strategies"},
		},
	},
	LevelAdvanced: {
		Articles: []Article{
			{"Enterprise Phishing Protection", "https://www.cisa.gov/topics/cybersecurity-best-practices/phishing", "Advanced enterprise phishing defense"},
			{"Phishing Threat Intelligence", "https://www.mitre.org/capabilities/cybersecurity/overview/cybersecurity-blog/phishing-awareness-month", "MITRE phishing threat analysis"},
		},
	},
}

// ResourcesFor returns the material for level, falling back to beginner.
func ResourcesFor(level Level) Resources {
	if r, ok := catalog[level]; ok {
		return r
	}
	return catalog[LevelBeginner]
}

// Tips are short, standalone security reminders.
var Tips = []string{
	"Verify sender email addresses carefully - check for slight variations",
	"Hover over links before clicking to see the real destination",
	"Never share passwords or sensitive info via email",
	"Be suspicious of urgent requests for immediate action",
	"Use two-factor authentication on all important accounts",
	"Report suspicious emails to your email provider or IT team",
	"Keep your email client and antivirus software updated",
}

// QuickTips returns the first n tips.
func QuickTips(n int) []string {
	n = min(max(n, 0), len(Tips))
	out := make([]string, n)
	copy(out, Tips[:n])
	return out
}

// Challenge closes every education session.
const Challenge = "Review your email security settings this week!"

// WriteResources renders the resources for level.
func WriteResources(w io.Writer, level Level) error {
	r := ResourcesFor(level)
	var b strings.Builder
	fmt.Fprintf(&b, "PHISHING AWARENESS EDUCATIONAL RESOURCES - %s LEVEL\n", strings.ToUpper(string(level)))
	b.WriteString(strings.Repeat("=", 70) + "\n")
	b.WriteString("\nRECOMMENDED ARTICLES:\n")
	for i, a := range r.Articles {
		fmt.Fprintf(&b, "\n%d. %s\n   %s\n   %s\n", i+1, a.Title, a.Description, a.URL)
	}
	if len(r.Videos) > 0 {
		b.WriteString("\nVIDEO RESOURCES:\n")
		for i, v := range r.Videos {
			fmt.Fprintf(&b, "\n%d. %s\n   %s\n   Platform: %s\n", i+1, v.Title, v.Description, v.Platform)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Session is the output of one education run.
type Session struct {
	Level     Level
	Score     *float64
	Plan      *Plan
	Resources Resources
	Tips      []string
}

// NewSession assembles an education session. When result is nil the
// learner picked the level themselves.
func NewSession(result *scoring.AssessmentResult, chosen Level) Session {
	s := Session{Level: chosen, Tips: QuickTips(4)}
	if result != nil {
		pct := result.Percentage
		s.Score = &pct
		s.Level = LevelForScore(pct)
		if plan := BuildPlan(*result); len(plan.Areas) > 0 {
			s.Plan = &plan
		}
	}
	s.Resources = ResourcesFor(s.Level)
	return s
}

// WriteText renders the session.
func (s Session) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("PHISHING AWARENESS SECURITY EDUCATION CENTER\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if s.Score != nil {
		fmt.Fprintf(&b, "\nYour Assessment Score: %.1f%%\n", *s.Score)
		fmt.Fprintf(&b, "Knowledge Level: %s\n", strings.ToUpper(string(s.Level)))
	}
	if s.Plan != nil {
		b.WriteString("\n")
		b.WriteString(s.Plan.String())
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if err := WriteResources(w, s.Level); err != nil {
		return err
	}
	b.Reset()
	b.WriteString("\nQUICK TIPS:\n")
	for _, t := range s.Tips {
		fmt.Fprintf(&b, "   - %s\n", t)
	}
	fmt.Fprintf(&b, "\nCHALLENGE: %s\n", Challenge)
	_, err := io.WriteString(w, b.String())
	return err
}
