package education

import (
	"fmt"
	"strings"

	"github.com/abhisek/phishwise/internal/scoring"
)

// WeakWeight is the weight below which a response feeds the learning plan.
const WeakWeight = 7.0

// PlanArea is a study topic in the learning plan.
type PlanArea string

const (
	AreaEmailVerification PlanArea = "email_verification"
	AreaLinkAnalysis      PlanArea = "link_analysis"
	AreaAttachmentSafety  PlanArea = "attachment_safety"
	AreaSocialEngineering PlanArea = "social_engineering"
	AreaPasswordSecurity  PlanArea = "password_security"
)

type areaRule struct {
	area     PlanArea
	keywords []string
}

// Checked in order; first keyword hit wins.
var areaRules = []areaRule{
	{AreaAttachmentSafety, []string{"attachment", "attached", "download", "file"}},
	{AreaLinkAnalysis, []string{"link", "url", "click", "website"}},
	{AreaPasswordSecurity, []string{"password", "login", "credential", "two-factor", "2fa"}},
	{AreaSocialEngineering, []string{"urgent", "call", "phone", "manager", "ceo", "authority", "gift card"}},
	{AreaEmailVerification, []string{"email", "sender", "address", "spoof"}},
}

// AreaFor maps question text to a plan area.
func AreaFor(question string) (PlanArea, bool) {
	q := strings.ToLower(question)
	for _, r := range areaRules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.area, true
			}
		}
	}
	return "", false
}

type areaText struct {
	title  string
	points []string
}

var areaTexts = map[PlanArea]areaText{
	AreaEmailVerification: {"EMAIL VERIFICATION: Always check sender details before responding", []string{
		"Watch for addresses that look similar to, but differ from, the real sender (spoofing)",
		"Check for proper signatures and official contact information",
		"Use email authentication features in your email client",
		"Be suspicious of unsolicited emails asking for personal information",
	}},
	AreaLinkAnalysis: {"LINK ANALYSIS: Never click links without verification", []string{
		"Hover over links to see the actual URL before clicking",
		"Look for HTTPS and valid certificates on websites",
		"Avoid shortened URLs from unknown sources",
		"Type website addresses manually for important sites",
	}},
	AreaAttachmentSafety: {"ATTACHMENT SAFETY: Handle email attachments with care", []string{
		"Never open attachments from unknown senders",
		"Scan attachments with antivirus before opening",
		"Be cautious of unexpected attachments even from known contacts",
		"Use secure file sharing services instead of email attachments",
	}},
	AreaSocialEngineering: {"SOCIAL ENGINEERING: Recognize manipulation tactics", []string{
		"Be wary of urgent requests for immediate action",
		"Question emails claiming to be from authority figures",
		"Verify requests through official channels, not email",
		"Don't share sensitive information via email",
	}},
	AreaPasswordSecurity: {"PASSWORD SECURITY: Protect your login credentials", []string{
		"Never share passwords via email or phone",
		"Use unique passwords for different accounts",
		"Enable two-factor authentication wherever possible",
		"Use password managers for secure storage",
	}},
}

// Exercises are suggested regardless of weak areas.
var Exercises = []string{
	"Perform a phishing awareness audit of your email inbox",
	"Set up email filters and security settings",
	"Practice identifying phishing attempts",
	"Learn to report suspicious emails to your IT/security team",
}

// Plan is a personalized learning plan.
type Plan struct {
	Level Level
	// Areas are distinct, in order of first weak response.
	Areas []PlanArea
	// Unmapped holds weak questions that matched no plan area.
	Unmapped []string
}

// BuildPlan collects plan areas from responses weighted below WeakWeight.
func BuildPlan(result scoring.AssessmentResult) Plan {
	p := Plan{Level: LevelForScore(result.Percentage)}
	seen := map[PlanArea]bool{}
	for _, r := range result.Responses {
		if r.Weight >= WeakWeight {
			continue
		}
		area, ok := AreaFor(r.Question)
		if !ok {
			p.Unmapped = append(p.Unmapped, r.Question)
			continue
		}
		if !seen[area] {
			seen[area] = true
			p.Areas = append(p.Areas, area)
		}
	}
	return p
}

func (p Plan) String() string {
	var b strings.Builder
	b.WriteString("PERSONALIZED PHISHING AWARENESS LEARNING PLAN\n\n")
	b.WriteString("PRIORITY AREAS FOR IMPROVEMENT:\n")
	for _, a := range p.Areas {
		t := areaTexts[a]
		fmt.Fprintf(&b, "\n* %s\n", t.title)
		for _, pt := range t.points {
			fmt.Fprintf(&b, "  - %s\n", pt)
		}
	}
	if len(p.Unmapped) > 0 {
		b.WriteString("\nAlso review:\n")
		for _, q := range p.Unmapped {
			fmt.Fprintf(&b, "  - %s\n", q)
		}
	}
	b.WriteString("\nPRACTICAL EXERCISES:\n")
	for i, e := range Exercises {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	fmt.Fprintf(&b, "\nKNOWLEDGE LEVEL: %s\n", strings.ToUpper(string(p.Level)))
	b.WriteString("Goal: Achieve Expert level phishing detection and prevention!\n")
	return b.String()
}
