package feedback

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders the report for a terminal.
func (r Report) WriteText(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)
	res := r.Result

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\nPHISHING AWARENESS RESULTS & PERSONALIZED FEEDBACK\n%s\n", rule, rule)
	if r.Profile.Name != "" {
		fmt.Fprintf(&b, "Learner: %s\n", r.Profile.Name)
	}
	fmt.Fprintf(&b, "Total Score: %.0f/%.0f\n", res.TotalScore, res.MaxScore())
	fmt.Fprintf(&b, "Percentage: %.1f%%\n", res.Percentage)
	fmt.Fprintf(&b, "Overall Phishing Awareness Level: %s\n", res.Tier)
	fmt.Fprintf(&b, "\n%s\n", r.Headline)

	fmt.Fprintf(&b, "\n%s\nDETAILED ANALYSIS BY QUESTION:\n%s\n", thin, thin)
	for i, q := range r.Questions {
		fmt.Fprintf(&b, "\nQuestion %d: %s\n", i+1, q.Response.Question)
		fmt.Fprintf(&b, "Your Answer Level: %s (%.0f/10 points)\n",
			strings.ToUpper(string(q.Response.Level)), q.Response.Weight)
		if q.Advice != "" {
			fmt.Fprintf(&b, "Phishing Defense Enhancement:\n   %s\n", q.Advice)
		}
	}

	if len(r.Priorities) > 0 {
		fmt.Fprintf(&b, "\n%s\nPRIORITY PHISHING PROTECTION AREAS:\n%s\n", rule, rule)
		for _, g := range r.Priorities {
			fmt.Fprintf(&b, "\nCritical Area: %s\n", g.Response.Question)
			fmt.Fprintf(&b, "   Current Level: %s\n", g.Response.Level)
			fmt.Fprintf(&b, "   Protection Strategy (%s): %s\n", g.Source, g.Text)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
