// Package learner describes the person taking an assessment.
package learner

import (
	"fmt"
	"strconv"
	"strings"
)

// Profile is collected once per session and used to personalize feedback.
type Profile struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Education   string `json:"education_level"`
	Proficiency string `json:"proficiency"`
}

// Choices offered when prompting for each profile attribute.
var (
	GenderChoices      = []string{"Male", "Female", "Other", "Prefer not to say"}
	EducationChoices   = []string{"High School", "Diploma", "Bachelor's Degree", "Master's Degree", "Doctorate", "Other"}
	ProficiencyChoices = []string{"Beginner", "Intermediate", "Advanced", "Expert"}
)

// Anonymous is used when no name is supplied.
const Anonymous = "Anonymous"

// Normalized returns p with surrounding whitespace removed and an empty name
// replaced by Anonymous.
func (p Profile) Normalized() Profile {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = Anonymous
	}
	p.Gender = strings.TrimSpace(p.Gender)
	p.Education = strings.TrimSpace(p.Education)
	p.Proficiency = strings.TrimSpace(p.Proficiency)
	return p
}

// Key identifies a learner across sessions: the trimmed, lower-cased name.
func (p Profile) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}

// Describe renders the profile for prompts.
func (p Profile) Describe() string {
	var parts []string
	if p.Proficiency != "" {
		parts = append(parts, fmt.Sprintf("IT proficiency: %s", p.Proficiency))
	}
	if p.Education != "" {
		parts = append(parts, fmt.Sprintf("education: %s", p.Education))
	}
	if p.Gender != "" {
		parts = append(parts, fmt.Sprintf("gender: %s", p.Gender))
	}
	if len(parts) == 0 {
		return "no profile details"
	}
	return strings.Join(parts, ", ")
}

// Choose resolves a 1-based menu selection or a free-text value against
// choices. Unknown text is kept as typed.
func Choose(choices []string, input string) string {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1]
	}
	for _, c := range choices {
		if strings.EqualFold(c, input) {
			return c
		}
	}
	return input
}
