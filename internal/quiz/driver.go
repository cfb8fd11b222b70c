package quiz

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/scoring"
)

// ErrInputClosed is returned when the input stream ends before the quiz does.
var ErrInputClosed = errors.New("input closed")

// LineDriver runs a session over a line-oriented reader and writer.
type LineDriver struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLineDriver creates a driver reading answers from in.
func NewLineDriver(in io.Reader, out io.Writer) *LineDriver {
	return &LineDriver{scanner: bufio.NewScanner(in), out: out}
}

func (d *LineDriver) readLine(prompt string) (string, error) {
	fmt.Fprint(d.out, prompt)
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(d.scanner.Text()), nil
}

// PromptProfile asks for the learner's name and demographic details.
func (d *LineDriver) PromptProfile() (learner.Profile, error) {
	var p learner.Profile
	var err error
	if p.Name, err = d.readLine("Your name: "); err != nil {
		return p, err
	}
	if p.Gender, err = d.choose("Gender", learner.GenderChoices); err != nil {
		return p, err
	}
	if p.Education, err = d.choose("Education level", learner.EducationChoices); err != nil {
		return p, err
	}
	if p.Proficiency, err = d.choose("IT proficiency", learner.ProficiencyChoices); err != nil {
		return p, err
	}
	return p.Normalized(), nil
}

func (d *LineDriver) choose(label string, choices []string) (string, error) {
	fmt.Fprintf(d.out, "\n%s:\n", label)
	for i, c := range choices {
		fmt.Fprintf(d.out, "  %d) %s\n", i+1, c)
	}
	in, err := d.readLine("> ")
	if err != nil {
		return "", err
	}
	return learner.Choose(choices, in), nil
}

// Run asks every remaining question and returns the aggregated result.
// Non-numeric and out-of-range input re-prompts the same question.
func (d *LineDriver) Run(s *Session) (scoring.AssessmentResult, error) {
	for {
		q, ok := s.NextQuestion()
		if !ok {
			break
		}
		answered, total := s.Progress()
		fmt.Fprintf(d.out, "\n── Question %d/%d ──\n", answered+1, total)
		fmt.Fprintln(d.out, q.Text)
		for i, opt := range q.Options {
			fmt.Fprintf(d.out, "  %d) %s\n", i+1, opt.Text)
		}
		for {
			in, err := d.readLine("\nYour answer: ")
			if err != nil {
				return scoring.AssessmentResult{}, err
			}
			choice, err := strconv.Atoi(in)
			if err != nil {
				fmt.Fprintf(d.out, "Please enter a number between 1 and %d.\n", len(q.Options))
				continue
			}
			if _, err := s.SubmitAnswer(choice); err != nil {
				if errors.Is(err, apperr.ErrInvalidChoice) {
					fmt.Fprintf(d.out, "Please enter a number between 1 and %d.\n", len(q.Options))
					continue
				}
				return scoring.AssessmentResult{}, err
			}
			break
		}
	}
	return s.Result()
}
