package answerkey

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/phishwise/internal/apperr"
)

type sheet struct {
	Subcategory string          `json:"subcategory"`
	Questions   json.RawMessage `json:"questions"`
}

type sheetQuestion struct {
	ID       string        `json:"id"`
	Question string        `json:"question"`
	Options  []sheetOption `json:"options"`
}

type sheetOption struct {
	Label string  `json:"label"`
	Text  string  `json:"text"`
	Marks float64 `json:"marks"`
	Level string  `json:"level"`
}

// Load reads an answer sheet from path.
func Load(path string, logger *zap.Logger) (*Key, error) {
	data, err := apperr.ReadFile(path)
	if err != nil {
		return nil, err
	}
	k, err := parse(data, logger)
	if err != nil {
		return nil, apperr.Malformed(path, err)
	}
	return k, nil
}

// Parse reads an answer sheet from r.
func Parse(r io.Reader, logger *zap.Logger) (*Key, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read answer sheet: %w", err)
	}
	k, err := parse(data, logger)
	if err != nil {
		return nil, apperr.Malformed("<reader>", err)
	}
	return k, nil
}

func parse(data []byte, logger *zap.Logger) (*Key, error) {
	var s sheet
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace(s.Questions)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New(`missing "questions" list`)
	}
	if raw[0] != '[' {
		return nil, errors.New(`"questions" is not a list`)
	}
	var items []sheetQuestion
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}

	questions := make([]Question, 0, len(items))
	for n, item := range items {
		text := strings.TrimSpace(item.Question)
		if text == "" {
			continue
		}
		if len(item.Options) == 0 {
			return nil, fmt.Errorf("question %d has no options", n+1)
		}
		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = fmt.Sprintf("Q%d", n+1)
		}
		q := Question{ID: id, Text: text, Options: make([]Option, len(item.Options))}
		for j, o := range item.Options {
			label := strings.TrimSpace(o.Label)
			if label == "" {
				label = optionLabel(j)
			}
			level := Level(Normalize(o.Level))
			if level == "" && o.Marks == 0 {
				level = LevelWrong
			}
			q.Options[j] = Option{
				Label: label,
				Text:  strings.TrimSpace(o.Text),
				Mark:  o.Marks,
				Level: level,
			}
		}
		questions = append(questions, q)
	}
	return newKey(strings.TrimSpace(s.Subcategory), questions, logger), nil
}

// optionLabel returns A, B, ... Z, AA, AB, ... for a zero-based position.
func optionLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}
