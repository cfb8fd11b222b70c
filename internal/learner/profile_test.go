package learner

import "testing"

func TestNormalized(t *testing.T) {
	p := Profile{Name: "  ", Gender: " Female "}.Normalized()
	if p.Name != Anonymous {
		t.Errorf("Name = %q, want %q", p.Name, Anonymous)
	}
	if p.Gender != "Female" {
		t.Errorf("Gender = %q, want Female", p.Gender)
	}
}

func TestKeyIsCaseInsensitive(t *testing.T) {
	a := Profile{Name: " Alice "}
	b := Profile{Name: "ALICE"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
}

func TestChoose(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "Beginner"},
		{"4", "Expert"},
		{"advanced", "Advanced"},
		{"9", "9"},
		{" Guru ", "Guru"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Choose(ProficiencyChoices, tt.input); got != tt.want {
			t.Errorf("Choose(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := (Profile{}).Describe(); got != "no profile details" {
		t.Errorf("empty Describe() = %q", got)
	}
	got := Profile{Proficiency: "Beginner", Education: "Diploma"}.Describe()
	want := "IT proficiency: Beginner, education: Diploma"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
