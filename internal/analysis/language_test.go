package analysis

import "testing"

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"english", "Tell me about a time you led a project under pressure.", "en"},
		{"russian", "Расскажите о проекте, которым вы руководили.", "ru"},
		{"polish", "Proszę opowiedzieć o projekcie, którym Pan kierował.", "pl"},
		{"mixed mostly russian", "Я работал as a backend инженер в большой компании несколько лет", "ru"},
		{"empty", "", ""},
		{"punctuation only", "... !!! 123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectLanguage(tc.text); got != tc.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
