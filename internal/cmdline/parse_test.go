package cmdline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "    ", nil},
		{"simple", "run foo bar", []string{"run", "foo", "bar"}},
		{"surrounding spaces", "  run   foo  ", []string{"run", "foo"}},
		{"trailing newline", "run foo\n", []string{"run", "foo"}},
		{"crlf", "run foo\r\n", []string{"run", "foo"}},
		{"only first line", "run foo\nsecond line", []string{"run", "foo"}},
		{"quoted keeps quotes", "java -cp x 'a b c' d", []string{"java", "-cp", "x", "'a b c'", "d"}},
		{"unterminated quote", "run 'a b", []string{"run", "'a b"}},
		{"token ends at closing quote", "run 'a b'c", []string{"run", "'a b'", "c"}},
		{"quote inside token is literal", "run it's", []string{"run", "it's"}},
		{"tabs are not separators", "run\tfoo", []string{"run\tfoo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParse_ReadsBackQuotedArguments(t *testing.T) {
	line := "java -jar app.jar " + Quote("two words") + " " + Quote("plain")
	got := Parse(line)
	want := []string{"java", "-jar", "app.jar", "'two words'", "plain"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}
