package resource

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Just text", want: "Just text"},
		{name: "paragraphs", input: "<p>First</p><p>Second</p>", want: "First\n\nSecond"},
		{name: "inline tags", input: "<p>Buy <strong>now</strong> &amp; save</p>", want: "Buy now & save"},
		{name: "line breaks", input: "a<br/>b<BR>c", want: "a\nb\nc"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.input); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
