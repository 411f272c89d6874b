package htmlsanitize

import "testing"

func TestPlain(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Smith v. Jones", "Smith v. Jones"},
		{"<script>alert(1)</script>Smith", "Smith"},
		{"<b>bold</b> claim", "bold claim"},
		{"  padded  ", "padded"},
		{`<img src=x onerror=alert(1)>`, ""},
	}
	for _, tt := range tests {
		if got := Plain(tt.in); got != tt.want {
			t.Errorf("Plain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
