package cli

import "testing"

func TestTokenize(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"show status", []string{"show", "status"}},
		{"  config   save  ", []string{"config", "save"}},
		{"", nil},
		{"port f0 vlan 10", []string{"port", "f0", "vlan", "10"}},
	}
	for _, c := range cases {
		got := Tokenize(c.line)
		if len(got) != len(c.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", c.line, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", c.line, i, got[i], c.want[i])
			}
		}
	}
}

func TestTokenizeShellHonorsQuoting(t *testing.T) {
	got, err := TokenizeShell(`admin users add "Jane Doe" secret`)
	if err != nil {
		t.Fatalf("TokenizeShell: %v", err)
	}
	want := []string{"admin", "users", "add", "Jane Doe", "secret"}
	if len(got) != len(want) {
		t.Fatalf("TokenizeShell = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TokenizeShell[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeShellUnterminatedQuoteErrors(t *testing.T) {
	if _, err := TokenizeShell(`admin users add "unterminated`); err == nil {
		t.Error("expected an error for an unterminated quote")
	}
}
