package normalize

import "testing"

func TestSection(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"153-b", "153B"},
		{"153B", "153B"},
		{" 302 ", "302"},
		{"302", "302"},
		{"420 a", "420A"},
		{"", ""},
		{"--", ""},
	}
	for _, c := range cases {
		if got := Section(c.in); got != c.want {
			t.Errorf("Section(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSection_Idempotent(t *testing.T) {
	inputs := []string{"153-b", "302", " 34 A ", "IV", "498-A", ""}
	for _, in := range inputs {
		once := Section(in)
		if twice := Section(once); twice != once {
			t.Errorf("Section not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Indian Penal Code", "indian_penal_code"},
		{"indian_penal_code", "indian_penal_code"},
		{"Evidence Act, 1872", "evidence_act_1872"},
		{"  criminal  ", "criminal"},
		{"case-law", "case-law"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Token(c.in); got != c.want {
			t.Errorf("Token(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToken_Idempotent(t *testing.T) {
	inputs := []string{"Indian Penal Code", "criminal", "Hindu Marriage Act", "x  y"}
	for _, in := range inputs {
		once := Token(in)
		if twice := Token(once); twice != once {
			t.Errorf("Token not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestTokens_DedupAndDropEmpty(t *testing.T) {
	got := Tokens([]string{"Criminal", "criminal", "  ", "Family"})
	want := []string{"criminal", "family"}
	if len(got) != len(want) {
		t.Fatalf("Tokens() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokens()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSections_PreservesOrder(t *testing.T) {
	got := Sections([]string{"302", "153-b", "302"})
	if len(got) != 2 || got[0] != "302" || got[1] != "153B" {
		t.Errorf("Sections() = %v", got)
	}
}
