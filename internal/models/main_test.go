package models

import "testing"

func TestParseEntryType(t *testing.T) {
	tests := []struct {
		raw    string
		want   EntryType
		wantOK bool
	}{
		{"income", Income, true},
		{"INCOME", Income, true},
		{" Expense ", Expense, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseEntryType(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseEntryType(%q) = (%q, %v); want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@sub.domain.org"}
	for _, s := range valid {
		if !ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = false; want true", s)
		}
	}
	invalid := []string{"", "plain", "a@nodot", "@x.com"}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = true; want false", s)
		}
	}
}

func TestValidPassword(t *testing.T) {
	if ValidPassword("12345") {
		t.Error("five characters accepted; want at least six")
	}
	if !ValidPassword("123456") {
		t.Error("six characters rejected")
	}
}
