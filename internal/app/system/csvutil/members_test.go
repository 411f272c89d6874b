package csvutil

import (
	"strings"
	"testing"
)

func TestPreScanMembersCSV(t *testing.T) {
	input := strings.Join([]string{
		"Email,Role",
		"Lead@Example.com,lead",
		"member@example.com",
		"",
		"  spaced@example.com , member",
	}, "\n")

	rows, errs, err := PreScanMembersCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("PreScanMembersCSV: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("errs = %+v, want none", errs)
	}
	want := []MemberCSVRow{
		{Email: "lead@example.com", Role: "lead"},
		{Email: "member@example.com", Role: "member"},
		{Email: "spaced@example.com", Role: "member"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v, want %d rows", rows, len(want))
	}
	for i, w := range want {
		if rows[i] != w {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], w)
		}
	}
}

func TestPreScanMembersCSV_NoHeader(t *testing.T) {
	rows, errs, err := PreScanMembersCSV(strings.NewReader("solo@example.com,lead\n"))
	if err != nil || len(errs) != 0 {
		t.Fatalf("err = %v, errs = %+v", err, errs)
	}
	if len(rows) != 1 || rows[0].Email != "solo@example.com" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestPreScanMembersCSV_BadRows(t *testing.T) {
	input := strings.Join([]string{
		"email,role",
		"not-an-email,member",
		"ok@example.com,owner",
		",lead",
	}, "\n")

	rows, errs, err := PreScanMembersCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("PreScanMembersCSV: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %+v, want none from an all-bad file", rows)
	}
	if len(errs) != 3 {
		t.Fatalf("errs = %+v, want 3", errs)
	}
	if errs[0].Line != 2 {
		t.Errorf("first error line = %d, want 2 (header counted)", errs[0].Line)
	}
}

func TestPreScanMembersCSV_Empty(t *testing.T) {
	rows, errs, err := PreScanMembersCSV(strings.NewReader(""))
	if err != nil || rows != nil || errs != nil {
		t.Errorf("empty input: rows=%v errs=%v err=%v", rows, errs, err)
	}
}
