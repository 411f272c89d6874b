package access

import (
	"testing"

	"github.com/dalemusser/lexhub/internal/domain/models"
)

func TestCapabilitiesFor_Monotonic(t *testing.T) {
	basic := CapabilitiesFor(models.LevelBasic)
	advanced := CapabilitiesFor(models.LevelAdvanced)
	admin := CapabilitiesFor(models.LevelAdmin)

	// Every capability a level has, every higher level has too.
	for _, c := range AllCapabilities {
		if basic.Can(c) && !advanced.Can(c) {
			t.Errorf("advanced lost basic capability %s", c)
		}
		if advanced.Can(c) && !admin.Can(c) {
			t.Errorf("admin lost advanced capability %s", c)
		}
	}

	// And the inclusions are strict.
	if len(basic) >= len(advanced) || len(advanced) >= len(admin) {
		t.Errorf("tiers not strictly growing: basic=%d advanced=%d admin=%d",
			len(basic), len(advanced), len(admin))
	}
}

func TestCapabilitiesFor_Basic(t *testing.T) {
	table := CapabilitiesFor(models.LevelBasic)

	for _, c := range []Capability{CapCaseView, CapDocumentsRead, CapWritingsRead, CapClientsRead, CapTeamsRead} {
		if !table.Can(c) {
			t.Errorf("basic should have %s", c)
		}
	}
	for _, c := range []Capability{CapDocumentsWrite, CapChatUse, CapCaseDelete, CapGrantsManage} {
		if table.Can(c) {
			t.Errorf("basic should not have %s", c)
		}
	}
}

func TestCapabilitiesFor_Advanced(t *testing.T) {
	table := CapabilitiesFor(models.LevelAdvanced)

	for _, c := range []Capability{CapDocumentsWrite, CapWritingsWrite, CapClientsWrite, CapChatUse} {
		if !table.Can(c) {
			t.Errorf("advanced should have %s", c)
		}
	}
	// Deletion and grant administration stay admin-only.
	for _, c := range []Capability{CapCaseDelete, CapDocumentsDelete, CapGrantsManage, CapTeamsWrite} {
		if table.Can(c) {
			t.Errorf("advanced should not have %s", c)
		}
	}
}

func TestCapabilitiesFor_Admin(t *testing.T) {
	table := CapabilitiesFor(models.LevelAdmin)
	for _, c := range AllCapabilities {
		if !table.Can(c) {
			t.Errorf("admin should have %s", c)
		}
	}
}

func TestCapabilitiesFor_InvalidLevel(t *testing.T) {
	for _, level := range []models.AccessLevel{"", "owner", "superadmin"} {
		table := CapabilitiesFor(level)
		if len(table) != 0 {
			t.Errorf("invalid level %q yielded %d capabilities, want 0", level, len(table))
		}
		if table.Can(CapCaseView) {
			t.Errorf("invalid level %q can case.view", level)
		}
	}
}
