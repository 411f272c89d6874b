// internal/app/system/access/capability.go
package access

import "github.com/dalemusser/lexhub/internal/domain/models"

// Capability is one fine-grained (resource, action) permission derived
// from an access level. The set is a closed enumeration; handlers gate on
// these constants so a misspelled capability is a compile error, not a
// silent allow or deny at runtime.
type Capability string

const (
	CapCaseView   Capability = "case.view"
	CapCaseEdit   Capability = "case.edit"
	CapCaseDelete Capability = "case.delete"

	CapDocumentsRead   Capability = "documents.read"
	CapDocumentsWrite  Capability = "documents.write"
	CapDocumentsDelete Capability = "documents.delete"

	CapWritingsRead   Capability = "writings.read"
	CapWritingsWrite  Capability = "writings.write"
	CapWritingsDelete Capability = "writings.delete"

	CapClientsRead   Capability = "clients.read"
	CapClientsWrite  Capability = "clients.write"
	CapClientsDelete Capability = "clients.delete"

	CapTeamsRead  Capability = "teams.read"
	CapTeamsWrite Capability = "teams.write"

	CapChatUse      Capability = "chat.use"
	CapGrantsManage Capability = "grants.manage"
)

// AllCapabilities lists every capability in display order.
var AllCapabilities = []Capability{
	CapCaseView, CapCaseEdit, CapCaseDelete,
	CapDocumentsRead, CapDocumentsWrite, CapDocumentsDelete,
	CapWritingsRead, CapWritingsWrite, CapWritingsDelete,
	CapClientsRead, CapClientsWrite, CapClientsDelete,
	CapTeamsRead, CapTeamsWrite,
	CapChatUse, CapGrantsManage,
}

// CapabilityTable is the expansion of one access level into per-resource
// permissions. The same table backs server-side enforcement and the
// advisory capability endpoint; the server resolution is the authority.
type CapabilityTable map[Capability]bool

// Can reports whether the table includes the capability.
func (t CapabilityTable) Can(c Capability) bool {
	return t[c]
}

// The tiers are cumulative: each level's additions stack on the one below,
// which is what makes the table monotonic in the level hierarchy.
var (
	basicCapabilities = []Capability{
		CapCaseView,
		CapDocumentsRead,
		CapWritingsRead,
		CapClientsRead,
		CapTeamsRead,
	}
	advancedCapabilities = []Capability{
		CapDocumentsWrite,
		CapWritingsWrite,
		CapClientsWrite,
		CapChatUse,
	}
	adminCapabilities = []Capability{
		CapCaseEdit,
		CapCaseDelete,
		CapDocumentsDelete,
		CapWritingsDelete,
		CapClientsDelete,
		CapTeamsWrite,
		CapGrantsManage,
	}
)

// CapabilitiesFor expands an access level into its capability table.
// An invalid level yields an empty table: no access, fail closed.
func CapabilitiesFor(level models.AccessLevel) CapabilityTable {
	t := make(CapabilityTable, len(AllCapabilities))
	if !level.IsValid() {
		return t
	}

	for _, c := range basicCapabilities {
		t[c] = true
	}
	if level.AtLeast(models.LevelAdvanced) {
		for _, c := range advancedCapabilities {
			t[c] = true
		}
	}
	if level.AtLeast(models.LevelAdmin) {
		for _, c := range adminCapabilities {
			t[c] = true
		}
	}
	return t
}
