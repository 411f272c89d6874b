// internal/app/system/csvutil/members.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/lexhub/internal/app/system/normalize"
	"github.com/dalemusser/lexhub/internal/domain/models"
)

// Upload limits for member import files.
const (
	MaxUploadSize = 5 << 20 // bytes
	MaxRows       = 20000
)

// MemberCSVRow is one normalized row from a member import file. Email
// identifies an existing user; Role is "lead" or "member".
type MemberCSVRow struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RowError describes one rejected row. Line is 1-based and counts the
// header when one is present.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// PreScanMembersCSV reads all rows from r, skips a header if present, and
// validates each row. Columns are Email[,Role]; a missing role defaults to
// "member". It never writes to a DB, so it is safe to run before any
// mutations; callers reject the whole upload when errs is non-empty.
func PreScanMembersCSV(r io.Reader) (rows []MemberCSVRow, errs []RowError, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	first, ferr := reader.Read()
	if ferr == io.EOF {
		return nil, nil, nil
	}
	if ferr != nil {
		return nil, nil, ferr
	}
	line++

	// Header detection: a first row whose first cell is "email".
	if !(len(first) >= 1 && strings.EqualFold(strings.TrimSpace(first[0]), "email")) {
		if row, rowErr := scanRow(first, line); rowErr != nil {
			errs = append(errs, *rowErr)
		} else if row != nil {
			rows = append(rows, *row)
		}
	}

	for {
		rec, e := reader.Read()
		if e == io.EOF {
			break
		}
		line++
		if e != nil {
			errs = append(errs, RowError{Line: line, Reason: "unreadable row"})
			continue
		}
		if line > MaxRows {
			return nil, nil, fmt.Errorf("too many rows (limit %d)", MaxRows)
		}
		if row, rowErr := scanRow(rec, line); rowErr != nil {
			errs = append(errs, *rowErr)
		} else if row != nil {
			rows = append(rows, *row)
		}
	}

	return rows, errs, nil
}

// scanRow validates one record. A fully blank row returns (nil, nil) and
// is skipped silently.
func scanRow(rec []string, line int) (*MemberCSVRow, *RowError) {
	var email, role string
	if len(rec) > 0 {
		email = normalize.Email(rec[0])
	}
	if len(rec) > 1 {
		role = strings.ToLower(strings.TrimSpace(rec[1]))
	}

	if email == "" && role == "" {
		return nil, nil
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &RowError{Line: line, Reason: "missing or invalid email"}
	}
	if role == "" {
		role = models.TeamRoleMember
	}
	if role != models.TeamRoleLead && role != models.TeamRoleMember {
		return nil, &RowError{Line: line, Reason: `role must be "lead" or "member"`}
	}
	return &MemberCSVRow{Email: email, Role: role}, nil
}
