package sheetsclient

import (
	"fmt"
	"strings"
	"time"
)

// ExportedGroup is one row of the exported roster
type ExportedGroup struct {
	Name      string
	Capacity  string
	SeatsLeft string
	Members   []string
	Warnings  []string
}

// RosterExport is the complete exported roster
type RosterExport struct {
	GeneratedAt time.Time
	Groups      []ExportedGroup
	Unassigned  []string
}

// PublishRoster writes the roster to a tab, creating the tab if needed and
// replacing its contents otherwise
func (c *Client) PublishRoster(spreadsheetID, tab string, export *RosterExport) error {
	exists, err := c.HasSheet(spreadsheetID, tab)
	if err != nil {
		return err
	}

	if exists {
		if err := c.ClearValues(spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to clear tab %s: %w", tab, err)
		}
	} else {
		if _, err := c.CreateSheet(spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to create tab %s: %w", tab, err)
		}
	}

	if err := c.UpdateValues(spreadsheetID, fmt.Sprintf("%s!A1", tab), buildExportRows(export)); err != nil {
		return fmt.Errorf("failed to write roster to tab %s: %w", tab, err)
	}

	return nil
}

// buildExportRows lays out the export: a generated-at line and a blank row,
// the group table, then the unassigned list after another blank row
func buildExportRows(export *RosterExport) [][]interface{} {
	maxMembers := 0
	for _, g := range export.Groups {
		maxMembers = max(maxMembers, len(g.Members))
	}

	header := []interface{}{"Group", "Capacity", "Seats left"}
	for i := 0; i < maxMembers; i++ {
		header = append(header, fmt.Sprintf("Member %d", i+1))
	}
	header = append(header, "Warnings")

	rows := [][]interface{}{
		{"Generated", export.GeneratedAt.Format("Mon Jan 02 2006 15:04")},
		{},
		header,
	}

	for _, g := range export.Groups {
		row := []interface{}{g.Name, g.Capacity, g.SeatsLeft}
		for i := 0; i < maxMembers; i++ {
			if i < len(g.Members) {
				row = append(row, g.Members[i])
			} else {
				row = append(row, "")
			}
		}
		row = append(row, strings.Join(g.Warnings, "; "))
		rows = append(rows, row)
	}

	rows = append(rows, []interface{}{}, []interface{}{"Unassigned"})
	for _, name := range export.Unassigned {
		rows = append(rows, []interface{}{name})
	}

	return rows
}
