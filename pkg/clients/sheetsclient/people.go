package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/carpool-organizer/pkg/core/model"
)

// notesHeader is an optional free-text column read into Entity.Notes
const notesHeader = "Notes"

// ListPeople reads every person from a tab, mapping columns to schema
// fields by their labels
func (c *Client) ListPeople(spreadsheetID, tab string, schema model.Schema) ([]model.Entity, error) {
	values, err := c.GetValues(spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get people data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	people, err := parsePeople(values, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to parse people: %w", err)
	}

	return people, nil
}

// parsePeople converts raw spreadsheet data into entities. The first row is
// the header. Rows with an empty identity cell are skipped.
func parsePeople(raw [][]interface{}, schema model.Schema) ([]model.Entity, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}
	header := raw[0]

	columns := make(map[string]int, len(schema.Fields))
	for _, field := range schema.Fields {
		if idx := findColumnIndex(header, field.Label); idx != -1 {
			columns[field.Key] = idx
		}
	}

	for _, key := range []string{schema.IdentityField, schema.NameField, schema.LeaderField} {
		if _, ok := columns[key]; ok {
			continue
		}
		label := key
		if f, ok := schema.Field(key); ok {
			label = f.Label
		}
		return nil, fmt.Errorf("missing required field in header: %s", label)
	}
	notesCol := findColumnIndex(header, notesHeader)

	people := make([]model.Entity, 0, len(raw)-1)
	seen := make(map[string]int, len(raw)-1)

	for i := 1; i < len(raw); i++ {
		row := raw[i]
		rowNum := i + 1

		id := cellString(row, columns[schema.IdentityField])
		if id == "" {
			continue
		}
		if first, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate %s %q in rows %d and %d", schema.IdentityField, id, first, rowNum)
		}
		seen[id] = rowNum

		person := model.Entity{
			ID:     id,
			Name:   cellString(row, columns[schema.NameField]),
			Leader: parseCheckbox(cellString(row, columns[schema.LeaderField])),
		}
		if person.Name == "" {
			person.Name = id
		}
		if notesCol != -1 {
			person.Notes = cellString(row, notesCol)
		}

		attributes := make(map[string][]string)
		for _, field := range schema.Fields {
			idx, ok := columns[field.Key]
			if !ok {
				continue
			}
			values, err := parseCell(cellString(row, idx), field)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
			if len(values) > 0 {
				attributes[field.Key] = values
			}
		}
		if len(attributes) > 0 {
			person.Attributes = attributes
		}

		if schema.SizeCap.Enabled && schema.SizeCap.Source == model.SizeFromLeader && person.Leader {
			if size := person.Value(schema.SizeCap.Field); size != "" {
				n, _ := strconv.Atoi(size)
				person.Size = model.IntPtr(n)
			}
		}

		people = append(people, person)
	}

	return people, nil
}

// parseCell splits a cell into attribute values according to the field type
func parseCell(cell string, field model.Field) ([]string, error) {
	if !field.Type.IsValid() {
		return nil, fmt.Errorf("%s has unknown field type %q", field.Label, field.Type)
	}

	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	switch field.Type {
	case model.FieldCheckbox:
		if parseCheckbox(cell) {
			return []string{"true"}, nil
		}
		return nil, nil
	case model.FieldNumber:
		n, err := strconv.Atoi(cell)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative whole number, got %q", field.Label, cell)
		}
		return []string{strconv.Itoa(n)}, nil
	}

	if !field.Multi {
		return []string{cell}, nil
	}

	var values []string
	for _, part := range strings.Split(cell, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values, nil
}

func parseCheckbox(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "yes", "y", "x", "1", "✓":
		return true
	}
	return false
}

func cellString(row []interface{}, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	switch v := row[index].(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// findColumnIndex finds the index of a column by its header name,
// ignoring case and surrounding space
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && strings.EqualFold(strings.TrimSpace(str), columnName) {
			return i
		}
	}
	return -1
}
