package utils

import (
	"strings"

	"gorm.io/gorm"
)

// Filter translation rules, applied uniformly across every list endpoint:
//
//   - enum params are passed through verbatim only when present; absent
//     means no constraint, never a default
//   - search params expand to an OR of case-insensitive substring matches
//     over a fixed per-entity column set
//   - boolean params constrain only on the literal string "true"; any
//     other value, including absence, means no constraint (absence != false)
//   - multi-value params are comma-split; matching is at-least-one

// BoolParam reports whether a boolean-like query parameter constrains the
// query, and to what. Only the literal "true" produces a constraint.
func BoolParam(raw string) (value bool, constrained bool) {
	if raw == "true" {
		return true, true
	}
	return false, false
}

// SplitMulti comma-splits a multi-value parameter, dropping empty parts.
func SplitMulti(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ApplySearch adds a case-insensitive substring match over the given
// columns. LOWER() on both sides keeps behavior identical across sqlite
// and postgres.
func ApplySearch(query *gorm.DB, term string, columns []string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return query
	}

	pattern := "%" + strings.ToLower(term) + "%"
	clause := ""
	args := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		if i > 0 {
			clause += " OR "
		}
		clause += "LOWER(" + col + ") LIKE ?"
		args = append(args, pattern)
	}
	return query.Where(clause, args...)
}

// WorkerFilter is the structured form of the worker list parameters.
type WorkerFilter struct {
	Status     string
	Department string
	Search     string
	Skills     []string
}

func (f WorkerFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Department != "" {
		query = query.Where("department = ?", f.Department)
	}
	query = ApplySearch(query, f.Search, []string{"first_name", "last_name", "employee_id", "email"})
	if len(f.Skills) > 0 {
		query = query.Where(
			"id IN (SELECT worker_id FROM skills WHERE name IN ? AND deleted_at IS NULL)",
			f.Skills,
		)
	}
	return query
}

type ContractorFilter struct {
	Search    string
	Certified string
}

func (f ContractorFilter) Apply(query *gorm.DB) *gorm.DB {
	query = ApplySearch(query, f.Search, []string{"company", "contact_name", "email"})
	if certified, ok := BoolParam(f.Certified); ok {
		query = query.Where("certified = ?", certified)
	}
	return query
}

type DocumentFilter struct {
	Type     string
	WorkerID string
	Search   string
}

func (f DocumentFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.WorkerID != "" {
		query = query.Where("worker_id = ?", f.WorkerID)
	}
	return ApplySearch(query, f.Search, []string{"name", "file_name"})
}

type ScanFilter struct {
	WorkerID string
	Outcome  string
	Location string
	Limit    int
}

func (f ScanFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.WorkerID != "" {
		query = query.Where("worker_id = ?", f.WorkerID)
	}
	if f.Outcome != "" {
		query = query.Where("outcome = ?", f.Outcome)
	}
	return ApplySearch(query, f.Location, []string{"location"})
}

type SessionFilter struct {
	EquipmentID string
	Active      string
}

func (f SessionFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.EquipmentID != "" {
		query = query.Where("equipment_id = ?", f.EquipmentID)
	}
	if active, ok := BoolParam(f.Active); ok && active {
		query = query.Where("end_time IS NULL")
	}
	return query
}
