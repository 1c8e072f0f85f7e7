package sandbox

import "encoding/json"

// resultKind discriminates the three Result variants.
type resultKind int

const (
	kindRows resultKind = iota
	kindAffected
	kindFailure
)

// Result is the normalized outcome of executing a fragment: rows for
// row-returning statements, an affected count for row-affecting ones, or a
// failure carrying the offending statement and a human-readable message.
type Result struct {
	kind     resultKind
	data     []map[string]any
	affected int64
	err      string
	sql      string
}

// RowsResult returns a successful row-returning result.
func RowsResult(data []map[string]any) Result {
	if data == nil {
		data = []map[string]any{}
	}
	return Result{kind: kindRows, data: data}
}

// AffectedResult returns a successful row-affecting result.
func AffectedResult(n int64) Result {
	return Result{kind: kindAffected, affected: n}
}

// FailureResult returns a failed result for the given statement.
func FailureResult(sql, message string) Result {
	return Result{kind: kindFailure, sql: sql, err: message}
}

// Success reports whether execution succeeded.
func (r Result) Success() bool { return r.kind != kindFailure }

// HasRows reports whether the result carries a row set.
func (r Result) HasRows() bool { return r.kind == kindRows }

// Rows returns the row set of a row-returning result, nil otherwise.
func (r Result) Rows() []map[string]any {
	if r.kind != kindRows {
		return nil
	}
	return r.data
}

// RowCount returns the number of returned rows.
func (r Result) RowCount() int { return len(r.data) }

// Affected returns the affected-row count of a row-affecting result.
func (r Result) Affected() int64 { return r.affected }

// Err returns the failure message, or "" on success.
func (r Result) Err() string { return r.err }

// SQL returns the offending statement of a failure, or "" on success.
func (r Result) SQL() string { return r.sql }

// MarshalJSON encodes the result in its wire shape:
//
//	{"success": true, "data": [...], "rowCount": n}   row-returning
//	{"success": true, "affectedRows": n}              row-affecting
//	{"success": false, "error": "..."}                failure
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case kindRows:
		return json.Marshal(struct {
			Success  bool             `json:"success"`
			Data     []map[string]any `json:"data"`
			RowCount int              `json:"rowCount"`
		}{Success: true, Data: r.data, RowCount: len(r.data)})
	case kindAffected:
		return json.Marshal(struct {
			Success      bool  `json:"success"`
			AffectedRows int64 `json:"affectedRows"`
		}{Success: true, AffectedRows: r.affected})
	default:
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Success: false, Error: r.err})
	}
}
