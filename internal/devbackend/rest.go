package devbackend

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type colKind int

const (
	kindText colKind = iota
	kindInt
	kindBool
	kindJSON
)

type column struct {
	name string
	kind colKind
}

// tables describes the row API surface: which tables exist and how their
// columns map between SQLite storage and JSON.
var tables = map[string][]column{
	"profiles": {
		{"id", kindText}, {"full_name", kindText}, {"phone", kindText},
		{"role", kindText}, {"stripe_customer_id", kindText},
		{"created_at", kindText}, {"updated_at", kindText},
	},
	"plans": {
		{"id", kindText}, {"slug", kindText}, {"title", kindText},
		{"price", kindInt}, {"billing_interval", kindText},
		{"features", kindJSON}, {"stripe_price_id", kindText},
		{"is_active", kindBool}, {"sort_order", kindInt},
	},
	"memberships": {
		{"id", kindText}, {"user_id", kindText}, {"plan_id", kindText},
		{"stripe_subscription_id", kindText}, {"status", kindText},
		{"start_date", kindText}, {"end_date", kindText},
		{"created_at", kindText}, {"updated_at", kindText},
	},
	"inquiries": {
		{"id", kindText}, {"name", kindText}, {"email", kindText},
		{"phone", kindText}, {"message", kindText},
		{"interested_in", kindText}, {"source", kindText},
		{"created_at", kindText},
	},
	"app_downloads": {
		{"id", kindText}, {"platform", kindText}, {"user_agent", kindText},
		{"referrer", kindText}, {"created_at", kindText},
	},
}

// writeRowError emits an error in the row API's body shape.
func writeRowError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
	})
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	cols, ok := tables[table]
	if !ok {
		writeRowError(w, http.StatusNotFound, "42P01", "relation does not exist")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.selectRows(w, r, table, cols)
	case http.MethodHead:
		s.countRows(w, r, table, cols)
	case http.MethodPost:
		s.insertRow(w, r, table, cols)
	default:
		writeRowError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

// whereClause translates eq./in. query parameters into SQL.
func whereClause(r *http.Request, cols []column) (string, []any, error) {
	known := make(map[string]column, len(cols))
	for _, c := range cols {
		known[c.name] = c
	}

	var clauses []string
	var args []any
	for key, values := range r.URL.Query() {
		col, ok := known[key]
		if !ok {
			continue // select/order/limit and unknown params
		}
		raw := values[0]
		switch {
		case strings.HasPrefix(raw, "eq."):
			clauses = append(clauses, col.name+" = ?")
			args = append(args, filterValue(col, strings.TrimPrefix(raw, "eq.")))
		case strings.HasPrefix(raw, "in."):
			list := strings.TrimPrefix(raw, "in.")
			list = strings.TrimPrefix(list, "(")
			list = strings.TrimSuffix(list, ")")
			items := strings.Split(list, ",")
			marks := make([]string, 0, len(items))
			for _, item := range items {
				marks = append(marks, "?")
				args = append(args, filterValue(col, strings.TrimSpace(item)))
			}
			clauses = append(clauses, col.name+" IN ("+strings.Join(marks, ", ")+")")
		default:
			return "", nil, fmt.Errorf("unsupported operator in %q", raw)
		}
	}
	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func filterValue(col column, raw string) any {
	if col.kind == kindBool {
		if raw == "true" {
			return 1
		}
		return 0
	}
	return raw
}

// orderClause translates an "order=col.desc" parameter into SQL.
func orderClause(r *http.Request, cols []column) string {
	raw := r.URL.Query().Get("order")
	if raw == "" {
		return ""
	}
	name, dir, _ := strings.Cut(raw, ".")
	for _, c := range cols {
		if c.name == name {
			if dir == "desc" {
				return " ORDER BY " + name + " DESC"
			}
			return " ORDER BY " + name + " ASC"
		}
	}
	return ""
}

func (s *Server) selectRows(w http.ResponseWriter, r *http.Request, table string, cols []column) {
	where, args, err := whereClause(r, cols)
	if err != nil {
		writeRowError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.name)
	}
	query := "SELECT " + strings.Join(names, ", ") + " FROM " + table + where + orderClause(r, cols)
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		query += " LIMIT " + strconv.Itoa(limit)
	}

	rows, err := s.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		writeRowError(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		record, err := scanRecord(rows, cols)
		if err != nil {
			writeRowError(w, http.StatusInternalServerError, "", err.Error())
			return
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		writeRowError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

func (s *Server) countRows(w http.ResponseWriter, r *http.Request, table string, cols []column) {
	where, args, err := whereClause(r, cols)
	if err != nil {
		writeRowError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	var total int
	if err := s.db.QueryRowContext(r.Context(), "SELECT COUNT(*) FROM "+table+where, args...).Scan(&total); err != nil {
		writeRowError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	if total == 0 {
		w.Header().Set("Content-Range", "*/0")
	} else {
		w.Header().Set("Content-Range", fmt.Sprintf("0-%d/%d", total-1, total))
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) insertRow(w http.ResponseWriter, r *http.Request, table string, cols []column) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRowError(w, http.StatusBadRequest, "", "request body is not valid JSON")
		return
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	id, _ := body["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}

	var names []string
	var marks []string
	var args []any
	for _, c := range cols {
		var value any
		switch c.name {
		case "id":
			value = id
		case "created_at", "updated_at":
			if v, ok := body[c.name]; ok {
				value = v
			} else {
				value = now
			}
		default:
			v, ok := body[c.name]
			if !ok || v == nil {
				continue
			}
			value = storeValue(c, v)
		}
		names = append(names, c.name)
		marks = append(marks, "?")
		args = append(args, value)
	}

	query := "INSERT INTO " + table + " (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	if _, err := s.db.ExecContext(r.Context(), query, args...); err != nil {
		if isUniqueViolation(err) {
			writeRowError(w, http.StatusConflict, "23505", err.Error())
			return
		}
		writeRowError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
		row := s.db.QueryRowContext(r.Context(), selectByID(table, cols), id)
		record, err := scanRecord(row, cols)
		if err != nil {
			writeRowError(w, http.StatusInternalServerError, "", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{record})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func selectByID(table string, cols []column) string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.name)
	}
	return "SELECT " + strings.Join(names, ", ") + " FROM " + table + " WHERE id = ?"
}

// storeValue converts a JSON value into its SQLite representation.
func storeValue(c column, v any) any {
	switch c.kind {
	case kindBool:
		if b, ok := v.(bool); ok && b {
			return 1
		}
		return 0
	case kindInt:
		if f, ok := v.(float64); ok {
			return int64(f)
		}
		return v
	case kindJSON:
		raw, err := json.Marshal(v)
		if err != nil {
			return "[]"
		}
		return string(raw)
	}
	return v
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row into a JSON-shaped map.
func scanRecord(src scanner, cols []column) (map[string]any, error) {
	dests := make([]any, len(cols))
	for i := range dests {
		dests[i] = new(sql.NullString)
	}
	if err := src.Scan(dests...); err != nil {
		return nil, err
	}

	record := make(map[string]any, len(cols))
	for i, c := range cols {
		ns := dests[i].(*sql.NullString)
		if !ns.Valid {
			record[c.name] = nil
			continue
		}
		switch c.kind {
		case kindInt:
			n, err := strconv.ParseInt(ns.String, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.name, err)
			}
			record[c.name] = n
		case kindBool:
			record[c.name] = ns.String != "0" && ns.String != "false"
		case kindJSON:
			record[c.name] = json.RawMessage(ns.String)
		default:
			record[c.name] = ns.String
		}
	}
	return record, nil
}
