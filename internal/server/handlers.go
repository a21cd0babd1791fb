package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fsarwari/pgCompare/internal/catalog"
	"github.com/fsarwari/pgCompare/internal/column"
	"github.com/fsarwari/pgCompare/internal/datatype"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/logger"
	"github.com/go-chi/chi/v5"
)

type typeResponse struct {
	Type      string         `json:"type"`
	DataClass datatype.Class `json:"dataClass"`
	Category  datatype.Class `json:"category"`
	Known     bool           `json:"known"`
	Supported bool           `json:"supported"`
	Reserved  bool           `json:"reserved"`
}

type roleResponse struct {
	Role   string `json:"role"`
	Engine string `json:"engine"`
}

type tablesResponse struct {
	Role   string   `json:"role"`
	Schema string   `json:"schema"`
	Tables []string `json:"tables"`
}

type columnsResponse struct {
	Role        string          `json:"role"`
	Destination string          `json:"destination"`
	Engine      string          `json:"engine"`
	Schema      string          `json:"schema"`
	Table       string          `json:"table"`
	Columns     []column.Column `json:"columns"`
	Error       string          `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "type")
	category, known := datatype.Lookup(raw)
	writeJSON(w, http.StatusOK, typeResponse{
		Type:      raw,
		DataClass: datatype.Classify(raw),
		Category:  category,
		Known:     known,
		Supported: datatype.IsSupported(raw),
		Reserved:  datatype.IsReserved(raw),
	})
}

func (s *Server) handleRoles(w http.ResponseWriter, _ *http.Request) {
	out := []roleResponse{}
	for _, role := range s.roles.Roles() {
		out = append(out, roleResponse{Role: role, Engine: s.roles.EngineFor(role)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	role, schema := chi.URLParam(r, "role"), chi.URLParam(r, "schema")

	db, err := s.conns.DB(r.Context(), role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.conns.WithQueryTimeout(r.Context(), role)
	defer cancel()

	tables, err := s.fetcher.ListTables(ctx, db, schema, role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tablesResponse{Role: role, Schema: schema, Tables: tables})
}

// handleColumns reads the catalog through role's connection. The optional
// "dest" query parameter names the role whose engine the value expressions
// are built for; it defaults to role.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	role, schema, table := chi.URLParam(r, "role"), chi.URLParam(r, "schema"), chi.URLParam(r, "table")
	dest := r.URL.Query().Get("dest")
	if dest == "" {
		dest = role
	}

	db, err := s.conns.DB(r.Context(), role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.conns.WithQueryTimeout(r.Context(), role)
	defer cancel()

	p, err := s.fetcher.ProfileFor(role, dest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cols, err := s.fetcher.Fetch(ctx, db, schema, table, p)

	resp := columnsResponse{
		Role:        role,
		Destination: dest,
		Engine:      p.Engine.String(),
		Schema:      schema,
		Table:       table,
		Columns:     cols,
	}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = statusFor(err)
	}
	writeJSON(w, status, resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	role, schema, table := chi.URLParam(r, "role"), chi.URLParam(r, "schema"), chi.URLParam(r, "table")

	query := r.URL.Query()
	var opts catalog.PreviewOptions
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		v := query.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errs.Newf(errs.ErrKindInvalidInput, "%s must be an integer, got %q", name, v))
			return
		}
		*dst = n
	}
	for _, v := range query["where"] {
		flt, err := catalog.ParseFilter(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Filters = append(opts.Filters, flt)
	}

	db, err := s.conns.DB(r.Context(), role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := s.conns.WithQueryTimeout(r.Context(), role)
	defer cancel()

	rows, err := s.fetcher.Preview(ctx, db, schema, table, role, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindInvalidInput, errs.ErrKindUnknownEngine:
		return http.StatusBadRequest
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindPermissionDenied:
		return http.StatusForbidden
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrKindConnectionFailed:
		return http.StatusServiceUnavailable
	case errs.ErrKindQueryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).ErrorWith("request failed", err, map[string]interface{}{
			"path":   r.URL.Path,
			"status": status,
		})
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: errs.KindOf(err).String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
