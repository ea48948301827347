package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"woodcost/internal/catalog"
	"woodcost/internal/estimate"
	"woodcost/internal/ingest"
	"woodcost/internal/report"
)

type calculateRequest struct {
	Project    estimate.ProjectMetadata `json:"project"`
	Components []estimate.Component     `json:"components"`
}

type calculateDirectRequest struct {
	Project estimate.ProjectMetadata `json:"project"`
	Parts   []estimate.DirectPart    `json:"parts"`
}

type errorResponse struct {
	Error     string              `json:"error"`
	RowErrors []estimate.RowError `json:"row_errors,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCalculate prices a structured component list.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Project.WastePercentage < 0 {
		s.respondError(w, http.StatusBadRequest, errors.New("waste_percentage must not be negative"))
		return
	}

	est, err := s.engine.CalculateComponents(r.Context(), req.Project, req.Components)
	if err != nil {
		s.respondCalcError(w, err)
		return
	}
	s.respondEstimate(w, r, est)
}

// handleCalculateDirect prices the CAD plugin payload.
func (s *Server) handleCalculateDirect(w http.ResponseWriter, r *http.Request) {
	var req calculateDirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Project.WastePercentage < 0 {
		s.respondError(w, http.StatusBadRequest, errors.New("waste_percentage must not be negative"))
		return
	}

	est, err := s.engine.CalculateDirect(r.Context(), req.Project, req.Parts)
	if err != nil {
		s.respondCalcError(w, err)
		return
	}
	s.respondEstimate(w, r, est)
}

// handleCalculateUpload prices an uploaded cut list (xlsx or csv). Project
// metadata arrives as multipart form fields next to the file.
func (s *Server) handleCalculateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMaxBytes)
	if err := r.ParseMultipartForm(s.uploadMaxBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer file.Close()

	meta := estimate.ProjectMetadata{
		ProjectName:  r.FormValue("project_name"),
		ClientName:   r.FormValue("client_name"),
		ContractDate: r.FormValue("contract_date"),
	}
	if raw := r.FormValue("waste_percentage"); raw != "" {
		waste, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || waste < 0 {
			s.respondError(w, http.StatusBadRequest, errors.New("waste_percentage must be a non-negative number"))
			return
		}
		meta.WastePercentage = waste
	}

	rows, err := ingest.Read(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("read cut list: %w", err))
		return
	}

	est, err := s.engine.CalculateTabular(r.Context(), meta, rows)
	if err != nil {
		s.respondCalcError(w, err)
		return
	}
	s.respondEstimate(w, r, est)
}

// handleCatalogRefresh drops the external cache and the in-process snapshot,
// then rebuilds so the next request does not pay the reload.
func (s *Server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.InvalidateCache(r.Context()); err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	s.catalogs.Invalidate()

	snap, err := s.catalogs.Rebuild(r.Context())
	if err != nil {
		s.respondCalcError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":         "refreshed",
		"pricing_config": snap.Pricing.Name,
	})
}

func (s *Server) handlePricingConfig(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalogs.Snapshot(r.Context())
	if err != nil {
		s.respondCalcError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, snap.Pricing)
}

// respondEstimate writes the estimate as JSON, or as an xlsx workbook when
// the caller asks for format=xlsx.
func (s *Server) respondEstimate(w http.ResponseWriter, r *http.Request, est *estimate.Estimate) {
	if r.URL.Query().Get("format") == "xlsx" {
		buf, err := report.WriteEstimateWorkbook(est)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=estimate_%s.xlsx", est.ID))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			s.logger.Warn("failed to stream workbook", zap.Error(err))
		}
		return
	}

	s.respondJSON(w, http.StatusOK, est)
}

// respondCalcError maps engine errors onto HTTP statuses. Validation problems
// are the caller's fault; catalog infrastructure problems are not.
func (s *Server) respondCalcError(w http.ResponseWriter, err error) {
	var noPart *estimate.NoPartError
	if errors.As(err, &noPart) {
		s.respondJSONError(w, http.StatusBadRequest, errorResponse{
			Error:     noPart.Error(),
			RowErrors: noPart.Rows,
		})
		return
	}
	if errors.Is(err, catalog.ErrNoActiveConfig) {
		s.respondError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.respondError(w, http.StatusInternalServerError, err)
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.respondJSONError(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) respondJSONError(w http.ResponseWriter, status int, resp errorResponse) {
	s.respondJSON(w, status, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}
