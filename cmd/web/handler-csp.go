package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// cspViolationReport represents the structure of a CSP violation report.
type cspViolationReport struct {
	CSPReport struct {
		DocumentURI       string `json:"document-uri"`
		ViolatedDirective string `json:"violated-directive"`
		BlockedURI        string `json:"blocked-uri"`
		SourceFile        string `json:"source-file"`
		LineNumber        int    `json:"line-number"`
	} `json:"csp-report"`
}

// cspViolation logs CSP violation reports sent by browsers rendering the routine page.
func (app *application) cspViolation(w http.ResponseWriter, r *http.Request) {
	// 64KB is plenty for a report.
	const maxBodySize = 64 * 1024
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "could not read body")
		return
	}

	var report cspViolationReport
	if err = json.Unmarshal(body, &report); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid report")
		return
	}

	app.logger.LogAttrs(r.Context(), slog.LevelWarn, "CSP violation detected",
		slog.String("document_uri", report.CSPReport.DocumentURI),
		slog.String("violated_directive", report.CSPReport.ViolatedDirective),
		slog.String("blocked_uri", report.CSPReport.BlockedURI),
		slog.String("source_file", report.CSPReport.SourceFile),
		slog.Int("line_number", report.CSPReport.LineNumber))

	w.WriteHeader(http.StatusNoContent)
}
