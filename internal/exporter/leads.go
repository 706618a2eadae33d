// Package exporter writes lead data sets and dashboard snapshots to the
// reports directory as CSV and JSON files.
package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

// leadHeaders is the stable column order for lead CSV exports
var leadHeaders = []string{
	"ID",
	"Cust ID",
	"Agent",
	"Assigned At",
	"Source",
	"Source Tracker",
	"Status Leads",
	"Unique",
	"Tanggal Site Visit",
	"Status Site Visit",
	"Booking Date",
	"Revenue",
	"Revenue Excl PPN",
	"Nama Leads",
	"Domisili",
	"Remarks",
}

// ExportLeads writes the full lead set to a CSV file in the reports
// directory and returns the file name.
func (w *CSVWriter) ExportLeads(leads []domain.Lead) (string, error) {
	records := make([][]string, 0, len(leads))
	for _, lead := range leads {
		records = append(records, leadRecord(lead))
	}

	name := fmt.Sprintf("leads_%s.csv", time.Now().Format("20060102_150405"))
	if err := w.WriteSimpleCSV(name, leadHeaders, records); err != nil {
		return "", err
	}
	return name, nil
}

// ExportStats writes a dashboard snapshot as an indented JSON report and
// returns the file name.
func (w *CSVWriter) ExportStats(stats *domain.DashboardStats) (string, error) {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal stats report: %w", err)
	}

	name := fmt.Sprintf("dashboard_%s.json", time.Now().Format("20060102_150405"))
	fullPath := w.resolvePath(name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write stats report: %w", err)
	}
	return name, nil
}

func leadRecord(lead domain.Lead) []string {
	return []string{
		lead.ID,
		lead.CustID,
		lead.AgentName(),
		formatDate(lead.AssignedAt),
		lead.SourceName(),
		lead.SourceTracker,
		lead.StatusLeads,
		strconv.FormatBool(lead.Unique),
		formatDate(lead.TanggalSiteVisit),
		lead.StatusSiteVisit,
		formatDate(lead.BookingDate),
		formatNumber(lead.Revenue),
		formatNumber(lead.RevenueExclPpn),
		lead.NamaLeads,
		lead.Domisili,
		lead.Remarks,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return domain.DayKey(*t)
}

func formatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
