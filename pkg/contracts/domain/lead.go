package domain

import (
	"strings"
	"time"
)

// Lead represents one canonical prospective-customer record imported from a
// spreadsheet or CRM export. A Lead is constructed exactly once per raw input
// row and is never mutated afterwards; a re-import replaces the working set.
type Lead struct {
	ID     string `json:"id"`
	CustID string `json:"cust_id"`

	// Ownership and assignment
	Agent      string     `json:"agent"`
	AssignedAt *time.Time `json:"assigned_at"`

	// Acquisition
	Source        string `json:"source"`
	SourceTracker string `json:"source_tracker"`

	// Lifecycle status. UniqueRawStatus carries the verbatim dedup-flag string
	// from the source; Unique is derived from it and the two never disagree.
	StatusLeads     string `json:"status_leads"`
	UniqueRawStatus string `json:"unique_raw_status"`
	Unique          bool   `json:"unique"`

	// Visit stage
	TanggalSiteVisit *time.Time `json:"tanggal_site_visit"`
	StatusSiteVisit  string     `json:"status_site_visit"`

	// Booking stage. RevenueExclPpn is the tax-exclusive figure used for all
	// revenue aggregation.
	BookingDate    *time.Time `json:"booking_date"`
	Revenue        float64    `json:"revenue"`
	RevenueExclPpn float64    `json:"revenue_excl_ppn"`

	// Descriptive fields carried through without semantic weight in aggregation
	NamaLeads       string     `json:"nama_leads"`
	Remarks         string     `json:"remarks"`
	Domisili        string     `json:"domisili"`
	Pekerjaan       string     `json:"pekerjaan"`
	SLADuration     string     `json:"sla_duration"`
	Overdue         bool       `json:"overdue"`
	LinkIklan       string     `json:"link_iklan"`
	NoAttempt       float64    `json:"no_attempt"`
	DaysToVisit     float64    `json:"days_to_visit"`
	DaysToBooking   float64    `json:"days_to_booking"`
	Tower           string     `json:"tower"`
	Lantai          string     `json:"lantai"`
	Nomor           string     `json:"nomor"`
	Type            string     `json:"type"`
	TanggalVisitAja *time.Time `json:"tanggal_visit_aja"`
	TerhitungVisit  bool       `json:"terhitung_visit"`
	ReceivedAtHour  float64    `json:"received_at_hour"`
}

// visitDoneMarker is the substring that marks a site visit as completed.
const visitDoneMarker = "visit done"

// VisitDone reports whether the lead counts toward visit metrics: it must have
// a visit date AND a status containing "visit done". The date alone is not
// sufficient (a scheduled visit is not a completed one).
func (l *Lead) VisitDone() bool {
	if l.TanggalSiteVisit == nil {
		return false
	}
	return strings.Contains(strings.ToLower(l.StatusSiteVisit), visitDoneMarker)
}

// HasBooking reports whether the lead counts toward booking metrics.
func (l *Lead) HasBooking() bool {
	return l.BookingDate != nil
}

// AgentName returns the owning agent, defaulting to "Unassigned" when the
// assignment column was empty. The default is applied here rather than during
// normalization so the stored record stays faithful to the source.
func (l *Lead) AgentName() string {
	if strings.TrimSpace(l.Agent) == "" {
		return "Unassigned"
	}
	return l.Agent
}

// SourceName returns the acquisition source, defaulting to "Unknown".
func (l *Lead) SourceName() string {
	if strings.TrimSpace(l.Source) == "" {
		return "Unknown"
	}
	return l.Source
}
