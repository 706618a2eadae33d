package dataprocessing

import (
	"strings"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

// Header alias tables, canonical field -> accepted upstream spellings in
// priority order. These literals are the accumulated set of header variants
// observed across CRM snapshots and Sheets exports; keep additions at the end
// of a chain so earlier spellings keep precedence.
var (
	aliasCustID          = []string{"Cust ID", "cust_id", "CustomerID"}
	aliasNamaLeads       = []string{"Nama Leads", "nama_leads", "Name"}
	aliasAgent           = []string{"Agent", "agent_name"}
	aliasAssignedAt      = []string{"Assigned at", "assigned_at"}
	aliasSource          = []string{"Source", "source_leads"}
	aliasNoAttempt       = []string{"no Attempt", "attempt"}
	aliasStatusLeads     = []string{"Status leads", "status"}
	aliasRemarks         = []string{"Remarks", "catatan"}
	aliasDomisili        = []string{"Domisili", "city"}
	aliasPekerjaan       = []string{"Pekerjaan (User yg klik)", "occupation"}
	aliasSLADuration     = []string{"Time duration SLA", "sla"}
	aliasOverdue         = []string{"Overdue?"}
	aliasSiteVisit       = []string{"Tanggal Site Visit", "visit_date", "Tanggal Visit Aja"}
	aliasStatusSiteVisit = []string{"Status Site Visit", "visit_status"}
	aliasBookingDate     = []string{"Booking Date", "booking_at"}
	aliasID              = []string{"ID", "lead_id"}
	aliasLinkIklan       = []string{"LINK IKLAN", "ad_link"}
	aliasUniqueStatus    = []string{"Unique Status", "Unique?", "is_unique"}
	aliasSourceTracker   = []string{"Source Tracker"}
	aliasDaysToVisit     = []string{"Assigned to Visit (Days)"}
	aliasDaysToBooking   = []string{"Assign to Booking (Days)"}
	aliasTower           = []string{"Tower"}
	aliasLantai          = []string{"Lantai"}
	aliasNomor           = []string{"Nomor"}
	aliasType            = []string{"Type (Auto)"}
	aliasRevenue         = []string{"Revenue (auto)", "revenue"}
	aliasRevenueExclPpn  = []string{"Revenue exclude ppn (auto)"}
	aliasTanggalVisitAja = []string{"Tanggal Visit Aja"}
	aliasTerhitungVisit  = []string{"Terhitung Visit"}
	aliasReceivedAtHour  = []string{"Received At (hour)"}
)

// isUniqueValue reports whether a unique-status cell marks the lead as
// deduplicated. Current exports write "Unique" into "Unique Status"; the
// legacy "Unique?" and "is_unique" columns carried yes/1 instead. Matching is
// case-insensitive and ignores surrounding whitespace.
func isUniqueValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unique", "yes", "1":
		return true
	}
	return false
}

// Normalize converts one raw row into one canonical Lead. Every field has a
// deterministic default (empty string, 0, false, or nil) when its alias chain
// resolves nothing or the value is malformed; Normalize never fails.
func Normalize(row Row) domain.Lead {
	// The raw status is kept verbatim, whitespace included, so exports can
	// reproduce the upstream cell exactly.
	uniqueRaw := resolveRawString(row, aliasUniqueStatus...)

	lead := domain.Lead{
		ID:     resolveString(row, aliasID...),
		CustID: resolveString(row, aliasCustID...),

		Agent:      resolveString(row, aliasAgent...),
		AssignedAt: ParseDate(Resolve(row, aliasAssignedAt...)),

		Source:        resolveStringDefault(row, "Unknown", aliasSource...),
		SourceTracker: resolveString(row, aliasSourceTracker...),

		StatusLeads:     resolveString(row, aliasStatusLeads...),
		UniqueRawStatus: uniqueRaw,
		Unique:          isUniqueValue(uniqueRaw),

		TanggalSiteVisit: ParseDate(Resolve(row, aliasSiteVisit...)),
		StatusSiteVisit:  resolveString(row, aliasStatusSiteVisit...),

		BookingDate:    ParseDate(Resolve(row, aliasBookingDate...)),
		Revenue:        ParseNumber(Resolve(row, aliasRevenue...)),
		RevenueExclPpn: ParseNumber(Resolve(row, aliasRevenueExclPpn...)),

		NamaLeads:       resolveString(row, aliasNamaLeads...),
		Remarks:         resolveString(row, aliasRemarks...),
		Domisili:        resolveString(row, aliasDomisili...),
		Pekerjaan:       resolveString(row, aliasPekerjaan...),
		SLADuration:     resolveString(row, aliasSLADuration...),
		Overdue:         ParseBool(Resolve(row, aliasOverdue...)),
		LinkIklan:       resolveString(row, aliasLinkIklan...),
		NoAttempt:       ParseNumber(Resolve(row, aliasNoAttempt...)),
		DaysToVisit:     ParseNumber(Resolve(row, aliasDaysToVisit...)),
		DaysToBooking:   ParseNumber(Resolve(row, aliasDaysToBooking...)),
		Tower:           resolveString(row, aliasTower...),
		Lantai:          resolveString(row, aliasLantai...),
		Nomor:           resolveString(row, aliasNomor...),
		Type:            resolveString(row, aliasType...),
		TanggalVisitAja: ParseDate(Resolve(row, aliasTanggalVisitAja...)),
		TerhitungVisit:  ParseBool(Resolve(row, aliasTerhitungVisit...)),
		ReceivedAtHour:  ParseNumber(Resolve(row, aliasReceivedAtHour...)),
	}

	return lead
}

// NormalizeRows converts table-shaped input (the {headers, rows} contract the
// Sheets proxy and file importers produce) into canonical leads.
func NormalizeRows(headers []string, rows [][]any) []domain.Lead {
	leads := make([]domain.Lead, 0, len(rows))
	for _, cells := range rows {
		leads = append(leads, Normalize(ZipRow(headers, cells)))
	}
	return leads
}

func resolveString(row Row, candidates ...string) string {
	return strings.TrimSpace(resolveRawString(row, candidates...))
}

// resolveRawString is resolveString without the trim, for fields that must
// carry the source cell verbatim.
func resolveRawString(row Row, candidates ...string) string {
	v := Resolve(row, candidates...)
	if v == nil {
		return ""
	}
	return toString(v)
}

func resolveStringDefault(row Row, fallback string, candidates ...string) string {
	if s := resolveString(row, candidates...); s != "" {
		return s
	}
	return fallback
}
