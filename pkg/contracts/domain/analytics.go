package domain

import "time"

// StatsStatus signals whether an aggregation produced usable numbers.
type StatsStatus string

const (
	// StatsOK means the aggregate fields are populated.
	StatsOK StatsStatus = "OK"
	// StatsNoData means the period filter matched neither assigned leads nor
	// any visit/booking activity. Distinguished from "legitimately zero".
	StatsNoData StatsStatus = "NO_DATA"
)

// DateRange is an inclusive calendar-day filter. Comparison happens on local
// calendar fields (YYYY-MM-DD), never on UTC instants, so a visit logged at
// 23:30 local time stays inside its calendar day.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayKey renders a time as its local YYYY-MM-DD form.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Contains reports whether the given date falls inside the range. A nil date
// is never inside any range.
func (r *DateRange) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	if r == nil {
		return true
	}
	key := DayKey(*t)
	return key >= DayKey(r.Start) && key <= DayKey(r.End)
}

// FunnelStats is the staged lead count raw -> unique -> visited -> booking,
// plus the classification-derived qualified/prospect stages.
type FunnelStats struct {
	Raw       int `json:"raw"`
	Unique    int `json:"unique"`
	Qualified int `json:"qualified"`
	Prospect  int `json:"prospect"`
	Visited   int `json:"visited"`
	Booking   int `json:"booking"`
}

// LeadClassification holds mutually exclusive bucket counts keyed off the
// free-text lead status. Buckets always partition the leads-in-period set.
type LeadClassification struct {
	Cold         int `json:"cold"`
	ProspectWarm int `json:"prospect_warm"`
	Booking      int `json:"booking"`
	Junk         int `json:"junk"`
	Drop         int `json:"drop"`
	Unclassified int `json:"unclassified"`
}

// Total returns the sum over all buckets.
func (c LeadClassification) Total() int {
	return c.Cold + c.ProspectWarm + c.Booking + c.Junk + c.Drop + c.Unclassified
}

// SourceJourney aggregates funnel activity for one acquisition source.
// Leads and visits come from the assigned-in-period set; bookings and revenue
// come from the independent booking-date filter.
type SourceJourney struct {
	Source    string  `json:"source"`
	Leads     int     `json:"leads"`
	Visits    int     `json:"visits"`
	Bookings  int     `json:"bookings"`
	VisitRate float64 `json:"visit_rate"`
	Share     float64 `json:"share"`
	Revenue   float64 `json:"revenue"`
}

// AgentPerformance aggregates activity for one sales agent. UniqueCount and
// Visits only accumulate over unique leads; Bookings and Revenue use the
// independent booking-date filter.
type AgentPerformance struct {
	Name                 string  `json:"name"`
	UniqueCount          int     `json:"unique_count"`
	Visits               int     `json:"visits"`
	Bookings             int     `json:"bookings"`
	Revenue              float64 `json:"revenue"`
	VisitRate            float64 `json:"visit_rate"`
	BookingFromVisitRate float64 `json:"booking_from_visit_rate"`
	Score                float64 `json:"score"`
}

// TopPerformance names the best agent per performance ratio.
type TopPerformance struct {
	BestVisitRate        *AgentPerformance `json:"best_visit_rate,omitempty"`
	BestBookingFromVisit *AgentPerformance `json:"best_booking_from_visit,omitempty"`
}

// DashboardStats is the full aggregate result recomputed from scratch whenever
// the lead set or date filter changes. It is a pure function of its inputs;
// consumers must treat every field as possibly zero or empty.
type DashboardStats struct {
	Status StatsStatus `json:"status"`

	Funnel         FunnelStats        `json:"funnel"`
	Classification LeadClassification `json:"classification"`

	SourceJourney       []SourceJourney `json:"source_journey_data"`
	SourceEffectiveness []SourceJourney `json:"source_effectiveness"`

	AgentRanking []AgentPerformance `json:"agent_ranking"`

	PeriodVisits            int     `json:"period_visits"`
	PeriodBookings          int     `json:"period_bookings"`
	RevenuePeriod           float64 `json:"revenue_period"`
	VisitPerformanceRatio   float64 `json:"visit_performance_ratio"`
	BookingPerformanceRatio float64 `json:"booking_performance_ratio"`

	TopSource      *SourceJourney    `json:"top_source,omitempty"`
	TopAgent       *AgentPerformance `json:"top_agent,omitempty"`
	TopPerformance *TopPerformance   `json:"top_performance,omitempty"`
}
