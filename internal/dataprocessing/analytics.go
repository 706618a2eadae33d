package dataprocessing

import (
	"sort"
	"strings"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

// RankingStrategy selects how the agent table is ordered.
type RankingStrategy string

const (
	// RankByBookings orders agents by bookings desc, ties broken by visits
	// desc then name. This is the default.
	RankByBookings RankingStrategy = "bookings"
	// RankByWeightedScore orders agents by a blended score of visit rate,
	// booking-from-visit rate and revenue.
	RankByWeightedScore RankingStrategy = "weighted"
)

// Weighted-score coefficients. Revenue is scaled to billions so a single
// large booking does not drown the two rate terms.
const (
	weightVisitRate        = 0.4
	weightBookingFromVisit = 0.4
	weightRevenue          = 0.2
	revenueScoreScale      = 1e9
)

// Status-to-bucket classification table. Statuses are matched on their
// trimmed form, case-insensitively; anything not listed lands in
// unclassified. Business-rule constants from the CRM team, not inferred.
var (
	coldStatuses = statusSet(
		"Cold", "New", "New Leads", "Contacted", "Follow Up", "No Respond",
	)
	prospectWarmStatuses = statusSet(
		"Warm", "Prospect", "Hot", "Qualified", "Interested",
	)
	bookingStatuses = statusSet(
		"Booking",
	)
	junkStatuses = statusSet(
		"Junk", "Spam", "Invalid Number", "Wrong Number", "Double Input",
	)
	dropStatuses = statusSet(
		"Drop", "Lost", "Cancel", "Not Interested",
	)
)

// Funnel qualified/prospect stage matchers, distinct from the classification
// buckets: qualified is an exact status match, prospect a substring match.
var qualifiedStatuses = statusSet("Qualified", "Hot", "Interested")

func statusSet(statuses ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		set[strings.ToLower(s)] = struct{}{}
	}
	return set
}

func inStatusSet(set map[string]struct{}, status string) bool {
	_, ok := set[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// AggregateOptions tunes non-correctness aspects of the aggregation.
type AggregateOptions struct {
	Ranking RankingStrategy
}

// Aggregate computes the full dashboard aggregate over the lead set with an
// optional inclusive date-range filter. It is deterministic, side-effect
// free, and never fails: malformed inputs were already defaulted by the
// normalizer, every ratio guards its denominator, and an empty result is the
// explicit NO_DATA status rather than an error.
//
// Filtering semantics: "leads in period" means assignedAt in range and drives
// raw/unique/source-volume/agent-unique metrics. Visit and booking activity
// are filtered independently on their own date fields against the same
// range, so activity in the window counts even when the originating lead was
// assigned outside it. The business question is "how much sales activity
// happened in this window", not "how did assigned-in-window leads perform".
func Aggregate(leads []domain.Lead, rng *domain.DateRange, opts AggregateOptions) *domain.DashboardStats {
	if opts.Ranking == "" {
		opts.Ranking = RankByBookings
	}

	var inPeriod []*domain.Lead
	var periodVisits []*domain.Lead
	var periodBookings []*domain.Lead

	for i := range leads {
		l := &leads[i]
		// With no filter every lead is in period, including ones that were
		// never assigned; a real range only admits assigned leads.
		if rng == nil || rng.Contains(l.AssignedAt) {
			inPeriod = append(inPeriod, l)
		}
		if l.VisitDone() && rng.Contains(l.TanggalSiteVisit) {
			periodVisits = append(periodVisits, l)
		}
		if l.HasBooking() && rng.Contains(l.BookingDate) {
			periodBookings = append(periodBookings, l)
		}
	}

	if len(inPeriod) == 0 && len(periodVisits) == 0 && len(periodBookings) == 0 {
		return &domain.DashboardStats{
			Status:              domain.StatsNoData,
			SourceJourney:       []domain.SourceJourney{},
			SourceEffectiveness: []domain.SourceJourney{},
			AgentRanking:        []domain.AgentPerformance{},
		}
	}

	stats := &domain.DashboardStats{Status: domain.StatsOK}

	// Pass 1: funnel base over the assigned-in-period set.
	for _, l := range inPeriod {
		stats.Funnel.Raw++
		if l.Unique {
			stats.Funnel.Unique++
		}
		if l.VisitDone() {
			stats.Funnel.Visited++
		}
		if l.HasBooking() {
			stats.Funnel.Booking++
		}
		if inStatusSet(qualifiedStatuses, l.StatusLeads) {
			stats.Funnel.Qualified++
		}
		status := l.StatusLeads
		if strings.Contains(status, "Prospect") || strings.Contains(status, "Warm") {
			stats.Funnel.Prospect++
		}
		classify(&stats.Classification, status)
	}

	// Pass 2: period activity and performance ratios against the unique-lead
	// denominator.
	stats.PeriodVisits = len(periodVisits)
	stats.PeriodBookings = len(periodBookings)
	for _, l := range periodBookings {
		stats.RevenuePeriod += l.RevenueExclPpn
	}
	stats.VisitPerformanceRatio = ratio(stats.PeriodVisits, stats.Funnel.Unique)
	stats.BookingPerformanceRatio = ratio(stats.PeriodBookings, stats.Funnel.Unique)

	// Pass 3: per-source table.
	stats.SourceJourney = buildSourceTable(inPeriod, periodBookings)
	stats.SourceEffectiveness = sortedByVisitRate(stats.SourceJourney)
	if len(stats.SourceJourney) > 0 {
		top := stats.SourceJourney[0]
		stats.TopSource = &top
	}

	// Pass 4: per-agent table and ranking.
	stats.AgentRanking = buildAgentTable(inPeriod, periodBookings, opts.Ranking)
	if len(stats.AgentRanking) > 0 {
		top := stats.AgentRanking[0]
		stats.TopAgent = &top
		stats.TopPerformance = topPerformance(stats.AgentRanking)
	}

	return stats
}

// classify puts one status into exactly one bucket.
func classify(c *domain.LeadClassification, status string) {
	switch {
	case inStatusSet(coldStatuses, status):
		c.Cold++
	case inStatusSet(prospectWarmStatuses, status):
		c.ProspectWarm++
	case inStatusSet(bookingStatuses, status):
		c.Booking++
	case inStatusSet(junkStatuses, status):
		c.Junk++
	case inStatusSet(dropStatuses, status):
		c.Drop++
	default:
		c.Unclassified++
	}
}

// ratio returns part/whole as a percentage, 0 when the denominator is 0.
func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func buildSourceTable(inPeriod, periodBookings []*domain.Lead) []domain.SourceJourney {
	table := make(map[string]*domain.SourceJourney)
	get := func(name string) *domain.SourceJourney {
		entry, ok := table[name]
		if !ok {
			entry = &domain.SourceJourney{Source: name}
			table[name] = entry
		}
		return entry
	}

	for _, l := range inPeriod {
		entry := get(l.SourceName())
		entry.Leads++
		if l.VisitDone() {
			entry.Visits++
		}
	}
	// Bookings and revenue join on the source key from the independently
	// filtered booking set.
	for _, l := range periodBookings {
		entry := get(l.SourceName())
		entry.Bookings++
		entry.Revenue += l.RevenueExclPpn
	}

	out := make([]domain.SourceJourney, 0, len(table))
	for _, entry := range table {
		entry.VisitRate = ratio(entry.Visits, entry.Leads)
		entry.Share = ratio(entry.Leads, len(inPeriod))
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Leads != out[j].Leads {
			return out[i].Leads > out[j].Leads
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// sortedByVisitRate is the secondary "effectiveness" view of the source table.
func sortedByVisitRate(sources []domain.SourceJourney) []domain.SourceJourney {
	out := make([]domain.SourceJourney, len(sources))
	copy(out, sources)
	sort.Slice(out, func(i, j int) bool {
		if out[i].VisitRate != out[j].VisitRate {
			return out[i].VisitRate > out[j].VisitRate
		}
		return out[i].Source < out[j].Source
	})
	return out
}

func buildAgentTable(inPeriod, periodBookings []*domain.Lead, ranking RankingStrategy) []domain.AgentPerformance {
	table := make(map[string]*domain.AgentPerformance)
	get := func(name string) *domain.AgentPerformance {
		entry, ok := table[name]
		if !ok {
			entry = &domain.AgentPerformance{Name: name}
			table[name] = entry
		}
		return entry
	}

	// Unique-lead and visit accumulation are both gated on the dedup flag:
	// the agent denominator is a strict subset of the lead set.
	for _, l := range inPeriod {
		if !l.Unique {
			continue
		}
		entry := get(l.AgentName())
		entry.UniqueCount++
		if l.VisitDone() {
			entry.Visits++
		}
	}
	for _, l := range periodBookings {
		entry := get(l.AgentName())
		entry.Bookings++
		entry.Revenue += l.RevenueExclPpn
	}

	out := make([]domain.AgentPerformance, 0, len(table))
	for _, entry := range table {
		entry.VisitRate = ratio(entry.Visits, entry.UniqueCount)
		entry.BookingFromVisitRate = ratio(entry.Bookings, entry.Visits)
		entry.Score = weightVisitRate*entry.VisitRate +
			weightBookingFromVisit*entry.BookingFromVisitRate +
			weightRevenue*(entry.Revenue/revenueScoreScale)
		out = append(out, *entry)
	}

	switch ranking {
	case RankByWeightedScore:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Score != out[j].Score {
				return out[i].Score > out[j].Score
			}
			return out[i].Name < out[j].Name
		})
	default:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Bookings != out[j].Bookings {
				return out[i].Bookings > out[j].Bookings
			}
			if out[i].Visits != out[j].Visits {
				return out[i].Visits > out[j].Visits
			}
			return out[i].Name < out[j].Name
		})
	}
	return out
}

func topPerformance(agents []domain.AgentPerformance) *domain.TopPerformance {
	top := &domain.TopPerformance{}
	for i := range agents {
		a := agents[i]
		if top.BestVisitRate == nil || a.VisitRate > top.BestVisitRate.VisitRate {
			best := a
			top.BestVisitRate = &best
		}
		if top.BestBookingFromVisit == nil || a.BookingFromVisitRate > top.BestBookingFromVisit.BookingFromVisitRate {
			best := a
			top.BestBookingFromVisit = &best
		}
	}
	return top
}
