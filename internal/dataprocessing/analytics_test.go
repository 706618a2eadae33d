package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func januaryRange() *domain.DateRange {
	return &domain.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local),
	}
}

func TestAggregateNoFilterRawEqualsInput(t *testing.T) {
	leads := []domain.Lead{
		{Agent: "A", AssignedAt: day(2024, 1, 5)},
		{Agent: "B"}, // never assigned, still counts without a filter
		{Agent: "C", AssignedAt: day(2023, 6, 1)},
	}

	stats := Aggregate(leads, nil, AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)
	assert.Equal(t, len(leads), stats.Funnel.Raw)
	assert.LessOrEqual(t, stats.Funnel.Unique, stats.Funnel.Raw)
}

func TestAggregateEmptyInput(t *testing.T) {
	stats := Aggregate(nil, nil, AggregateOptions{})
	assert.Equal(t, domain.StatsNoData, stats.Status)
	assert.NotNil(t, stats.SourceJourney)
	assert.NotNil(t, stats.AgentRanking)
}

// The three-lead period scenario: lead C has no assignment date but its
// booking still lands in the window through the independent booking filter.
func TestAggregateIndependentPeriodFilters(t *testing.T) {
	leads := []domain.Lead{
		{
			ID:               "A",
			AssignedAt:       day(2024, 1, 5),
			UniqueRawStatus:  "Unique",
			Unique:           true,
			TanggalSiteVisit: day(2024, 1, 10),
			StatusSiteVisit:  "Visit Done",
		},
		{
			ID:              "B",
			AssignedAt:      day(2024, 1, 6),
			UniqueRawStatus: "Not Unique",
		},
		{
			ID:             "C",
			BookingDate:    day(2024, 1, 20),
			RevenueExclPpn: 500000000,
		},
	}

	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)

	assert.Equal(t, 2, stats.Funnel.Raw, "C has no assignedAt, so it is outside leads-in-period")
	assert.Equal(t, 1, stats.Funnel.Unique)
	assert.Equal(t, 1, stats.Funnel.Visited)
	assert.Equal(t, 0, stats.Funnel.Booking, "no assigned-in-period lead has a booking")
	assert.Equal(t, 1, stats.PeriodBookings, "C's booking counts via the independent filter")
	assert.Equal(t, float64(500000000), stats.RevenuePeriod)
	assert.Equal(t, 1, stats.PeriodVisits)
}

func TestAggregateActivityOnlyWindowIsNotNoData(t *testing.T) {
	// No lead assigned in range, but one booking in range: the window has
	// activity, so the result must not collapse to NO_DATA.
	leads := []domain.Lead{
		{ID: "X", AssignedAt: day(2023, 11, 1), BookingDate: day(2024, 1, 15), RevenueExclPpn: 1000},
	}

	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)
	assert.Equal(t, 0, stats.Funnel.Raw)
	assert.Equal(t, 1, stats.PeriodBookings)
	assert.Equal(t, float64(1000), stats.RevenuePeriod)
}

func TestAggregateNoDataRequiresNoActivity(t *testing.T) {
	leads := []domain.Lead{
		{ID: "X", AssignedAt: day(2023, 11, 1), BookingDate: day(2023, 12, 15)},
	}
	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	assert.Equal(t, domain.StatsNoData, stats.Status)
}

func TestAggregateScheduledVisitDoesNotCount(t *testing.T) {
	leads := []domain.Lead{
		{
			ID:               "S",
			AssignedAt:       day(2024, 1, 5),
			TanggalSiteVisit: day(2024, 1, 10),
			StatusSiteVisit:  "Visit Scheduled",
		},
	}
	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)
	assert.Equal(t, 0, stats.Funnel.Visited)
	assert.Equal(t, 0, stats.PeriodVisits)
}

func TestAggregateZeroDenominatorRatios(t *testing.T) {
	// Activity without any unique leads: ratios stay 0, never NaN.
	leads := []domain.Lead{
		{
			ID:               "V",
			AssignedAt:       day(2024, 1, 5),
			TanggalSiteVisit: day(2024, 1, 10),
			StatusSiteVisit:  "visit done",
		},
	}
	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)
	assert.Equal(t, 0, stats.Funnel.Unique)
	assert.Equal(t, float64(0), stats.VisitPerformanceRatio)
	assert.Equal(t, float64(0), stats.BookingPerformanceRatio)
}

func TestAggregateClassificationPartitionsPeriod(t *testing.T) {
	leads := []domain.Lead{
		{AssignedAt: day(2024, 1, 2), StatusLeads: "Cold"},
		{AssignedAt: day(2024, 1, 3), StatusLeads: "Warm"},
		{AssignedAt: day(2024, 1, 4), StatusLeads: "Booking"},
		{AssignedAt: day(2024, 1, 5), StatusLeads: "Junk"},
		{AssignedAt: day(2024, 1, 6), StatusLeads: "Drop"},
		{AssignedAt: day(2024, 1, 7), StatusLeads: "Something Else"},
		{AssignedAt: day(2024, 1, 8), StatusLeads: ""},
	}

	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)
	assert.Equal(t, stats.Funnel.Raw, stats.Classification.Total(),
		"classification buckets must partition leads-in-period exactly")
	assert.Equal(t, 1, stats.Classification.Cold)
	assert.Equal(t, 1, stats.Classification.ProspectWarm)
	assert.Equal(t, 1, stats.Classification.Booking)
	assert.Equal(t, 1, stats.Classification.Junk)
	assert.Equal(t, 1, stats.Classification.Drop)
	assert.Equal(t, 2, stats.Classification.Unclassified)
}

func TestAggregateSourceTable(t *testing.T) {
	leads := []domain.Lead{
		{AssignedAt: day(2024, 1, 2), Source: "Instagram", Unique: true,
			TanggalSiteVisit: day(2024, 1, 9), StatusSiteVisit: "Visit Done"},
		{AssignedAt: day(2024, 1, 3), Source: "Instagram"},
		{AssignedAt: day(2024, 1, 4), Source: "Facebook"},
		// Booking outside the assigned set joins the source table anyway.
		{Source: "Facebook", BookingDate: day(2024, 1, 12), RevenueExclPpn: 750},
	}

	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)
	require.Len(t, stats.SourceJourney, 2)

	top := stats.SourceJourney[0]
	assert.Equal(t, "Instagram", top.Source, "table is sorted by lead volume")
	assert.Equal(t, 2, top.Leads)
	assert.Equal(t, 1, top.Visits)
	assert.InDelta(t, 50.0, top.VisitRate, 1e-9)
	assert.InDelta(t, 100.0*2/3, top.Share, 1e-9)

	fb := stats.SourceJourney[1]
	assert.Equal(t, 1, fb.Leads)
	assert.Equal(t, 1, fb.Bookings)
	assert.Equal(t, float64(750), fb.Revenue)

	require.NotNil(t, stats.TopSource)
	assert.Equal(t, "Instagram", stats.TopSource.Source)

	// Effectiveness view reorders by visit rate.
	assert.Equal(t, "Instagram", stats.SourceEffectiveness[0].Source)
}

func TestAggregateAgentRanking(t *testing.T) {
	leads := []domain.Lead{
		// Rina: 2 unique leads, 1 done visit, 1 booking.
		{AssignedAt: day(2024, 1, 2), Agent: "Rina", Unique: true,
			TanggalSiteVisit: day(2024, 1, 8), StatusSiteVisit: "Visit Done"},
		{AssignedAt: day(2024, 1, 3), Agent: "Rina", Unique: true},
		{Agent: "Rina", BookingDate: day(2024, 1, 20), RevenueExclPpn: 2000},
		// Sari: 1 unique lead with a visit, no bookings.
		{AssignedAt: day(2024, 1, 4), Agent: "Sari", Unique: true,
			TanggalSiteVisit: day(2024, 1, 9), StatusSiteVisit: "Visit Done"},
		// Non-unique lead must not move Sari's denominator.
		{AssignedAt: day(2024, 1, 5), Agent: "Sari"},
	}

	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Equal(t, domain.StatsOK, stats.Status)
	require.Len(t, stats.AgentRanking, 2)

	rina := stats.AgentRanking[0]
	assert.Equal(t, "Rina", rina.Name, "bookings rank first")
	assert.Equal(t, 2, rina.UniqueCount)
	assert.Equal(t, 1, rina.Visits)
	assert.Equal(t, 1, rina.Bookings)
	assert.Equal(t, float64(2000), rina.Revenue)
	assert.InDelta(t, 50.0, rina.VisitRate, 1e-9)
	assert.InDelta(t, 100.0, rina.BookingFromVisitRate, 1e-9)

	sari := stats.AgentRanking[1]
	assert.Equal(t, 1, sari.UniqueCount, "non-unique leads are excluded")
	assert.InDelta(t, 100.0, sari.VisitRate, 1e-9)

	require.NotNil(t, stats.TopAgent)
	assert.Equal(t, "Rina", stats.TopAgent.Name)
	require.NotNil(t, stats.TopPerformance)
	assert.Equal(t, "Sari", stats.TopPerformance.BestVisitRate.Name)
	assert.Equal(t, "Rina", stats.TopPerformance.BestBookingFromVisit.Name)
}

func TestAggregateWeightedRanking(t *testing.T) {
	leads := []domain.Lead{
		// Agentless booking volume vs. high-ratio performer.
		{AssignedAt: day(2024, 1, 2), Agent: "Volume", Unique: true},
		{Agent: "Volume", BookingDate: day(2024, 1, 10)},
		{Agent: "Volume", BookingDate: day(2024, 1, 11)},
		{AssignedAt: day(2024, 1, 3), Agent: "Ratio", Unique: true,
			TanggalSiteVisit: day(2024, 1, 8), StatusSiteVisit: "Visit Done"},
		{Agent: "Ratio", BookingDate: day(2024, 1, 12), RevenueExclPpn: 1e9},
	}

	byBookings := Aggregate(leads, januaryRange(), AggregateOptions{Ranking: RankByBookings})
	assert.Equal(t, "Volume", byBookings.AgentRanking[0].Name)

	weighted := Aggregate(leads, januaryRange(), AggregateOptions{Ranking: RankByWeightedScore})
	assert.Equal(t, "Ratio", weighted.AgentRanking[0].Name,
		"visit and conversion rates dominate the weighted score")
}

func TestAggregateUnassignedAndUnknownDefaults(t *testing.T) {
	leads := []domain.Lead{
		{AssignedAt: day(2024, 1, 2), Unique: true},
		{BookingDate: day(2024, 1, 10), RevenueExclPpn: 10},
	}
	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	require.Len(t, stats.AgentRanking, 1)
	assert.Equal(t, "Unassigned", stats.AgentRanking[0].Name)
	require.Len(t, stats.SourceJourney, 1)
	assert.Equal(t, "Unknown", stats.SourceJourney[0].Source)
}

func TestAggregateIdempotent(t *testing.T) {
	leads := []domain.Lead{
		{AssignedAt: day(2024, 1, 2), Agent: "Rina", Source: "IG", Unique: true,
			TanggalSiteVisit: day(2024, 1, 8), StatusSiteVisit: "Visit Done"},
		{AssignedAt: day(2024, 1, 3), Agent: "Sari", Source: "FB",
			BookingDate: day(2024, 1, 20), RevenueExclPpn: 123},
	}

	first := Aggregate(leads, januaryRange(), AggregateOptions{})
	second := Aggregate(leads, januaryRange(), AggregateOptions{})
	assert.Equal(t, first, second, "identical inputs must yield identical results")
}

func TestAggregateInclusiveBounds(t *testing.T) {
	leads := []domain.Lead{
		{AssignedAt: day(2024, 1, 1)},
		{AssignedAt: day(2024, 1, 31)},
		{AssignedAt: day(2024, 2, 1)},
	}
	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	assert.Equal(t, 2, stats.Funnel.Raw, "range bounds are inclusive")
}

func TestAggregateLateEveningStaysInDay(t *testing.T) {
	// 23:30 local on the last day of the range: local calendar comparison
	// must keep it inside even though the UTC instant may cross midnight.
	late := time.Date(2024, 1, 31, 23, 30, 0, 0, time.Local)
	leads := []domain.Lead{{AssignedAt: &late}}
	stats := Aggregate(leads, januaryRange(), AggregateOptions{})
	assert.Equal(t, 1, stats.Funnel.Raw)
}
