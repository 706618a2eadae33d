package insights

import (
	"fmt"
	"strings"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

// BuildPrompt renders the analyst prompt for a dashboard snapshot. The
// narrative is requested in Indonesian because the sales team reads the
// dashboard in Bahasa.
func BuildPrompt(stats *domain.DashboardStats, from, to string) string {
	var b strings.Builder

	b.WriteString("Anda adalah seorang analis pemasaran properti senior. ")
	b.WriteString("Analisis data performa leads berikut dan berikan ringkasan eksekutif ")
	b.WriteString("dalam Bahasa Indonesia (maksimal 4 paragraf singkat).\n\n")

	if from != "" || to != "" {
		fmt.Fprintf(&b, "Periode analisis: %s sampai %s\n\n", orDash(from), orDash(to))
	}

	if stats.Status == domain.StatsNoData {
		b.WriteString("Tidak ada data pada periode ini. Jelaskan bahwa data belum tersedia ")
		b.WriteString("dan sarankan langkah pengumpulan data berikutnya.\n")
		return b.String()
	}

	b.WriteString("FUNNEL:\n")
	fmt.Fprintf(&b, "- Total leads masuk: %d\n", stats.Funnel.Raw)
	fmt.Fprintf(&b, "- Leads unik: %d\n", stats.Funnel.Unique)
	fmt.Fprintf(&b, "- Leads berkualitas: %d\n", stats.Funnel.Qualified)
	fmt.Fprintf(&b, "- Prospek: %d\n", stats.Funnel.Prospect)
	fmt.Fprintf(&b, "- Site visit selesai: %d\n", stats.Funnel.Visited)
	fmt.Fprintf(&b, "- Booking: %d\n", stats.Funnel.Booking)

	b.WriteString("\nPERIODE:\n")
	fmt.Fprintf(&b, "- Kunjungan pada periode: %d\n", stats.PeriodVisits)
	fmt.Fprintf(&b, "- Booking pada periode: %d\n", stats.PeriodBookings)
	fmt.Fprintf(&b, "- Revenue periode: %.0f\n", stats.RevenuePeriod)
	fmt.Fprintf(&b, "- Rasio visit terhadap leads unik: %.1f%%\n", stats.VisitPerformanceRatio)
	fmt.Fprintf(&b, "- Rasio booking terhadap leads unik: %.1f%%\n", stats.BookingPerformanceRatio)

	if len(stats.SourceJourney) > 0 {
		b.WriteString("\nSUMBER LEADS:\n")
		for _, source := range stats.SourceJourney {
			fmt.Fprintf(&b, "- %s: %d leads, %d visit, %d booking, revenue %.0f\n",
				source.Source, source.Leads, source.Visits, source.Bookings, source.Revenue)
		}
	}

	if len(stats.AgentRanking) > 0 {
		b.WriteString("\nPERFORMA AGENT:\n")
		for _, agent := range stats.AgentRanking {
			fmt.Fprintf(&b, "- %s: %d leads unik, %d visit, %d booking, revenue %.0f\n",
				agent.Name, agent.UniqueCount, agent.Visits, agent.Bookings, agent.Revenue)
		}
	}

	b.WriteString("\nSoroti sumber leads dan agent dengan performa terbaik, ")
	b.WriteString("identifikasi hambatan pada funnel, dan berikan rekomendasi konkret.\n")

	return b.String()
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
