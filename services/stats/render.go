package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(header)
	return t
}

// SponsorTable renders the per-sponsor stats for terminal display and
// CSV export.
func SponsorTable(sponsors []SponsorStat) table.Writer {
	t := newTable(table.Row{
		"sponsor", "party", "chamber", "district",
		"billsSponsored", "billsPassed", "billsFailed", "passPercentage",
	})
	for _, s := range sponsors {
		t.AppendRow(table.Row{
			s.Sponsor, s.Party, s.Chamber, s.District,
			s.BillsSponsored, s.BillsPassed, s.BillsFailed, s.PassPercentage,
		})
	}
	return t
}

func PartyTable(parties []PartyStat) table.Writer {
	t := newTable(table.Row{
		"category", "billsSponsored", "billsPassed", "billsFailed", "passPercentage",
	})
	for _, p := range parties {
		t.AppendRow(table.Row{
			p.Category, p.BillsSponsored, p.BillsPassed, p.BillsFailed, p.PassPercentage,
		})
	}
	return t
}

func GroupTable(groups []GroupStat) table.Writer {
	t := newTable(table.Row{
		"group", "averagePassPercentage", "memberCount",
		"billsSponsored", "billsPassed", "overallPassRate",
	})
	for _, g := range groups {
		t.AppendRow(table.Row{
			g.Group, g.AveragePassPercentage, g.MemberCount,
			g.BillsSponsored, g.BillsPassed, g.OverallPassRate,
		})
	}
	return t
}

func CommitteeTable(stats []CommitteeStat) table.Writer {
	t := newTable(table.Row{
		"committee", "billTotal", "passedTotal", "failedTotal",
		"passPercentage", "billList", "passedBills", "failedBills",
	})
	for _, s := range stats {
		t.AppendRow(table.Row{
			s.Committee, s.BillTotal, s.PassedTotal, s.FailedTotal,
			s.PassPercentage,
			strings.Join(s.Bills, ", "),
			strings.Join(s.PassedBills, ", "),
			strings.Join(s.FailedBills, ", "),
		})
	}
	return t
}

func writeJson(path string, value any) error {
	contents, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(contents, '\n'), 0666)
}

func writeCsv(path string, t table.Writer) error {
	return os.WriteFile(path, []byte(t.RenderCSV()+"\n"), 0666)
}

// WriteSponsorReport writes the sponsor, party, and group stats as
// paired JSON and CSV files under dir.
func WriteSponsorReport(dir string, report SponsorReport) error {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}

	err = writeJson(filepath.Join(dir, "sponsor_stats.json"), report.Sponsors)
	if err != nil {
		return err
	}
	err = writeCsv(filepath.Join(dir, "sponsor_stats.csv"), SponsorTable(report.Sponsors))
	if err != nil {
		return err
	}

	err = writeJson(filepath.Join(dir, "party_stats.json"), report.Parties)
	if err != nil {
		return err
	}
	err = writeCsv(filepath.Join(dir, "party_stats.csv"), PartyTable(report.Parties))
	if err != nil {
		return err
	}

	err = writeJson(filepath.Join(dir, "average_stats.json"), report.Groups)
	if err != nil {
		return err
	}
	return writeCsv(filepath.Join(dir, "average_stats.csv"), GroupTable(report.Groups))
}

// WriteCommitteeStats writes the committee stats as JSON and CSV under
// dir.
func WriteCommitteeStats(dir string, stats []CommitteeStat) error {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	err = writeJson(filepath.Join(dir, "committee_stats.json"), stats)
	if err != nil {
		return err
	}
	return writeCsv(filepath.Join(dir, "committee_stats.csv"), CommitteeTable(stats))
}
