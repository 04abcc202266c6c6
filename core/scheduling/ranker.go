package scheduling

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fieldops/core/model"
)

// Ranking is one technician's suitability for new work on a date.
type Ranking struct {
	Technician model.Technician `json:"technician"`
	Score      int              `json:"score"`
	Available  bool             `json:"available"`
	Reason     string           `json:"reason,omitempty"`
	Workload   Workload         `json:"workload"`
}

// FleetSummary describes the workload spread across the ranked technicians,
// used by rank reports to flag outliers.
type FleetSummary struct {
	MeanMinutes   float64 `json:"mean_minutes"`
	StdDevMinutes float64 `json:"stddev_minutes"`
}

// Rank scores every technician for new work on date and returns them in
// descending suitability order. An unavailable technician is floored to
// zero regardless of workload; available ones start from the base score
// and lose a fixed penalty per active job. Ties break on display name so
// the output is deterministic.
func Rank(p Policy, technicians []model.Technician, date model.Date, dispatches []model.Dispatch) ([]Ranking, FleetSummary) {
	out := make([]Ranking, 0, len(technicians))
	minutes := make([]float64, 0, len(technicians))
	for _, t := range technicians {
		r := Ranking{Technician: t}
		avail := ResolveAvailability(p, t, date)
		if !avail.Available {
			r.Available = false
			r.Reason = avail.Reason
			r.Score = 0
		} else {
			r.Available = true
			r.Workload = ComputeWorkload(p, t.ID, date, dispatches)
			r.Score = p.Score(r.Workload)
		}
		minutes = append(minutes, float64(r.Workload.TotalMinutes))
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Technician.Name < out[j].Technician.Name
	})

	var sum FleetSummary
	if len(minutes) > 0 {
		sum.MeanMinutes = stat.Mean(minutes, nil)
		if len(minutes) > 1 {
			sum.StdDevMinutes = stat.StdDev(minutes, nil)
		}
	}
	return out, sum
}
