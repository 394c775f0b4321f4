package sim

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/pathplanner/follow"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/trajectory"
	"go.viam.com/pathplanner/utils"
)

// Summary condenses a Result.
type Summary struct {
	Cycles       int
	Reason       follow.DoneReason
	Elapsed      time.Duration
	Replans      int
	GoalDistance float64
	MeanError    float64
	StdDevError  float64
	P95Error     float64
	MaxError     float64
}

// Summary computes tracking error statistics. All statistics are zero when the episode never
// tracked a path.
func (r *Result) Summary() Summary {
	s := Summary{
		Cycles:       r.Cycles,
		Reason:       r.Reason,
		Elapsed:      r.Elapsed,
		Replans:      r.Replans,
		GoalDistance: spatialmath.Distance(r.FinalPose.Point, r.GoalPose.Point),
	}
	switch len(r.Errors) {
	case 0:
		return s
	case 1:
		s.MeanError = r.Errors[0]
	default:
		s.MeanError, s.StdDevError = stat.MeanStdDev(r.Errors, nil)
	}
	s.MaxError = floats.Max(r.Errors)
	if p95, err := stats.Percentile(r.Errors, 95); err == nil {
		s.P95Error = p95
	}
	return s
}

// String renders the summary as a table.
func (s Summary) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"outcome", s.Reason.String()},
		{"cycles", s.Cycles},
		{"simulated time", s.Elapsed.String()},
		{"replans", s.Replans},
		{"distance to goal", fmt.Sprintf("%.3f", s.GoalDistance)},
		{"mean error", fmt.Sprintf("%.3f", s.MeanError)},
		{"error std dev", fmt.Sprintf("%.3f", s.StdDevError)},
		{"p95 error", fmt.Sprintf("%.3f", s.P95Error)},
		{"max error", fmt.Sprintf("%.3f", s.MaxError)},
	})
	return t.Render()
}

// TrajectoryTable renders every nth state of traj, always including the last.
func TrajectoryTable(traj *trajectory.Trajectory, every int) string {
	if every < 1 {
		every = 1
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Time", "X", "Y", "Velocity", "Heading", "Target heading", "Curvature"})
	for i := 0; i < traj.Len(); i++ {
		if i%every != 0 && i != traj.Len()-1 {
			continue
		}
		s := traj.State(i)
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("%.3f", s.Time),
			fmt.Sprintf("%.3f", s.Position.X),
			fmt.Sprintf("%.3f", s.Position.Y),
			fmt.Sprintf("%.3f", s.Velocity),
			fmt.Sprintf("%.1f", utils.RadToDeg(s.Heading)),
			fmt.Sprintf("%.1f", utils.RadToDeg(s.TargetHeading)),
			fmt.Sprintf("%.3f", s.Curvature),
		})
	}
	return t.Render()
}
