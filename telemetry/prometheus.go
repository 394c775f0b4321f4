package telemetry

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
)

// Prometheus exposes telemetry as gauges.
type Prometheus struct {
	currentPose *prometheus.GaugeVec
	targetPose  *prometheus.GaugeVec
	velocity    *prometheus.GaugeVec
	inaccuracy  prometheus.Gauge
	pathLength  prometheus.Gauge
	pathChanges prometheus.Counter
}

// NewPrometheus creates the gauges and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		currentPose: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pathplanner_current_pose",
			Help: "Current robot pose by axis.",
		}, []string{"axis"}),
		targetPose: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pathplanner_target_pose",
			Help: "Pose the robot is being driven towards by axis.",
		}, []string{"axis"}),
		velocity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pathplanner_velocity",
			Help: "Robot relative speeds, measured and commanded.",
		}, []string{"source", "axis"}),
		inaccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathplanner_path_inaccuracy",
			Help: "Distance between the robot and its target.",
		}),
		pathLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathplanner_active_path_length",
			Help: "Length of the path being followed.",
		}),
		pathChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathplanner_active_path_changes_total",
			Help: "Number of times the followed path changed.",
		}),
	}
	for _, c := range []prometheus.Collector{
		p.currentPose, p.targetPose, p.velocity, p.inaccuracy, p.pathLength, p.pathChanges,
	} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "cannot register telemetry")
		}
	}
	return p, nil
}

func setPose(g *prometheus.GaugeVec, pose spatialmath.Pose) {
	g.WithLabelValues("x").Set(pose.Point.X)
	g.WithLabelValues("y").Set(pose.Point.Y)
	g.WithLabelValues("theta").Set(pose.Theta)
}

func setSpeeds(g *prometheus.GaugeVec, source string, speeds spatialmath.ChassisSpeeds) {
	g.WithLabelValues(source, "vx").Set(speeds.Vx)
	g.WithLabelValues(source, "vy").Set(speeds.Vy)
	g.WithLabelValues(source, "omega").Set(speeds.Omega)
}

// SetCurrentPose sets the current pose gauges.
func (p *Prometheus) SetCurrentPose(pose spatialmath.Pose) {
	setPose(p.currentPose, pose)
}

// SetTargetPose sets the target pose gauges.
func (p *Prometheus) SetTargetPose(pose spatialmath.Pose) {
	setPose(p.targetPose, pose)
}

// SetActivePath records the new path's length.
func (p *Prometheus) SetActivePath(active *path.Path) {
	p.pathChanges.Inc()
	if active == nil {
		p.pathLength.Set(0)
		return
	}
	p.pathLength.Set(active.Length())
}

// SetVelocities sets the velocity gauges.
func (p *Prometheus) SetVelocities(actual, commanded spatialmath.ChassisSpeeds) {
	setSpeeds(p.velocity, "actual", actual)
	setSpeeds(p.velocity, "commanded", commanded)
}

// SetPathInaccuracy sets the inaccuracy gauge.
func (p *Prometheus) SetPathInaccuracy(distance float64) {
	p.inaccuracy.Set(distance)
}
