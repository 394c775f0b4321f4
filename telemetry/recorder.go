package telemetry

import (
	"sync"

	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/spatialmath"
)

// Recorder keeps everything it is sent in memory.
type Recorder struct {
	mu         sync.Mutex
	current    []spatialmath.Pose
	targets    []spatialmath.Pose
	paths      []*path.Path
	actual     []spatialmath.ChassisSpeeds
	commanded  []spatialmath.ChassisSpeeds
	inaccuracy []float64
}

// SetCurrentPose records the pose.
func (r *Recorder) SetCurrentPose(pose spatialmath.Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = append(r.current, pose)
}

// SetTargetPose records the pose.
func (r *Recorder) SetTargetPose(pose spatialmath.Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, pose)
}

// SetActivePath records the path.
func (r *Recorder) SetActivePath(p *path.Path) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, p)
}

// SetVelocities records both speeds.
func (r *Recorder) SetVelocities(actual, commanded spatialmath.ChassisSpeeds) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actual = append(r.actual, actual)
	r.commanded = append(r.commanded, commanded)
}

// SetPathInaccuracy records the distance.
func (r *Recorder) SetPathInaccuracy(distance float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inaccuracy = append(r.inaccuracy, distance)
}

// CurrentPoses returns every recorded current pose.
func (r *Recorder) CurrentPoses() []spatialmath.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]spatialmath.Pose(nil), r.current...)
}

// TargetPoses returns every recorded target pose.
func (r *Recorder) TargetPoses() []spatialmath.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]spatialmath.Pose(nil), r.targets...)
}

// Paths returns every recorded active path.
func (r *Recorder) Paths() []*path.Path {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*path.Path(nil), r.paths...)
}

// CommandedSpeeds returns every recorded commanded speed.
func (r *Recorder) CommandedSpeeds() []spatialmath.ChassisSpeeds {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]spatialmath.ChassisSpeeds(nil), r.commanded...)
}

// ActualSpeeds returns every recorded measured speed.
func (r *Recorder) ActualSpeeds() []spatialmath.ChassisSpeeds {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]spatialmath.ChassisSpeeds(nil), r.actual...)
}

// PathInaccuracy returns every recorded inaccuracy.
func (r *Recorder) PathInaccuracy() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.inaccuracy...)
}
