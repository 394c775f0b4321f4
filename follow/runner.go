package follow

import (
	"context"
	"time"

	"go.viam.com/pathplanner/utils"
)

// Run executes f once per period on the follower's clock until it finishes or ctx is done, then
// ends the episode. It is the scheduler for robots that have no control loop of their own.
func Run(ctx context.Context, f *Follower, period time.Duration) {
	ticker := f.deps.Clock.Ticker(period)
	defer ticker.Stop()

	interrupted := true
	defer func() { f.End(interrupted) }()
	for {
		f.Execute()
		if f.IsFinished() {
			interrupted = false
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Start runs f in the background. Stopping the returned workers interrupts the episode if it has
// not finished and waits for it to end.
func Start(f *Follower, period time.Duration) *utils.StoppableWorkers {
	return utils.NewStoppableWorkers(func(ctx context.Context) {
		Run(ctx, f, period)
	})
}
