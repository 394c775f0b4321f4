package control

import (
	"sync"
	"time"

	"go.viam.com/pathplanner/utils"
)

// PIDConfig holds the gains of a PID controller. IntegralLimit bounds the absolute value of the
// accumulated integral term; zero means unbounded.
type PIDConfig struct {
	Kp            float64 `json:"kp"`
	Ki            float64 `json:"ki"`
	Kd            float64 `json:"kd"`
	IntegralLimit float64 `json:"integral_limit,omitempty"`
}

// PID is a discrete PID controller.
type PID struct {
	mu         sync.Mutex
	cfg        PIDConfig
	continuous bool
	integral   float64
	error      float64
	hasError   bool
}

// NewPID returns a PID controller with the given gains.
func NewPID(cfg PIDConfig) *PID {
	return &PID{cfg: cfg}
}

// NewAnglePID returns a PID controller whose error is wrapped to (-pi, pi], so it always turns
// the short way round.
func NewAnglePID(cfg PIDConfig) *PID {
	return &PID{cfg: cfg, continuous: true}
}

// Calculate returns the next output given the measured value, the set point and the time since the
// previous call.
func (p *PID) Calculate(measured, setPoint float64, dt time.Duration) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	dtS := dt.Seconds()
	err := setPoint - measured
	if p.continuous {
		err = utils.WrapAngle(err)
	}

	if dtS > 0 {
		p.integral += err * dtS
		if limit := p.cfg.IntegralLimit; limit > 0 {
			p.integral = utils.Clamp(p.integral, -limit, limit)
		}
	}
	var deriv float64
	if p.hasError && dtS > 0 {
		change := err - p.error
		if p.continuous {
			change = utils.WrapAngle(change)
		}
		deriv = change / dtS
	}
	p.error = err
	p.hasError = true
	return p.cfg.Kp*err + p.cfg.Ki*p.integral + p.cfg.Kd*deriv
}

// Error returns the error seen by the most recent call to Calculate.
func (p *PID) Error() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.error
}

// Reset clears the accumulated integral and the error history.
func (p *PID) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.integral = 0
	p.error = 0
	p.hasError = false
}
