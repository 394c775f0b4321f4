// Package main runs a path following episode in closed loop against a simulated base and prints
// how well it tracked.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/urfave/cli/v2"

	"go.viam.com/pathplanner/config"
	"go.viam.com/pathplanner/follow"
	"go.viam.com/pathplanner/logging"
	"go.viam.com/pathplanner/path"
	"go.viam.com/pathplanner/pathfinding"
	"go.viam.com/pathplanner/sim"
	"go.viam.com/pathplanner/spatialmath"
	"go.viam.com/pathplanner/telemetry"
	"go.viam.com/pathplanner/trajectory"
	"go.viam.com/pathplanner/utils"
)

const (
	flagConfig          = "config"
	flagPath            = "path"
	flagGoal            = "goal"
	flagStart           = "start"
	flagLatency         = "latency"
	flagMaxCycles       = "max-cycles"
	flagDebug           = "debug"
	flagMetricsAddr     = "metrics-addr"
	flagTrajectoryEvery = "trajectory-every"
)

func main() {
	app := &cli.App{
		Name:  "pathsim",
		Usage: "simulate a path following episode",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  flagPath,
				Usage: "pathfind to the start of the authored path in `FILE`, then follow it",
			},
			&cli.StringFlag{
				Name:  flagGoal,
				Usage: "pathfind to `X,Y,DEGREES`",
			},
			&cli.StringFlag{
				Name:  flagStart,
				Value: "0,0,0",
				Usage: "start the robot at `X,Y,DEGREES`",
			},
			&cli.IntFlag{
				Name:  flagLatency,
				Usage: "control periods the pathfinder takes to answer",
			},
			&cli.IntFlag{
				Name:  flagMaxCycles,
				Value: 3000,
				Usage: "interrupt an episode after this many control periods",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagMetricsAddr,
				Usage: "serve prometheus metrics on `ADDR` until interrupted",
			},
			&cli.IntFlag{
				Name:  flagTrajectoryEvery,
				Usage: "print every Nth state of the first trajectory of each episode",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if file := c.String(flagConfig); file != "" {
		var err error
		if cfg, err = config.Read(file); err != nil {
			return err
		}
	}
	logger := newLogger(cfg.LogLevel, c.Bool(flagDebug))
	defer func() {
		_ = logger.Sync()
	}()
	logging.ReplaceGlobal(logger)
	start, err := parsePose(c.String(flagStart))
	if err != nil {
		return errors.Wrap(err, flagStart)
	}
	episodes, err := plan(c, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewPrometheus(reg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()
	if addr := c.String(flagMetricsAddr); addr != "" {
		srv := serveMetrics(addr, reg, logger)
		defer func() {
			if err := srv.Close(); err != nil {
				logger.Warnw("failed to close metrics server", "error", err)
			}
		}()
	}

	base := sim.NewBase(start, cfg.Controller.Type == config.ControllerHolonomic)
	for _, ep := range episodes {
		ep.Config = cfg.Follow()
		ep.Controller = cfg.NewController()
		ep.Base = base
		ep.Period = cfg.Period()
		ep.MaxCycles = c.Int(flagMaxCycles)
		ep.Telemetry = telemetry.Multi(metrics, telemetry.NewLogger(logger))
		ep.Logger = logger

		logger.Infow("starting episode", "from", base.CurrentPose().String(), "to", ep.Goal.Pose().String())
		result, err := ep.Run(ctx)
		if err != nil {
			return err
		}
		if every := c.Int(flagTrajectoryEvery); every > 0 && len(result.Paths) > 0 {
			traj := trajectory.Generate(result.Paths[0], trajectory.Start{})
			fmt.Println(sim.TrajectoryTable(traj, every))
		}
		fmt.Println(result.Summary())
		if result.Reason != follow.Finished {
			break
		}
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Println(metricsTable(families))

	if c.String(flagMetricsAddr) != "" {
		logger.Infow("serving metrics until interrupted", "addr", c.String(flagMetricsAddr))
		<-ctx.Done()
	}
	return nil
}

// plan returns the episodes to run: either a single one to a goal pose, or one onto the start of
// an authored path followed by one along it.
func plan(c *cli.Context, cfg *config.Config) ([]sim.Episode, error) {
	direct := pathfinding.NewDirect(pathfinding.DirectConfig{Latency: c.Int(flagLatency)})
	if file := c.String(flagPath); file != "" {
		authored, err := path.ReadFile(file)
		if err != nil {
			return nil, err
		}
		end := authored.GoalEndState()
		endPoint := authored.EndPoint()
		return []sim.Episode{
			{Goal: follow.GoalPath(authored), Pathfinder: direct},
			{
				Goal:       follow.GoalPose(spatialmath.NewPose(endPoint.X, endPoint.Y, end.Heading), end.Velocity),
				Pathfinder: pathfinding.NewStatic(authored),
			},
		}, nil
	}

	goal := c.String(flagGoal)
	if goal == "" {
		return nil, errors.Errorf("one of --%s or --%s is required", flagGoal, flagPath)
	}
	pose, err := parsePose(goal)
	if err != nil {
		return nil, errors.Wrap(err, flagGoal)
	}
	return []sim.Episode{{Goal: follow.GoalPose(pose, cfg.GoalEndVelocity), Pathfinder: direct}}, nil
}

// parsePose parses "x,y,degrees".
func parsePose(s string) (spatialmath.Pose, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return spatialmath.Pose{}, errors.Errorf("expected x,y,degrees, got %q", s)
	}
	values := make([]float64, 3)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return spatialmath.Pose{}, errors.Wrapf(err, "invalid pose %q", s)
		}
		values[i] = v
	}
	return spatialmath.NewPose(values[0], values[1], utils.WrapAngle(utils.DegToRad(values[2]))), nil
}

// newLogger returns the pathsim logger at the configured level, or at debug when debug is set.
func newLogger(level logging.Level, debug bool) logging.Logger {
	logger := logging.NewLogger("pathsim")
	if debug {
		level = logging.DEBUG
	}
	logger.SetLevel(level)
	return logger
}

func serveMetrics(addr string, reg *prometheus.Registry, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("metrics server failed", "error", err)
		}
	}()
	return srv
}

// metricsTable renders the final value of every gathered series.
func metricsTable(families []*dto.MetricFamily) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Labels", "Value"})
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, pair := range m.GetLabel() {
				labels = append(labels, pair.GetName()+"="+pair.GetValue())
			}
			sort.Strings(labels)

			var value float64
			switch {
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			}
			t.AppendRow(table.Row{family.GetName(), strings.Join(labels, ","), fmt.Sprintf("%.3f", value)})
		}
	}
	return t.Render()
}
