// Package engine replays a scenario's scroll script against simulated videos.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrolly/internal/effects"
	"github.com/ivlev/scrolly/internal/media"
	"github.com/ivlev/scrolly/internal/playback"
	"github.com/ivlev/scrolly/internal/scope"
	"github.com/ivlev/scrolly/internal/scrolly"
	"github.com/ivlev/scrolly/internal/source"
	"github.com/ivlev/scrolly/internal/syncer"
	"github.com/ivlev/scrolly/internal/system"
	"github.com/ivlev/scrolly/internal/ticker"
	"github.com/ivlev/scrolly/internal/timeline"
)

// SettleTime is how long the simulation keeps ticking after the last keyframe.
const SettleTime = 2 * time.Second

// Report summarizes one video's simulation.
type Report struct {
	Video       string
	Effect      string
	Duration    float64 // Media seconds
	Ticks       int
	Seeks       int
	Plays       int
	Rewinds     int
	MeanLag     float64 // Frames between target and shown frame, while loaded
	MaxLag      float64
	FinalLag    float64
	FinalTime   float64
	FinalTarget float64
}

type VideoProject struct {
	Scenario     *timeline.Scenario
	Source       source.Source
	Logger       *slog.Logger
	BenchmarkLog string // Appended to when ShowStats is set; empty disables
	BuildVersion string

	probe func(path string) (float64, error)
}

func NewVideoProject(sc *timeline.Scenario, src source.Source, logger *slog.Logger) *VideoProject {
	if logger == nil {
		logger = slog.Default()
	}
	return &VideoProject{
		Scenario:     sc,
		Source:       src,
		Logger:       logger,
		BenchmarkLog: "benchmark.log",
		probe:        system.ProbeDuration,
	}
}

// Run simulates every video of the scenario concurrently. The block heights are
// measured once and shared by all simulations.
func (p *VideoProject) Run(ctx context.Context) ([]Report, error) {
	startTime := time.Now()
	cfg := p.Scenario.Config

	if len(p.Scenario.Videos) == 0 {
		return nil, fmt.Errorf("scenario has no videos")
	}

	heights, err := p.Source.Heights()
	if err != nil {
		return nil, fmt.Errorf("measure layout: %w", err)
	}

	fmt.Println("--- [SCROLLY: SIMULATION] ---")
	fmt.Printf("[*] Blocks: %d | Videos: %d | Script: %.2fs\n", len(heights), len(p.Scenario.Videos), p.Scenario.Duration())
	fmt.Printf("[*] Window: %.0f | Trigger offset: %.0f | Tick rate: %d\n", cfg.EffectiveWindowHeight(), cfg.TriggerOffset, cfg.TickRate)
	fmt.Println("-----------------------------")

	reports := make([]Report, len(p.Scenario.Videos))
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	for i, v := range p.Scenario.Videos {
		g.Go(func() error {
			r, err := p.simulate(ctx, v, source.Static(heights))
			if err != nil {
				return fmt.Errorf("video %s: %w", v.Name, err)
			}
			reports[i] = r

			mu.Lock()
			done++
			fmt.Printf("[>] Ready: %d/%d (%s)\n", done, len(p.Scenario.Videos), v.Name)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.ShowStats {
		p.report(reports, time.Since(startTime))
	}
	return reports, nil
}

func (p *VideoProject) simulate(ctx context.Context, v timeline.Video, src source.Source) (Report, error) {
	cfg := p.Scenario.Config

	duration := v.Duration
	if duration <= 0 && v.File != "" {
		d, err := p.probe(v.File)
		if err != nil {
			return Report{}, err
		}
		duration = d
	}
	if duration <= 0 {
		return Report{}, fmt.Errorf("no duration")
	}

	eff, err := effects.NewEffect(v.Effect)
	if err != nil {
		return Report{}, err
	}

	logger := p.Logger.With("video", v.Name)
	sched := ticker.NewManual(time.Unix(0, 0))
	m := media.NewSimulated(duration, secondsToDuration(v.SeekLatency))

	report := Report{Video: v.Name, Effect: eff.Name(), Duration: duration}
	var lagSum float64
	var lagCount int
	rewinding := false

	syn := syncer.New(m, sched, syncer.Options{
		Framerate: firstPositive(v.Framerate, cfg.Framerate),
		MaxSpeed:  firstPositive(v.MaxSpeed, cfg.MaxSpeed),
		Logger:    logger,
		Observer: func(st syncer.State) {
			if st.Rewinding && !rewinding {
				report.Rewinds++
			}
			rewinding = st.Rewinding
		},
	})
	defer syn.Close()

	scroller := scrolly.New(cfg, sched, src, logger)
	defer scroller.Stop()
	scroller.OnRender(func(s scope.Scope) {
		syn.SetProgress(eff.Progress(s))
	})
	syn.Start()

	dt := time.Second / time.Duration(cfg.TickRate)
	scriptTicks := int(math.Ceil(p.Scenario.Duration() * float64(cfg.TickRate)))
	totalTicks := scriptTicks + int(SettleTime/dt)

	for i := 0; i <= totalTicks; i++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		if i <= scriptTicks {
			t := float64(i) / float64(cfg.TickRate)
			scroller.Scroll(timeline.PositionAt(p.Scenario.Scroll, t))
		}
		sched.Tick(dt)
		m.Advance(dt)
		report.Ticks++

		st := syn.State()
		if !st.Loaded || math.IsNaN(st.TargetFrame) {
			continue
		}
		lag := math.Abs(st.TargetFrame - st.ActualFrame)
		lagSum += lag
		lagCount++
		report.MaxLag = math.Max(report.MaxLag, lag)
	}

	st := syn.State()
	report.Seeks = m.Seeks
	report.Plays = m.Plays
	report.FinalTime = m.CurrentTime()
	report.FinalTarget = st.TargetFrame
	report.FinalLag = math.Abs(st.TargetFrame - playback.ActualFrame(m.CurrentTime(), firstPositive(v.Framerate, cfg.Framerate)))
	if lagCount > 0 {
		report.MeanLag = lagSum / float64(lagCount)
	}

	logger.Info("engine: simulation finished",
		"ticks", report.Ticks,
		"seeks", report.Seeks,
		"rewinds", report.Rewinds,
		"mean_lag", report.MeanLag,
	)
	return report, nil
}

func (p *VideoProject) report(reports []Report, total time.Duration) {
	var b []byte
	b = fmt.Appendf(b, "--- [PERFORMANCE REPORT] ---\n")
	b = fmt.Appendf(b, "Build: %s\n", p.BuildVersion)
	b = fmt.Appendf(b, "Total Time: %.3fs\n", total.Seconds())
	for _, r := range reports {
		b = fmt.Appendf(b, "%s [%s]: ticks %d | seeks %d | plays %d | rewinds %d | lag mean %.2f max %.0f final %.0f\n",
			r.Video, r.Effect, r.Ticks, r.Seeks, r.Plays, r.Rewinds, r.MeanLag, r.MaxLag, r.FinalLag)
	}
	stats, err := system.CurrentProcessStats()
	if err == nil {
		b = fmt.Appendf(b, "Memory (RSS): %s | CPU: %.1f%%\n", system.FormatBytes(stats.RSS), stats.CPUPercent)
	} else {
		p.Logger.Warn("engine: process stats unavailable", "error", err)
	}
	b = fmt.Appendf(b, "----------------------------\n")
	fmt.Print(string(b))

	if p.BenchmarkLog == "" {
		return
	}
	entry := fmt.Sprintf("[%s] Build: %s | Videos: %d | Total: %.3fs",
		time.Now().Format("2006-01-02 15:04:05"), p.BuildVersion, len(reports), total.Seconds())
	for _, r := range reports {
		entry += fmt.Sprintf(" | %s lag %.2f", r.Video, r.MeanLag)
	}
	entry += "\n"

	if err := os.MkdirAll(filepath.Dir(p.BenchmarkLog), 0755); err != nil {
		fmt.Printf("[!] Failed to write %s: %v\n", p.BenchmarkLog, err)
		return
	}
	f, err := os.OpenFile(p.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Failed to write %s: %v\n", p.BenchmarkLog, err)
		return
	}
	_, err = f.WriteString(entry)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Printf("[!] Failed to write %s: %v\n", p.BenchmarkLog, err)
	}
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
