package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrolly/internal/director"
	"github.com/ivlev/scrolly/internal/effects"
	"github.com/ivlev/scrolly/internal/engine"
	"github.com/ivlev/scrolly/internal/feed"
	"github.com/ivlev/scrolly/internal/geometry"
	"github.com/ivlev/scrolly/internal/playback"
	"github.com/ivlev/scrolly/internal/scope"
	"github.com/ivlev/scrolly/internal/scrolly"
	"github.com/ivlev/scrolly/internal/source"
	"github.com/ivlev/scrolly/internal/ticker"
	"github.com/ivlev/scrolly/internal/timeline"
	"github.com/ivlev/scrolly/internal/watch"
)

var buildVersion = "dev"

func main() {
	os.MkdirAll("scenarios", 0755)

	scenarioPtr := flag.String("scenario", "", "Scenario YAML (default: latest file in scenarios/)")
	scrollPtr := flag.Float64("scroll", 0, "Print the scope at this scroll position and exit")
	simulatePtr := flag.Bool("simulate", false, "Replay the scenario's scroll script against simulated videos (default mode)")
	watchPtr := flag.Bool("watch", false, "Reload the scenario on change and print the scope at -scroll")
	servePtr := flag.String("serve", "", "Serve the live feed on this address, e.g. :8080")
	windowHeightPtr := flag.Float64("window-height", 0, "Window height (0 = scenario value or viewport)")
	triggerOffsetPtr := flag.Float64("trigger-offset", 0, "Trigger offset (overrides the scenario when set)")
	frameratePtr := flag.Float64("framerate", 0, "Video framerate (0 = scenario value)")
	maxspeedPtr := flag.Float64("maxspeed", 0, "Maximum playback speed (0 = scenario value)")
	generatePtr := flag.Bool("generate", false, "Write a copy of the scenario with a scroll script touring every block")
	durationPtr := flag.Float64("duration", 0, "Script length for -generate in seconds (0 = longest dwell per block)")
	statsPtr := flag.Bool("stats", false, "Print the performance report and append to benchmark.log")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	level := slog.LevelInfo
	if *verbosePtr {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	scenarioPath := *scenarioPtr
	if scenarioPath == "" {
		latest, err := timeline.FindLatestScenario("scenarios")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a scenario into scenarios/", err)
		}
		scenarioPath = latest
		fmt.Printf("[*] Selected scenario: %s\n", scenarioPath)
	}

	sc, err := timeline.ReadScenario(scenarioPath)
	if err != nil {
		log.Fatalf("[-] Failed to read scenario: %v", err)
	}

	cfg := &sc.Config
	if *windowHeightPtr > 0 {
		cfg.WindowHeight = *windowHeightPtr
	}
	if set["trigger-offset"] {
		cfg.TriggerOffset = *triggerOffsetPtr
	}
	if *frameratePtr > 0 {
		cfg.Framerate = *frameratePtr
	}
	if *maxspeedPtr > 0 {
		cfg.MaxSpeed = *maxspeedPtr
	}
	if *statsPtr {
		cfg.ShowStats = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Invalid configuration: %v", err)
	}

	heights, err := sc.Layout.Measure()
	if err != nil {
		log.Fatalf("[-] Failed to measure layout: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *generatePtr:
		err = generate(sc, heights, *durationPtr)
	case *servePtr != "":
		err = serve(ctx, sc, heights, *servePtr, logger)
	case *watchPtr:
		err = watchScenario(ctx, scenarioPath, sc, heights, *scrollPtr, logger)
	case set["scroll"] && !*simulatePtr:
		printScope(sc, heights, *scrollPtr)
	default:
		err = simulate(ctx, sc, heights, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[-] %v", err)
	}
}

func simulate(ctx context.Context, sc *timeline.Scenario, heights []float64, logger *slog.Logger) error {
	project := engine.NewVideoProject(sc, source.Static(heights), logger)
	project.BuildVersion = buildVersion

	reports, err := project.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	for _, r := range reports {
		fmt.Printf("[+] %s: final time %.3fs, lag %.0f frames, %d rewinds\n", r.Video, r.FinalTime, r.FinalLag, r.Rewinds)
	}
	fmt.Println("[+++] Simulation finished")
	return nil
}

func generate(sc *timeline.Scenario, heights []float64, duration float64) error {
	fmt.Println("[*] Generating scroll script...")

	dir := director.NewDirector()
	keyframes, err := dir.GenerateScroll(heights, duration, sc.Config.TriggerOffset)
	if err != nil {
		return err
	}

	out := *sc
	out.Scroll = keyframes
	outputPath := timeline.GenerateScenarioPath("scenarios")
	if err := timeline.WriteScenario(&out, outputPath); err != nil {
		return err
	}

	fmt.Printf("[+++] Success! Scenario saved: %s (%.2fs)\n", outputPath, out.Duration())
	return nil
}

func printScope(sc *timeline.Scenario, heights []float64, position float64) {
	cfg := sc.Config
	s := scope.Compute(geometry.Build(heights), scope.Sample{
		ScrollPosition: position,
		TriggerOffset:  cfg.TriggerOffset,
		WindowHeight:   cfg.EffectiveWindowHeight(),
	})

	fmt.Printf("[*] Position %.1f / %.1f | Slide %d of %d | Active: %v\n", s.ScrollPosition, s.ScrollLength, s.SlideIndex, s.SlideCount, s.Active)
	fmt.Printf("[*] From previous: %s | To next: %s | Progress: %s\n", num(s.FromPrevSlide), num(s.ToNextSlide), num(s.Progress().Value()))
	// enter and exit ramps over one window height
	d := cfg.EffectiveWindowHeight()
	for i := 0; i < s.SlideCount; i++ {
		fmt.Printf("    block %d: at %s | enter %s | exit %s\n", i, num(s.Progress().At(i).Value()), num(s.Enter(i, d)), num(s.Exit(i, d)))
	}

	for _, v := range sc.Videos {
		eff, err := effects.NewEffect(v.Effect)
		if err != nil {
			log.Printf("[!] %s: %v", v.Name, err)
			continue
		}
		p := eff.Progress(s)
		fr := v.Framerate
		if fr <= 0 {
			fr = cfg.Framerate
		}
		fmt.Printf("[>] %s [%s]: progress %s | target frame %s\n", v.Name, eff.Name(), num(p), num(playback.TargetFrame(p, v.Duration, fr)))
	}
}

func watchScenario(ctx context.Context, path string, sc *timeline.Scenario, heights []float64, position float64, logger *slog.Logger) error {
	sched := ticker.NewTicker(sc.Config.TickRate)
	scroller := scrolly.New(sc.Config, sched, source.Static(heights), logger)
	defer scroller.Stop()

	scroller.OnRender(func(s scope.Scope) {
		fmt.Printf("[>] Blocks %d | Length %.1f | Slide %d | Progress %s\n", s.SlideCount, s.ScrollLength, s.SlideIndex, num(s.Progress().Value()))
	})

	fmt.Printf("[*] Watching %s (Ctrl+C to stop)\n", path)
	w := watch.New(path, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Start(ctx) })
	g.Go(func() error {
		return w.Run(ctx, func(next *timeline.Scenario, heights []float64) {
			if err := next.Config.Validate(); err != nil {
				log.Printf("[!] Ignoring config changes: %v", err)
			} else {
				scroller.Reconfigure(next.Config)
			}
			scroller.Refresh(source.Static(heights))
			scroller.Scroll(position)
		})
	})
	return g.Wait()
}

func serve(ctx context.Context, sc *timeline.Scenario, heights []float64, addr string, logger *slog.Logger) error {
	var eff effects.Effect
	videoFile := ""
	if len(sc.Videos) > 0 {
		v := sc.Videos[0]
		e, err := effects.NewEffect(v.Effect)
		if err != nil {
			return err
		}
		eff = e
		videoFile = v.File
	}
	server := feed.NewServer(sc.Config, heights, eff, logger)
	server.VideoFile = videoFile

	url := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		url = "http://localhost" + addr
	}
	fmt.Printf("[*] Feed: %s\n", url)
	if qr, err := feed.QRCode(url); err == nil {
		fmt.Print(qr)
	} else {
		log.Printf("[!] %v", err)
	}

	return server.ListenAndServe(ctx, addr)
}

func num(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return fmt.Sprintf("%.3f", v)
}
