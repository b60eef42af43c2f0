package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/rigid2d/physics"
	"github.com/milk9111/rigid2d/scene"
	"github.com/milk9111/rigid2d/stepper"
	"golang.org/x/sync/errgroup"
)

type runConfig struct {
	loader   scene.Loader
	steps    int
	dt       float64
	report   int
	realtime bool
	debug    bool
}

func main() {
	scenes := flag.String("scene", "ball_fall", "comma separated scene names (embedded or under -dir)")
	dir := flag.String("dir", "", "directory with scene overrides and scripts/")
	steps := flag.Int("steps", 0, "steps to run per scene (0 uses the scene's value)")
	dt := flag.Float64("dt", 0, "override the scene timestep in seconds")
	report := flag.Int("report", 1, "log body poses every N steps")
	realtime := flag.Bool("realtime", false, "step against the wall clock instead of as fast as possible")
	watch := flag.Bool("watch", false, "re-run a scene whenever its file under -dir changes")
	debug := flag.Bool("debug", false, "log every body insertion")
	flag.Parse()

	cfg := runConfig{
		loader:   scene.Loader{Dir: *dir},
		steps:    *steps,
		dt:       *dt,
		report:   *report,
		realtime: *realtime,
		debug:    *debug,
	}
	names := splitNames(*scenes)
	if len(names) == 0 {
		log.Fatal("rigidsim: no scenes given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	if *watch {
		err = watchAndRun(ctx, cfg, names)
	} else {
		err = runAll(ctx, cfg, names)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func splitNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// runAll runs every scene in its own goroutine. Each World stays on the
// goroutine that built it.
func runAll(ctx context.Context, cfg runConfig, names []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			return runScene(ctx, cfg, name)
		})
	}
	return g.Wait()
}

func runScene(ctx context.Context, cfg runConfig, name string) error {
	sc, err := cfg.loader.Open(name, physics.Options{Debug: cfg.debug})
	if err != nil {
		return err
	}
	defer sc.Close()

	if cfg.dt > 0 {
		sc.Step.DT = cfg.dt
	}
	total := sc.Step.Steps
	if cfg.steps > 0 {
		total = cfg.steps
	}
	d, err := sc.Driver()
	if err != nil {
		return err
	}

	log.Printf("rigidsim: %s: %d bodies, %s dt=%g, running %d steps", sc.Name, sc.World.Len(), sc.Step.Mode, sc.Step.DT, total)
	done := 0
	tick := func(n int) error {
		for i := 0; i < n; i++ {
			done++
			if cfg.report > 0 && done%cfg.report == 0 {
				logPoses(sc, done)
			}
		}
		for _, c := range sc.World.Contacts() {
			log.Printf("rigidsim: %s: contact %s <-> %s", sc.Name, c.A, c.B)
		}
		if done >= total {
			return errSceneDone
		}
		return nil
	}

	if cfg.realtime {
		interval := time.Duration(sc.Step.DT * float64(time.Second))
		if interval <= 0 {
			interval = time.Millisecond
		}
		err = stepper.Run(ctx, d, interval, tick)
	} else {
		frame := time.Duration(sc.Step.DT * float64(time.Second))
		for err == nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			var n int
			if n, err = d.Advance(frame); err == nil {
				err = tick(n)
			}
		}
	}
	if errors.Is(err, errSceneDone) {
		log.Printf("rigidsim: %s: finished at t=%.3fs", sc.Name, sc.World.Elapsed())
		return nil
	}
	return err
}

var errSceneDone = errors.New("rigidsim: scene done")

func logPoses(sc *scene.Scene, step int) {
	for _, name := range sc.Order {
		h := sc.Bodies[name]
		if h.Status() == physics.Static {
			continue
		}
		p, v := h.Position(), h.Velocity()
		log.Printf("rigidsim: %s: step %d %s p=(%.4f, %.4f) v=(%.4f, %.4f) a=%.3f",
			sc.Name, step, name, p.X, p.Y, v.X, v.Y, h.Angle())
	}
}

// watchAndRun runs each scene once, then again whenever a file under the
// loader directory changes. A script change re-runs every scene.
func watchAndRun(ctx context.Context, cfg runConfig, names []string) error {
	if cfg.loader.Dir == "" {
		return errors.New("rigidsim: -watch needs -dir")
	}
	dirs := []string{cfg.loader.Dir}
	if info, err := os.Stat(filepath.Join(cfg.loader.Dir, "scripts")); err == nil && info.IsDir() {
		dirs = append(dirs, filepath.Join(cfg.loader.Dir, "scripts"))
	}
	w, err := scene.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := runAll(ctx, cfg, names); err != nil {
		log.Printf("rigidsim: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			changed := changedScenes(cfg.loader, names, path)
			log.Printf("rigidsim: %s changed, re-running %v", path, changed)
			if err := runAll(ctx, cfg, changed); err != nil {
				log.Printf("rigidsim: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("rigidsim: watch: %v", err)
		}
	}
}

func changedScenes(l scene.Loader, names []string, path string) []string {
	for _, name := range names {
		if filepath.Clean(l.Path(name)) == filepath.Clean(path) {
			return []string{name}
		}
	}
	return names
}
