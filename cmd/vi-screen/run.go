package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"pkt.systems/pslog"

	"github.com/lixenwraith/vi-screen/audio"
	"github.com/lixenwraith/vi-screen/compositor"
	"github.com/lixenwraith/vi-screen/config"
	"github.com/lixenwraith/vi-screen/redraw"
	"github.com/lixenwraith/vi-screen/status"
	"github.com/lixenwraith/vi-screen/terminal"
)

const (
	frameInterval = 16 * time.Millisecond
	flashDuration = 100 * time.Millisecond
)

// flashDone ends the visual bell
type flashDone struct{}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var debugMode bool
	var logPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive compositor demo",
		Long: `Keys: v/s split, x unsplit, t new tab, w close tab, Tab next tab,
j/k move, m toggle multigrid, g ring bell, Ctrl-L redraw, q quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if debugMode {
				cfg.Log.Level = "debug"
			}
			// The terminal belongs to the screen, logs go to a file
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()

			logger := newFileLogger(f, cfg.Log.Level)
			ctx := pslog.ContextWithLogger(cmd.Context(), logger)
			return runDemo(ctx, cfg, debugMode)
		},
	}
	cmd.Flags().BoolVar(&debugMode, "debug", false, "log at debug level and dump every frame")
	cmd.Flags().StringVar(&logPath, "log-file", filepath.Join(os.TempDir(), "vi-screen.log"), "log destination while the demo owns the terminal")
	return cmd
}

func newFileLogger(w io.Writer, level string) pslog.Logger {
	opts := pslog.Options{Mode: pslog.ModeStructured, NoColor: true}
	switch level {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		opts.MinLevel = pslog.InfoLevel
	}
	return pslog.NewWithOptions(w, opts)
}

func defaultPalette() *terminal.Palette {
	p := terminal.NewPalette()
	p.Set(attrText, tcell.StyleDefault)
	p.Set(attrCursor, tcell.StyleDefault.Reverse(true))
	p.Set(attrTabActive, tcell.StyleDefault.Bold(true))
	p.Set(attrTabInactive, tcell.StyleDefault.Reverse(true))
	p.Set(attrTabFill, tcell.StyleDefault.Reverse(true))
	p.Set(attrTabClose, tcell.StyleDefault.Reverse(true).Foreground(tcell.ColorRed))
	p.Border = tcell.StyleDefault.Foreground(tcell.ColorGray)
	return p
}

func runDemo(ctx context.Context, cfg config.Config, dumpFrames bool) error {
	log := pslog.Ctx(ctx)
	if dumpFrames {
		log.Debug("effective config", "dump", pretty.Sprint(cfg))
	}

	cc, err := cfg.Compositor()
	if err != nil {
		return err
	}
	cc.Tabline.ActiveAttr = attrTabActive
	cc.Tabline.InactiveAttr = attrTabInactive
	cc.Tabline.FillAttr = attrTabFill
	cc.Tabline.CloseAttr = attrTabClose

	pal := defaultPalette()
	if err := pal.Load(cfg.Palette); err != nil {
		return err
	}

	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(scr.Fini) }
	defer fini()
	scr.EnableMouse()
	screen := terminal.NewScreen(scr, pal)

	var comp *compositor.Compositor
	bellOpts := []audio.BellOption{
		audio.WithTone(cfg.Tone()),
		audio.WithLogger(log),
		audio.WithFlash(func() {
			screen.Flash(true)
			comp.RequestRedraw(redraw.ScopeScreen, redraw.InvertedAll)
			time.AfterFunc(flashDuration, func() {
				_ = scr.PostEvent(tcell.NewEventInterrupt(flashDone{}))
			})
		}),
	}
	if cfg.BellMode() == audio.ModeAudio {
		player := audio.NewPlayer(cfg.Tone().Rate)
		if err := player.Init(); err != nil {
			log.Warn("audio output unavailable", "error", err)
		} else {
			defer player.Close()
			bellOpts = append(bellOpts, audio.WithSink(player))
		}
	}
	bell := audio.NewBell(cfg.BellMode(), bellOpts...)

	d := newDemo(log)
	comp = compositor.New(cc,
		compositor.WithLogger(log),
		compositor.WithHandler(d),
		compositor.WithBell(bell),
		compositor.WithDebugFrames(dumpFrames),
	)
	d.comp = comp

	width, height := screen.Size()
	if err := comp.Init(width, height); err != nil {
		// Keep running; a later resize retries the allocation
		log.Error("compositor unavailable", "error", err)
	}
	d.apply()

	counter := terminal.NewClickCounter(cfg.DoubleClick())
	events := make(chan tcell.Event, 100)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			ev := scr.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() (err error) {
		defer fini()
		defer func() {
			if r := recover(); r != nil {
				// Restore the terminal before anything is reported
				fini()
				log.Error("ui loop panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
				err = fmt.Errorf("ui loop panic: %v", r)
			}
		}()

		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev := <-events:
				if !handleEvent(d, screen, scr, counter, bell, ev) {
					return nil
				}
			case <-ticker.C:
				screen.Draw(comp.Refresh())
			}
		}
	})

	err = g.Wait()
	log.Info("demo stopped", "refreshes", comp.Stats().Value(status.Refreshes), "bell_rings", bell.Rings(), "stats", comp.Stats().Line())
	return err
}

// handleEvent applies one terminal event; false ends the demo
func handleEvent(d *demo, screen *terminal.Screen, scr tcell.Screen, counter *terminal.ClickCounter, bell *audio.Bell, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyCtrlL:
			d.comp.RequestRedraw(redraw.ScopeScreen, redraw.Clear)
			scr.Sync()
		case tcell.KeyTab:
			d.nextTabPage()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'v':
				d.split(1, 0)
			case 's':
				d.split(0, 1)
			case 'x':
				d.split(-1, -1)
			case 't':
				d.newTab()
			case 'w':
				d.CloseTab(d.tab().id)
			case 'j':
				d.moveCursor(1)
			case 'k':
				d.moveCursor(-1)
			case 'm':
				d.toggleMultigrid()
			case 'g':
				bell.Ring()
			}
		}

	case *tcell.EventMouse:
		if mc, ok := counter.Translate(ev); ok {
			d.click(mc)
		}

	case *tcell.EventResize:
		width, height := ev.Size()
		d.resize(width, height)
		scr.Sync()

	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(flashDone); ok {
			screen.Flash(false)
			d.comp.RequestRedraw(redraw.ScopeScreen, redraw.InvertedAll)
		}
	}
	return true
}
