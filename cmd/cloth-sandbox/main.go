package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/verlet/audio"
	"github.com/lixenwraith/verlet/engine"
	"github.com/lixenwraith/verlet/events"
	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/render"
	"github.com/lixenwraith/verlet/status"
)

var (
	configFlag = flag.String("config", "", "TOML physics config (defaults when empty)")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/sandbox.log")
	muteFlag   = flag.Bool("mute", false, "Disable audio")
)

const helpLine = "q quit  r reset  w wind  space kick  ←/→ push  mouse tear  p probe"

func main() {
	flag.Parse()
	os.Exit(sandboxMain())
}

// sandboxMain returns the exit code so deferred cleanup runs before os.Exit
func sandboxMain() int {
	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg := parameter.Default()
	if *configFlag != "" {
		loaded, err := parameter.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	if err := run(cfg); err != nil {
		log.Printf("sandbox: %v", err)
		fmt.Fprintf(os.Stderr, "cloth-sandbox: %v\n", err)
		return 1
	}
	return 0
}

func run(cfg parameter.Config) error {
	queue := events.NewEventQueue()
	mgr, err := engine.NewManager(cfg, queue, status.NewRegistry())
	if err != nil {
		return err
	}

	var blipper *audio.Blipper
	if !*muteFlag {
		blipper = audio.NewBlipper(audio.DefaultConfig())
		if err := blipper.Initialize(); err != nil {
			// Non-fatal, the sandbox runs without sound
			log.Printf("sandbox: audio initialization failed: %v", err)
			blipper = nil
		} else {
			defer blipper.Cleanup()
		}
	}

	s := newSandbox(mgr, queue, blipper)
	if err := s.build(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	// Fini runs after guarded returns, so a crash report reaches a restored terminal
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()
	s.resize(screen.Size())

	return guarded(func() error { return loop(screen, s) })
}

// guarded runs fn and turns a panic into an error carrying the stack
func guarded(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("crashed: %v\nStack Trace:\n%s", r, debug.Stack())
		}
	}()
	return fn()
}

// loop pumps terminal events and frames until quit
func loop(screen tcell.Screen, s *sandbox) error {
	eventChan := make(chan tcell.Event, 256)
	pollErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				pollErr <- errors.Errorf("event poller crashed: %v\n%s", r, debug.Stack())
			}
		}()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	last := time.Now()
	probe := ""
	for {
		select {
		case err := <-pollErr:
			return err

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				s.resize(ev.Size())
				screen.Sync()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyLeft:
					s.push(-1)
				case ev.Key() == tcell.KeyRight:
					s.push(1)
				case ev.Rune() == ' ':
					s.kick()
				case ev.Rune() == 'w':
					s.toggleWind()
				case ev.Rune() == 'r':
					if err := s.build(); err != nil {
						return err
					}
				case ev.Rune() == 'p':
					_, y := screen.Size()
					probe = s.probe(y / 2)
				}
			case *tcell.EventMouse:
				if ev.Buttons()&tcell.Button1 != 0 {
					s.tearAt(ev.Position())
				}
				if ev.Buttons()&tcell.Button2 != 0 {
					_, y := ev.Position()
					probe = s.probe(y)
				}
			}

		case now := <-frameTicker.C:
			dt := min(now.Sub(last), parameter.MaxFrameDelta)
			last = now
			s.frame(dt.Seconds(), helpLine, probe)
			render.Flush(s.buf, screen)
		}
	}
}
