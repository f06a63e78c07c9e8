// Command snesgo is the CLI/GUI front end exercising the core end to
// end. The core itself has no CLI dependency; this command wires
// together a cartridge, bus, CPU, PPU, and scheduler, and drives them
// from an ebiten game loop (or headlessly under -nogui).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mattias800/ai-snes-gpt5-sub003/internal/bus"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/cartridge"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/config"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/cpu"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/graphics"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/input"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/ppu"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/scheduler"
	"github.com/mattias800/ai-snes-gpt5-sub003/internal/trace"
)

func main() {
	var (
		romPath = flag.String("rom", "", "path to a SNES ROM image")
		hirom   = flag.Bool("hirom", false, "treat the ROM as HiROM instead of LoROM")
		nogui   = flag.Bool("nogui", false, "run headlessly instead of opening a window")
		debug   = flag.Bool("debug", false, "trace CPU state to stderr every instruction")
		sram    = flag.Int("sram", 0, "battery-backed SRAM size in bytes")
	)
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: snesgo -rom path/to/game.sfc")
		os.Exit(1)
	}

	romBytes, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("snesgo: reading rom: %v", err)
	}

	cfg := config.Default()
	if *hirom {
		cfg.Mapping = config.MappingHiROM
	}
	if *debug {
		cfg.TraceEvery = 1
	}

	sink := trace.Discard
	if *debug {
		sink = trace.LineSink{Log: log.Printf}
	}

	cart, err := cartridge.New(romBytes, cfg.Mapping, *sram)
	if err != nil {
		log.Fatalf("snesgo: loading cartridge: %v", err)
	}

	pad := input.New()
	p := ppu.New(sink)
	b := bus.New(cfg, cart, p, pad, sink)
	c := cpu.New(b)
	sched := scheduler.New(cfg, c, b, p, sink)
	sched.Reset()

	if *nogui {
		runHeadless(sched)
		return
	}

	backend := graphics.NewEbitenBackend()
	sched.SetBackend(backend)

	game := &snesGame{sched: sched, backend: backend, pad: pad}
	ebiten.SetWindowSize(graphics.ScreenWidth*2, graphics.ScreenHeight*2)
	ebiten.SetWindowTitle("snesgo")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("snesgo: %v", err)
	}
}

func runHeadless(sched *scheduler.Scheduler) {
	backend := graphics.NewHeadlessBackend()
	sched.SetBackend(backend)
	for backend.Frames < 60 {
		if err := sched.StepFrame(); err != nil {
			log.Fatalf("snesgo: frame %d: %v", backend.Frames, err)
		}
	}
}

// snesGame adapts Scheduler to ebiten.Game.
type snesGame struct {
	sched   *scheduler.Scheduler
	backend *graphics.EbitenBackend
	pad     *input.Controller
}

var keyMap = map[ebiten.Key]input.Button{
	ebiten.KeyZ:         input.ButtonB,
	ebiten.KeyX:         input.ButtonA,
	ebiten.KeyA:         input.ButtonY,
	ebiten.KeyS:         input.ButtonX,
	ebiten.KeyQ:         input.ButtonL,
	ebiten.KeyW:         input.ButtonR,
	ebiten.KeyShift:     input.ButtonSelect,
	ebiten.KeyEnter:     input.ButtonStart,
	ebiten.KeyUp:        input.ButtonUp,
	ebiten.KeyDown:      input.ButtonDown,
	ebiten.KeyLeft:      input.ButtonLeft,
	ebiten.KeyRight:     input.ButtonRight,
}

func (g *snesGame) Update() error {
	for key, button := range keyMap {
		g.pad.SetButton(button, ebiten.IsKeyPressed(key))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}
	return g.sched.StepFrame()
}

func (g *snesGame) Draw(screen *ebiten.Image) {
	opts := &ebiten.DrawImageOptions{}
	scaleX := float64(screen.Bounds().Dx()) / float64(graphics.ScreenWidth)
	scaleY := float64(screen.Bounds().Dy()) / float64(graphics.ScreenHeight)
	opts.GeoM.Scale(scaleX, scaleY)
	screen.DrawImage(g.backend.Image(), opts)
}

func (g *snesGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

type quitError struct{}

func (quitError) Error() string { return "quit requested" }

var errQuit = quitError{}
