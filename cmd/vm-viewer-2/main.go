package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/search"
	"go.creack.net/intcode/vm"
)

var fontFace = text.NewGoXFace(bitmapfont.Face)

const initialScreenWidth, initialScreenHeight = 1024, 768

const (
	cellSize    = 6 // Pixels per memory cell.
	cellsPerRow = 32
	bandPadding = 12
	headerLines = 4
)

var (
	colorEmpty = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	colorValue = color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff}
	colorRead  = color.RGBA{R: 0x30, G: 0x90, B: 0xff, A: 0xff}
	colorWrite = color.RGBA{R: 0xff, G: 0x60, B: 0x30, A: 0xff}
	colorFetch = color.RGBA{R: 0x40, G: 0xd0, B: 0x60, A: 0xff}
	colorIP    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Game implements ebiten.Game interface.
// Each computer of the network gets a vertical band showing its memory.
type Game struct {
	n *vm.Network

	paused        bool
	ticksPerRound int
	ticks         int
	done          bool
	err           error
}

// Update proceeds the network state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.ticksPerRound = max(1, g.ticksPerRound/2)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.ticksPerRound *= 2
	}
	if g.done {
		return nil
	}

	step := inpututil.IsKeyJustPressed(ebiten.KeyN)
	if !step {
		if g.paused {
			return nil
		}
		g.ticks++
		if g.ticks < g.ticksPerRound {
			return nil
		}
		g.ticks = 0
	}

	if err := g.n.Round(); err != nil {
		g.done = true
		if !errors.Is(err, io.EOF) {
			g.err = err
		}
	}
	return nil
}

func accessColor(c *vm.Computer, addr int64, value int64) color.Color {
	switch c.Mem.Access(addr) {
	case vm.AccessRead:
		return colorRead
	case vm.AccessWrite:
		return colorWrite
	case vm.AccessFetch:
		return colorFetch
	}
	if value == 0 {
		return colorEmpty
	}
	return colorValue
}

func (g *Game) drawComputer(screen *ebiten.Image, c *vm.Computer, x, y float32) {
	mem := c.Mem.Snapshot()
	for i, elem := range mem {
		cx := x + float32(i%cellsPerRow)*cellSize
		cy := y + float32(i/cellsPerRow)*cellSize
		clr := accessColor(c, int64(i), elem)
		if int64(i) == c.IP && !c.Halted {
			clr = colorIP
		}
		vector.DrawFilledRect(screen, cx, cy, cellSize-1, cellSize-1, clr, false)
	}
}

func (g *Game) header() string {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "Round: %d  Feedback: %t  Quantum: %d", g.n.Rounds, g.n.Config.Feedback, g.n.Config.Quantum)
	if g.paused {
		fmt.Fprintf(buf, "  [paused]")
	}
	if out, err := g.n.Result(); err == nil {
		fmt.Fprintf(buf, "  Output: %d", out)
	}
	switch {
	case g.err != nil:
		fmt.Fprintf(buf, "\nError: %s", g.err)
	case g.done:
		fmt.Fprintf(buf, "\nDone")
	}
	return buf.String()
}

// Draw draws the memory map.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	lineHeight := fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent

	textOp := &text.DrawOptions{}
	textOp.LineSpacing = lineHeight
	textOp.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, g.header(), fontFace, textOp)

	top := float32(lineHeight * headerLines)
	for i, c := range g.n.Computers {
		x := float32(i) * (cellsPerRow*cellSize + bandPadding)

		labelOp := &text.DrawOptions{}
		labelOp.LineSpacing = lineHeight
		labelOp.GeoM.Translate(float64(x), float64(top))
		labelOp.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 255, B: 0, A: 255})
		label := fmt.Sprintf("#%d phase %d\n%s ip %d\nout %d", c.ID, g.n.Phases[i], c.State(), c.IP, c.LastOutput())
		text.Draw(screen, label, fontFace, labelOp)

		g.drawComputer(screen, c, x, top+float32(lineHeight*3))
	}
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return outsideWidth, outsideHeight
}

func main() {
	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowTitle("IntCode")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	cfg, err := cli.ParseConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse cli config: %s.\nusage: %s %s", err, os.Args[0], cli.Usage)
	}

	phases := cfg.Phases
	if len(phases) == 0 {
		phases = search.DefaultPhases(cfg.Network.Feedback)
	}

	game := &Game{
		n:             vm.NewNetwork(cfg.Network, cfg.Program, phases),
		paused:        true,
		ticksPerRound: 30,
	}

	// Call ebiten.RunGame to start the game loop.
	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{
		InitUnfocused: true,
	}); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
