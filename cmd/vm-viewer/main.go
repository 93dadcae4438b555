package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/disasm"
	"go.creack.net/intcode/op"
	"go.creack.net/intcode/search"
	"go.creack.net/intcode/vm"
)

// Computer colors, indexed by computer ID.
var colors = []tcell.Color{
	tcell.ColorLightGreen,
	tcell.ColorDodgerBlue,
	tcell.ColorOrange,
	tcell.ColorViolet,
	tcell.ColorGold,
	tcell.ColorTurquoise,
	tcell.ColorSalmon,
	tcell.ColorLime,
}

func computerColor(id int) tcell.Color {
	return colors[id%len(colors)]
}

func NewGame(ctx context.Context, n *vm.Network, messages <-chan vm.Message) *Game {
	app := tview.NewApplication().EnableMouse(true)

	newTextView := func(text string) *tview.TextView {
		return tview.NewTextView().
			SetDynamicColors(true).
			SetText(text)
	}

	memView := tview.NewTable().SetBorders(false)

	logsView := newTextView("")
	logsView.SetTitle("Logs").SetBorder(true)
	logsView.ScrollToEnd()

	computerListView := tview.NewTable().SetBorders(false)
	computerListView.SetTitle("Computers").SetBorder(true)

	stateView := newTextView("Settings")
	stateView.SetTitle("Settings").SetBorder(true)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow)
	rightPane.
		AddItem(stateView, 0, 2, false).
		AddItem(computerListView, 0, 2, false).
		AddItem(logsView, 0, 5, false)

	memPane := tview.NewFlex()
	memPane.SetBorder(true)
	memPane.AddItem(memView, 0, 1, false)

	flex := tview.NewFlex().
		AddItem(memPane, 0, 3, true).
		AddItem(rightPane, 0, 2, false)

	pages := tview.NewPages()
	pages.AddPage("main", flex, true, true)

	disasmView := newTextView("")
	disasmView.SetBorder(true)
	pages.AddPage("disasm", disasmView, true, false)

	ctx, cancel := context.WithCancel(ctx)

	return &Game{
		app: app,

		root: pages,

		memPane:          memPane,
		memView:          memView,
		computerListView: computerListView,
		stateView:        stateView,
		logsView:         logsView,
		disasmView:       disasmView,

		n:        n,
		messages: messages,
		ctx:      ctx,
		cancel:   cancel,

		paused: true,
	}
}

type Game struct {
	app *tview.Application

	root *tview.Pages

	memPane          *tview.Flex
	memView          *tview.Table
	computerListView *tview.Table
	stateView        *tview.TextView
	logsView         *tview.TextView
	disasmView       *tview.TextView

	// Network state, guarded by netMu as it is stepped and drawn from different goroutines.
	n        *vm.Network
	netMu    sync.Mutex
	selected int // Computer displayed in the memory view.
	done     bool
	lastErr  error

	messages <-chan vm.Message
	logs     []string // Pending log lines, flushed on draw.
	logsMu   sync.Mutex

	paused   bool
	pausedMu sync.Mutex

	nextStep   bool
	nextStepMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
}

func (g *Game) Stop() {
	g.app.Stop()
	g.cancel()
}

func (g *Game) selectComputer(delta int) {
	g.netMu.Lock()
	defer g.netMu.Unlock()
	count := len(g.n.Computers)
	g.selected = ((g.selected+delta)%count + count) % count
}

func (g *Game) showDisasm() {
	g.netMu.Lock()
	c := g.n.Computers[g.selected]
	text := disasm.Dump(c.Mem.Snapshot())
	title := fmt.Sprintf("Disassembly computer %d (ip %d)", c.ID, c.IP)
	g.netMu.Unlock()

	g.disasmView.SetTitle(title)
	g.disasmView.SetText(text)
	g.root.SwitchToPage("disasm")
}

func (g *Game) Init() {
	f := func(event *tcell.EventKey) *tcell.EventKey {
		curPage, _ := g.root.GetFrontPage()
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			g.Stop()
			return nil
		case tcell.KeyEnter:
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			return event
		case tcell.KeyTab:
			g.selectComputer(1)
			g.Draw()
			return nil
		case tcell.KeyBacktab:
			g.selectComputer(-1)
			g.Draw()
			return nil
		}
		switch event.Rune() {
		case 'n':
			g.nextStepMu.Lock()
			g.nextStep = true
			g.nextStepMu.Unlock()
			return nil
		case 'd':
			if curPage == "main" {
				g.showDisasm()
			} else {
				g.root.SwitchToPage("main")
			}
			return nil
		case ' ':
			if curPage == "main" {
				g.pausedMu.Lock()
				g.paused = !g.paused
				g.pausedMu.Unlock()
			} else {
				g.root.SwitchToPage("main")
			}
			return nil
		case 'q':
			if curPage != "main" {
				g.root.SwitchToPage("main")
				return nil
			}
			g.Stop()
			return nil
		}
		return event
	}
	g.root.SetInputCapture(f)

	// Buffer the messages, the computers block until they are consumed.
	go func() {
	loop:
		select {
		case msg := <-g.messages:
			// Trace lines are too verbose for the log pane.
			if msg.Type == vm.MsgTrace {
				goto loop
			}
			// NOTE: Seems like there is a bug with tview, we can't reset the color to default
			// with [:] or [:::], so we use tcell default.
			colorCode := "[" + tcell.ColorDefault.String() + ":::]"
			line := ""
			if msg.Computer != nil {
				colorCode = "[" + computerColor(msg.Computer.ID).String() + ":::]"
				line = fmt.Sprintf("%s[%d] %s: %s[:::]", colorCode, msg.Computer.ID, msg.Type, strings.TrimSuffix(msg.Message, "\n"))
			} else {
				line = fmt.Sprintf("%s%s[:::]", colorCode, strings.TrimSuffix(msg.Message, "\n"))
			}
			g.logsMu.Lock()
			g.logs = append(g.logs, line)
			g.logsMu.Unlock()
		case <-g.ctx.Done():
			return
		}
		goto loop
	}()
}

// Update runs one round of the network, unless paused.
func (g *Game) Update() error {
	isPaused := func() bool {
		g.pausedMu.Lock()
		defer g.pausedMu.Unlock()
		return g.paused
	}
	forceNextStep := func() bool {
		g.nextStepMu.Lock()
		defer g.nextStepMu.Unlock()
		if g.nextStep {
			g.nextStep = false
			return true
		}
		return false
	}
	if !forceNextStep() && isPaused() {
		return nil
	}

	g.netMu.Lock()
	defer g.netMu.Unlock()
	if g.done {
		return io.EOF
	}
	if err := g.n.Round(); err != nil {
		g.done = true
		if !errors.Is(err, io.EOF) {
			g.lastErr = err
		}
		return err
	}
	return nil
}

func (g *Game) drawComputerList() {
	g.computerListView.SetTitle(fmt.Sprintf("Computers (%d)", len(g.n.Computers)))
	g.computerListView.Clear()
	for i, elem := range []string{
		"id",
		"phase",
		"state",
		"ip",
		"op",
		"rb",
		"steps",
		"in",
		"last out",
	} {
		cell := tview.NewTableCell(elem).
			SetAttributes(tcell.AttrBold).
			SetAlign(tview.AlignCenter)

		g.computerListView.SetCell(0, i, cell).SetFixed(1, i)
	}

	for i, elem := range g.n.Computers {
		curIns := ""
		// Peek would mark the cell as read.
		if mem := elem.Mem.Snapshot(); elem.IP < int64(len(mem)) {
			if ins, err := op.Decode(mem[elem.IP]); err == nil {
				curIns = ins.String()
			}
		}
		id := fmt.Sprint(elem.ID)
		if i == g.selected {
			id = "*" + id
		}
		for j, content := range []any{
			id,
			g.n.Phases[i],
			elem.State(),
			elem.IP,
			curIns,
			elem.RelativeBase,
			elem.Steps,
			elem.PendingInput(),
			elem.LastOutput(),
		} {
			cell := tview.NewTableCell(fmt.Sprint(content)).SetAlign(tview.AlignRight)
			cell.SetTextColor(computerColor(elem.ID))
			g.computerListView.SetCell(i+1, j, cell)
		}
	}
}

func (g *Game) drawState() {
	sv := g.stateView
	sv.Clear()

	cfg := g.n.Config
	fmt.Fprintf(sv, "Rounds: %d\n", g.n.Rounds)
	fmt.Fprintf(sv, "Feedback: %t\n", cfg.Feedback)
	fmt.Fprintf(sv, "Quantum: %d\n", cfg.Quantum)
	fmt.Fprintf(sv, "Memory Limit: %d\n", cfg.VM.MemSize)
	fmt.Fprintf(sv, "Seed: %d\n", cfg.Seed)
	if out, err := g.n.Result(); err == nil {
		fmt.Fprintf(sv, "Output: %d\n", out)
	}
	switch {
	case g.lastErr != nil:
		fmt.Fprintf(sv, "[red]Error: %s[:::]\n", g.lastErr)
	case g.done:
		fmt.Fprintf(sv, "Done\n")
	}
}

func (g *Game) drawMemory() {
	const width = 16
	c := g.n.Computers[g.selected]
	mem := c.Mem.Snapshot()

	g.memPane.SetTitle(fmt.Sprintf("Memory computer %d (%d cells)", c.ID, len(mem)))
	g.memView.Clear()
	for i, elem := range mem {
		cell := tview.NewTableCell(fmt.Sprintf("%d", elem)).SetAlign(tview.AlignRight)
		switch c.Mem.Access(int64(i)) {
		case vm.AccessRead:
			cell.SetTextColor(computerColor(c.ID)).SetAttributes(tcell.AttrBold)
		case vm.AccessWrite:
			cell.SetTextColor(computerColor(c.ID)).SetAttributes(tcell.AttrItalic | tcell.AttrDim)
		case vm.AccessFetch:
			cell.SetTextColor(computerColor(c.ID)).SetAttributes(tcell.AttrUnderline)
		default:
			if elem == 0 {
				cell.SetTextColor(tcell.ColorDimGray)
				cell.SetAttributes(tcell.AttrDim)
			}
		}
		if int64(i) == c.IP && !c.Halted {
			cell.SetAttributes(tcell.AttrReverse).SetTextColor(computerColor(c.ID))
		}
		g.memView.SetCell(i/width, i%width, cell)
	}
}

func (g *Game) drawLogs() {
	g.logsMu.Lock()
	lines := g.logs
	g.logs = nil
	g.logsMu.Unlock()
	for _, elem := range lines {
		fmt.Fprintf(g.logsView, "%s\n", elem)
	}
}

func (g *Game) Draw() {
	g.netMu.Lock()
	defer g.netMu.Unlock()
	g.drawMemory()
	g.drawState()
	g.drawComputerList()
	g.drawLogs()
}

func main() {
	cfg, err := cli.ParseConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to parse CLI config: %s.\nusage: %s %s", err, os.Args[0], cli.Usage)
	}

	phases := cfg.Phases
	if len(phases) == 0 {
		phases = search.DefaultPhases(cfg.Network.Feedback)
	}

	messages := make(chan vm.Message, 1024)
	cfg.Network.VM.Messages = messages
	n := vm.NewNetwork(cfg.Network, cfg.Program, phases)

	g := NewGame(context.Background(), n, messages)
	g.Init()
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		defer func() {
			if e := recover(); e != nil {
				g.app.Stop()
				log.Printf("Recovered from panic: %v", e)
				debug.PrintStack()
			}
		}()
	loop:
		end := false
		if err := g.Update(); err != nil {
			end = true
			if !errors.Is(err, io.EOF) {
				g.logsMu.Lock()
				g.logs = append(g.logs, fmt.Sprintf("[red]%s[:::]", err))
				g.logsMu.Unlock()
			}
		}

		g.app.QueueUpdateDraw(func() {
			g.Draw()
		})

		if end {
			return
		}
		select {
		case <-ticker.C:
		case <-g.ctx.Done():
			g.Stop()
			return
		}
		goto loop
	}()

	if err := g.app.SetRoot(g.root, true).SetFocus(g.root).Run(); err != nil {
		panic(err)
	}
	out, err := n.Result()
	if err != nil {
		log.Printf("Done: %s", err)
		return
	}
	log.Printf("Done, output: %d", out)
}
