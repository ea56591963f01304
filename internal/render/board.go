// Package render draws the playfield as a PNG frame for the /api/frame
// endpoint.
package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"blockfall/internal/engine"
	"blockfall/internal/tetromino"
)

const (
	cellSize   = 28.0
	boardPad   = 16.0
	panelWidth = 180.0
)

var kindColors = [7]color.RGBA{
	tetromino.I: {0, 199, 214, 255},
	tetromino.O: {247, 211, 8, 255},
	tetromino.T: {175, 41, 138, 255},
	tetromino.S: {83, 218, 63, 255},
	tetromino.Z: {253, 63, 89, 255},
	tetromino.J: {33, 65, 198, 255},
	tetromino.L: {255, 151, 28, 255},
}

// Renderer draws frames for one board geometry. It is stateless apart from
// the cached dimensions, so a single instance serves concurrent requests.
type Renderer struct {
	rules    engine.Rules
	width    int
	height   int
	fontPath string
}

// New creates a renderer sized for the given rules.
func New(rules engine.Rules) *Renderer {
	visibleRows := rules.Height - rules.HiddenRows
	return &Renderer{
		rules:    rules,
		width:    int(boardPad*2 + cellSize*float64(rules.Width) + panelWidth),
		height:   int(boardPad*2 + cellSize*float64(visibleRows)),
		fontPath: findFontPath(),
	}
}

// Frame renders the state and writes it as a PNG.
func (r *Renderer) Frame(state engine.State, w io.Writer) error {
	dc := gg.NewContext(r.width, r.height)

	r.drawBackground(dc)
	r.drawWell(dc, state)
	r.drawActivePiece(dc, state)
	r.drawPanel(dc, state)

	return dc.EncodePNG(w)
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(color.RGBA{12, 12, 28, 255})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()
}

// cellRect maps board coordinates to pixels. Rows inside the hidden buffer
// land above the frame and are clipped by gg.
func (r *Renderer) cellRect(x, y int) (float64, float64) {
	px := boardPad + float64(x)*cellSize
	py := boardPad + float64(y-r.rules.HiddenRows)*cellSize
	return px, py
}

func (r *Renderer) drawWell(dc *gg.Context, state engine.State) {
	b := state.Board

	// Well backdrop and grid
	wellW := cellSize * float64(b.Width)
	wellH := cellSize * float64(b.Height-r.rules.HiddenRows)
	dc.SetColor(color.RGBA{22, 22, 40, 255})
	dc.DrawRectangle(boardPad, boardPad, wellW, wellH)
	dc.Fill()

	dc.SetColor(color.RGBA{35, 35, 55, 255})
	dc.SetLineWidth(1)
	for x := 0; x <= b.Width; x++ {
		px := boardPad + float64(x)*cellSize
		dc.DrawLine(px, boardPad, px, boardPad+wellH)
		dc.Stroke()
	}
	for y := 0; y <= b.Height-r.rules.HiddenRows; y++ {
		py := boardPad + float64(y)*cellSize
		dc.DrawLine(boardPad, py, boardPad+wellW, py)
		dc.Stroke()
	}

	for y := r.rules.HiddenRows; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cell := b.At(x, y)
			if !cell.Occupied {
				continue
			}
			if cell.Marked {
				// Rows about to collapse flash white
				r.drawCell(dc, x, y, color.RGBA{240, 240, 240, 255})
				continue
			}
			r.drawCell(dc, x, y, kindColors[cell.Kind])
		}
	}
}

func (r *Renderer) drawActivePiece(dc *gg.Context, state engine.State) {
	if state.Status != engine.StatusPlaying && state.Status != engine.StatusPaused {
		return
	}
	// The active piece is stale while rows are pending
	if len(state.PendingClear) > 0 {
		return
	}

	// Ghost outline at the landing position
	ghost := state.Active.Translated(0, engine.DropDistance(state.Board, state.Active))
	dc.SetColor(color.RGBA{120, 120, 140, 120})
	dc.SetLineWidth(2)
	for _, c := range ghost.Cells() {
		if c.Y < r.rules.HiddenRows {
			continue
		}
		px, py := r.cellRect(c.X, c.Y)
		dc.DrawRectangle(px+2, py+2, cellSize-4, cellSize-4)
		dc.Stroke()
	}

	for _, c := range state.Active.Cells() {
		r.drawCell(dc, c.X, c.Y, kindColors[state.Active.Kind])
	}
}

func (r *Renderer) drawCell(dc *gg.Context, x, y int, col color.RGBA) {
	px, py := r.cellRect(x, y)
	dc.SetColor(col)
	dc.DrawRectangle(px+1, py+1, cellSize-2, cellSize-2)
	dc.Fill()

	// Light top edge for a beveled look
	dc.SetColor(color.RGBA{255, 255, 255, 60})
	dc.DrawRectangle(px+1, py+1, cellSize-2, 4)
	dc.Fill()
}

func (r *Renderer) drawPanel(dc *gg.Context, state engine.State) {
	panelX := boardPad*2 + cellSize*float64(r.rules.Width)

	if err := dc.LoadFontFace(r.fontPath, 16); err == nil {
		dc.SetColor(color.White)
		lines := []string{
			fmt.Sprintf("Score  %d", state.Score),
			fmt.Sprintf("Level  %d", state.Level),
			fmt.Sprintf("Lines  %d", state.Lines),
		}
		if state.Combo > 0 {
			lines = append(lines, fmt.Sprintf("Combo  x%d", state.Combo))
		}
		for i, line := range lines {
			dc.DrawString(line, panelX+10, boardPad+20+float64(i)*22)
		}

		dc.SetColor(color.RGBA{160, 160, 180, 255})
		dc.DrawString("Next", panelX+10, boardPad+120)
		dc.DrawString("Hold", panelX+10, boardPad+240)

		if state.Status == engine.StatusPaused {
			dc.SetColor(color.RGBA{255, 200, 60, 255})
			dc.DrawString("PAUSED", panelX+10, float64(r.height)-boardPad-10)
		}
		if state.Status == engine.StatusGameOver {
			dc.SetColor(color.RGBA{255, 62, 62, 255})
			dc.DrawString("GAME OVER", panelX+10, float64(r.height)-boardPad-10)
		}
	}

	// Queue preview: next three pieces in miniature
	for i := 0; i < 3 && i < len(state.Queue); i++ {
		r.drawMini(dc, state.Queue[i], panelX+10, boardPad+130+float64(i)*36)
	}

	if state.HasHold {
		r.drawMini(dc, state.Held, panelX+10, boardPad+250)
	}
}

// drawMini draws a piece preview at quarter board scale.
func (r *Renderer) drawMini(dc *gg.Context, k tetromino.Kind, ox, oy float64) {
	const mini = 12.0
	dc.SetColor(kindColors[k])
	for _, c := range tetromino.CellsFor(k, 0) {
		dc.DrawRectangle(ox+float64(c.X)*mini, oy+float64(c.Y)*mini, mini-1, mini-1)
		dc.Fill()
	}
}

func findFontPath() string {
	paths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
		"C:\\Windows\\Fonts\\arial.ttf",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}
