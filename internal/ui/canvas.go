package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

// Canvas composes lipgloss-rendered blocks into a cell buffer so overlays
// and toasts can be drawn over the base frame without breaking its ANSI
// sequences.
type Canvas struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

// NewCanvas creates a canvas of the given size. Non-positive sizes become 1.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{
		ShowCursor: false,
		AltScreen:  false,
	})
	return &Canvas{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
}

// DrawStringAt writes the block starting at x,y. Every line of the block
// starts at column x.
func (c *Canvas) DrawStringAt(x, y int, content string) {
	if content == "" || c == nil || c.writer == nil {
		return
	}
	c.drawBlockAt(x, y, splitBlockLines(content))
}

// centerOverlay draws the block centered inside the rows between topMargin
// and bottomMargin so header and footer stay visible.
func (c *Canvas) centerOverlay(block string, topMargin, bottomMargin int) {
	lines := splitBlockLines(block)
	if len(lines) == 0 || c == nil {
		return
	}
	blockWidth := maxLineWidth(lines)
	if blockWidth > c.width {
		blockWidth = c.width
	}
	x, y := centeredOffsets(c.width, c.height, blockWidth, len(lines), topMargin, bottomMargin)
	c.drawBlockAt(x, y, lines)
}

// bottomRightOverlay anchors the block to the bottom-right corner, leaving
// bottomMargin rows free below it.
func (c *Canvas) bottomRightOverlay(block string, padding, bottomMargin int) {
	lines := splitBlockLines(block)
	if len(lines) == 0 || c == nil {
		return
	}
	if padding < 0 {
		padding = 0
	}
	if bottomMargin < 0 {
		bottomMargin = 0
	}

	startY := c.height - len(lines) - bottomMargin
	if startY < 0 {
		startY = 0
	}
	startX := c.width - maxLineWidth(lines) - padding
	if startX < 0 {
		startX = 0
	}
	c.drawBlockAt(startX, startY, lines)
}

func (c *Canvas) drawBlockAt(x, y int, lines []string) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	for i, line := range lines {
		row := y + i
		if row >= c.height {
			break
		}
		if line == "" {
			continue
		}
		c.writer.PrintCropAt(x, row, line, "")
	}
}

// Render returns the composed frame as newline-delimited text for Bubble Tea.
func (c *Canvas) Render() string {
	if c == nil || c.screen == nil {
		return ""
	}
	raw := cellbuf.Render(c.screen)
	_ = c.screen.Close()
	return strings.ReplaceAll(raw, "\r\n", "\n")
}

func centeredOffsets(containerWidth, containerHeight, contentWidth, contentHeight, topMargin, bottomMargin int) (int, int) {
	if topMargin < 0 {
		topMargin = 0
	}
	if bottomMargin < 0 {
		bottomMargin = 0
	}

	usableHeight := containerHeight - topMargin - bottomMargin
	y := topMargin
	if usableHeight > contentHeight {
		y = topMargin + (usableHeight-contentHeight)/2
	}
	if maxY := containerHeight - bottomMargin - contentHeight; y > maxY {
		y = maxY
	}
	if y < 0 {
		y = 0
	}

	x := (containerWidth - contentWidth) / 2
	if x < 0 {
		x = 0
	}
	return x, y
}

func splitBlockLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

func maxLineWidth(lines []string) int {
	width := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > width {
			width = w
		}
	}
	return width
}
