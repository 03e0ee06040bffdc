// Package display renders coaching state to a terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/misterclayt0n/stretchcoach/internal/coach"
	"github.com/misterclayt0n/stretchcoach/internal/pose"
)

const (
	boxWidth = 40
	barWidth = 20
)

// Renderer prints state changes as lines. It skips snapshots that differ
// only in the last prediction unless verbose is set.
type Renderer struct {
	out     io.Writer
	verbose bool

	mu       sync.Mutex
	surface  pose.Surface
	rendered bool
	last     frameKey
	lastPred string
}

type frameKey struct {
	phase    coach.Phase
	session  string
	index    int
	reps     int
	feedback string
	errMsg   string
}

func NewRenderer(out io.Writer, verbose bool) *Renderer {
	return &Renderer{out: out, verbose: verbose}
}

// AttachSurface shows the camera surface. Attaching the same surface again
// does nothing; it reports whether anything changed.
func (r *Renderer) AttachSurface(s pose.Surface) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil || r.surface == s {
		return false
	}
	r.surface = s

	mirror := ""
	if s.Mirrored() {
		mirror = " (mirrored)"
	}
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(r.out, "📷 %s %dx%d%s\n", cyan("Camera"), s.Width(), s.Height(), mirror)
	return true
}

// Attached reports whether a surface is attached.
func (r *Renderer) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface != nil
}

// Render prints s if it changed since the previous call.
func (r *Renderer) Render(s coach.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := frameKey{
		phase:    s.Phase,
		session:  s.SessionID,
		index:    s.StretchIndex,
		reps:     s.RepCount,
		feedback: s.Feedback,
		errMsg:   s.ErrorMessage,
	}

	if r.rendered && key == r.last {
		if r.verbose {
			r.renderPrediction(s)
		}
		return
	}

	prev, hadPrev := r.last, r.rendered
	r.last = key
	r.rendered = true

	switch s.Phase {
	case coach.PhaseLoading:
		fmt.Fprintf(r.out, "⏳ %s\n", s.Feedback)
	case coach.PhaseError:
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		r.printBoxedHeader("오류 발생", color.FgRed)
		fmt.Fprintf(r.out, "  %s\n", red(s.ErrorMessage))
	case coach.PhaseReady:
		r.printBoxedHeader("AI 스트레칭 코치", color.FgCyan)
		fmt.Fprintf(r.out, "  %s\n", s.Feedback)
		r.printHint("Enter 키를 눌러 시작하세요 (시작하기)")
	case coach.PhaseStretching:
		if !hadPrev || prev.phase != coach.PhaseStretching || prev.session != key.session || prev.index != key.index {
			r.printStretchHeader(s)
		}
		r.printProgress(s)
	case coach.PhaseFinished:
		r.printProgress(s)
		r.printBoxedHeader("수고하셨습니다!", color.FgGreen)
		fmt.Fprintf(r.out, "  ✅ %s\n", s.Feedback)
		r.printHint("Enter 키를 눌러 다시하기")
	}

	if r.verbose {
		r.renderPrediction(s)
	}
}

func (r *Renderer) renderPrediction(s coach.State) {
	if s.LastPrediction == nil {
		return
	}
	line := fmt.Sprintf("인식된 자세: %s (정확도: %.1f%%)", s.LastPrediction.Label, s.LastPrediction.Probability*100)
	if line == r.lastPred {
		return
	}
	r.lastPred = line
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.out, "    %s\n", faint(line))
}

func (r *Renderer) printStretchHeader(s coach.State) {
	st, ok := s.Stretch()
	if !ok {
		return
	}
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s\n", blue(fmt.Sprintf("스트레칭 %d / %d", s.StretchIndex+1, s.Total())))
	r.printBoxedHeader(strings.TrimSpace(st.Icon+" "+st.DisplayName), color.FgMagenta)
	fmt.Fprintf(r.out, "  %s %s\n", yellow("•"), st.Instructions)
}

func (r *Renderer) printProgress(s coach.State) {
	st, ok := s.Stretch()
	if !ok {
		return
	}
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(r.out, "  %s %s  %s\n",
		ProgressBar(s.Progress(), barWidth),
		green(fmt.Sprintf("%d / %d", s.RepCount, st.TargetReps)),
		s.Feedback,
	)
}

func (r *Renderer) printHint(text string) {
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.out, "  %s\n", faint("▶ "+text))
}

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func (r *Renderer) printBoxedHeader(title string, fg color.Attribute) {
	paint := color.New(fg, color.Bold).SprintFunc()
	border := strings.Repeat("═", boxWidth)
	fmt.Fprintln(r.out, paint("╔"+border+"╗"))
	fmt.Fprintln(r.out, paint("║"+centerText(title, boxWidth)+"║"))
	fmt.Fprintln(r.out, paint("╚"+border+"╝"))
}

// centerText pads s to width terminal cells.
func centerText(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-w-padding)
}

// ProgressBar draws percent (0-100) as a bar of width cells.
func ProgressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
