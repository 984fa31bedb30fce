package dandelion

import (
	"fmt"

	"github.com/vovakirdan/tui-dandelions/internal/core"
)

// Display glyphs
const (
	glyphSeed     = '.'
	glyphCursor   = '+'
	glyphScythe   = '/'
	glyphRabbit   = 'b'
	glyphFire     = '^'
	glyphBarFull  = '='
	glyphBarEmpty = '-'
	glyphSep      = '─'
)

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.gameCfg.Lawn.MinWidth, g.gameCfg.Lawn.MinHeight)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	g.renderHUD(dst)
	g.renderSeeds(dst)
	g.renderDandelions(dst)
	g.renderFires(dst)
	g.renderRabbits(dst)
	g.renderPickups(dst)
	g.renderFlashes(dst)
	g.renderCursor(dst)
	g.renderStatus(dst)
	g.renderOverlay(dst)
}

// renderHUD draws score, time, and pace information above the lawn.
func (g *Game) renderHUD(dst *core.Screen) {
	// Row 0: level name, score, time
	if g.mode == ModeCampaign && g.level != nil {
		name := fmt.Sprintf("L%d %s", g.level.ID, truncate(g.level.Name, 24))
		dst.DrawText(1, 0, name)

		scoreText := fmt.Sprintf("Score: %d/%d", g.score, g.level.TargetPoints)
		dst.DrawTextCentered(0, scoreText)

		timeText := fmt.Sprintf("Time %s/%s", fmtTime(g.elapsedSecs()), fmtTime(g.level.OneStarSecs))
		dst.DrawText(dst.Width()-len(timeText)-1, 0, timeText)
	} else {
		dst.DrawText(1, 0, "Endless Lawn")

		scoreText := fmt.Sprintf("Score: %d", g.score)
		dst.DrawTextCentered(0, scoreText)

		timeText := fmt.Sprintf("Time %s", fmtTime(g.elapsedSecs()))
		dst.DrawText(dst.Width()-len(timeText)-1, 0, timeText)
	}

	// Row 1: separator, then combo / pace / curb appeal on top of it
	for x := 0; x < dst.Width(); x++ {
		dst.Set(x, 1, glyphSep)
	}

	left := ""
	if g.combo > 0 {
		// Show the bonus the next kill in the chain will earn.
		bonusPct := g.combo * g.gameCfg.Scoring.ComboStepPct
		if bonusPct > g.gameCfg.Scoring.ComboMaxPct {
			bonusPct = g.gameCfg.Scoring.ComboMaxPct
		}
		left = fmt.Sprintf(" Combo x%d (+%d%%) ", g.combo, bonusPct)
	}
	if secs := g.powerups.EffectRemaining(EffectScythe, g.tickCount) / g.cfg.TickRate; secs > 0 {
		left += fmt.Sprintf(" Scythe(%d) ", secs)
	}
	if left != "" {
		dst.DrawTextColored(1, 1, left, core.ColorBrightYellow)
	}

	if g.mode == ModeCampaign && g.level != nil && g.state == StatePlaying {
		pace := g.level.Stars(g.elapsedSecs())
		dst.DrawTextCentered(1, fmt.Sprintf(" Pace: %s ", starRow(pace)))
	}

	appealText := fmt.Sprintf(" Curb Appeal %d%% ", g.curbAppeal())
	dst.DrawText(dst.Width()-len(appealText)-1, 1, appealText)
}

// renderDandelions draws each head as a filled disc with its tier color,
// plus a health bar over damaged heads.
func (g *Game) renderDandelions(dst *core.Screen) {
	for _, d := range g.field.Dandelions {
		g.renderHead(dst, d)
	}
}

// renderHead draws one dandelion disc.
func (g *Game) renderHead(dst *core.Screen, d *Dandelion) {
	cx := d.X.ToCellRounded()
	cy := d.Y.ToCellRounded()
	r := d.Size.Radius()
	xr := r.ToCellRounded() + 1
	yr := xr/2 + 1
	body := bodyRune(d.Size)
	color := d.Size.Color()

	for dy := -yr; dy <= yr; dy++ {
		y := cy + dy
		if y < g.lawn.Y || y >= g.lawn.Bottom() {
			continue
		}
		for dx := -xr; dx <= xr; dx++ {
			x := cx + dx
			if x < g.lawn.X || x >= g.lawn.Right() {
				continue
			}
			if withinDist(ToFixed(x), ToFixed(y), d.X, d.Y, r) {
				dst.SetCell(x, y, body, color)
			}
		}
	}

	if d.Size >= SizeMedium && g.lawn.Contains(cx, cy) {
		dst.SetCell(cx, cy, '@', color)
	}

	if d.Health < d.MaxHealth {
		g.renderHealthBar(dst, d, cx, cy-yr-1, xr)
	}
}

// renderHealthBar draws remaining health above a damaged head.
func (g *Game) renderHealthBar(dst *core.Screen, d *Dandelion, cx, y, xr int) {
	if y < g.lawn.Y || y >= g.lawn.Bottom() {
		return
	}
	width := 2*xr + 1
	filled := d.Health * width / d.MaxHealth
	color := d.HealthColor()
	for i := 0; i < width; i++ {
		x := cx - xr + i
		if x < g.lawn.X || x >= g.lawn.Right() {
			continue
		}
		if i < filled {
			dst.SetCell(x, y, glyphBarFull, color)
		} else {
			dst.SetCell(x, y, glyphBarEmpty, core.ColorGray)
		}
	}
}

// renderSeeds draws seed orbs in flight.
func (g *Game) renderSeeds(dst *core.Screen) {
	for _, s := range g.field.Seeds {
		x := s.X.ToCellRounded()
		y := s.Y.ToCellRounded()
		if g.lawn.Contains(x, y) {
			dst.SetCell(x, y, glyphSeed, core.ColorBrightWhite)
		}
	}
}

// renderRabbits draws active rabbits.
func (g *Game) renderRabbits(dst *core.Screen) {
	for _, r := range g.powerups.Rabbits {
		x := r.X.ToCellRounded()
		y := r.Y.ToCellRounded()
		if g.lawn.Contains(x, y) {
			dst.SetCell(x, y, glyphRabbit, core.ColorBrightWhite)
		}
	}
}

// renderFires draws burning patches. Chained fires render darker.
func (g *Game) renderFires(dst *core.Screen) {
	for _, f := range g.powerups.Fires {
		x := f.X.ToCellRounded()
		y := f.Y.ToCellRounded()
		if !g.lawn.Contains(x, y) {
			continue
		}
		color := core.ColorBrightRed
		if f.Generation > 0 {
			color = core.ColorRed
		}
		dst.SetCell(x, y, glyphFire, color)
	}
}

// renderPickups draws waiting power-up pickups as (B), (F), (S).
func (g *Game) renderPickups(dst *core.Screen) {
	for _, p := range g.powerups.Pickups {
		if !p.Active {
			continue
		}
		x := p.X.ToCellRounded()
		y := p.Y.ToCellRounded()
		if !g.lawn.Contains(x, y) {
			continue
		}
		dst.SetCell(x, y, p.Type.Glyph(), core.ColorBrightCyan)
		if g.lawn.Contains(x-1, y) {
			dst.SetCell(x-1, y, '(', core.ColorCyan)
		}
		if g.lawn.Contains(x+1, y) {
			dst.SetCell(x+1, y, ')', core.ColorCyan)
		}
	}
}

// renderFlashes draws short-lived visual markers.
func (g *Game) renderFlashes(dst *core.Screen) {
	for _, f := range g.flashes {
		x := f.X.ToCellRounded()
		y := f.Y.ToCellRounded()
		if g.lawn.Contains(x, y) {
			dst.SetCell(x, y, f.Rune, f.Color)
		}
	}
}

// renderCursor draws the crosshair on top of everything in the lawn.
func (g *Game) renderCursor(dst *core.Screen) {
	x := g.cursorX.ToCellRounded()
	y := g.cursorY.ToCellRounded()
	if !g.lawn.Contains(x, y) {
		return
	}
	if g.powerups.HasEffect(EffectScythe, g.tickCount) {
		dst.SetCell(x, y, glyphScythe, core.ColorBrightCyan)
		return
	}
	dst.SetCell(x, y, glyphCursor, core.ColorBrightWhite)
}

// renderStatus draws the control hints on the bottom row.
func (g *Game) renderStatus(dst *core.Screen) {
	hints := "[wasd/mouse] aim  [space/click] strike  [p]ause  [q]uit"
	if g.state == StateComplete || g.state == StateFailed {
		hints = "[r]estart  [esc] menu  [q]uit"
	}
	dst.DrawTextColored(1, dst.Height()-1, hints, core.ColorGray)
}

// renderOverlay draws pause and end-of-run message boxes.
func (g *Game) renderOverlay(dst *core.Screen) {
	switch g.state {
	case StatePaused:
		g.drawCenteredBox(dst, "PAUSED", "", "Press P to resume")

	case StateComplete:
		stars := fmt.Sprintf("Stars: %s", starRow(g.outcome.Stars))
		subtitle := fmt.Sprintf("Score %d in %s  |  Press R to replay", g.score, fmtTime(g.outcome.TimeSecs))
		g.drawCenteredBox(dst, "LEVEL COMPLETE!", stars, subtitle)

	case StateFailed:
		if g.mode == ModeCampaign && g.level != nil {
			subtitle := fmt.Sprintf("Score %d/%d  |  Press R to retry", g.score, g.level.TargetPoints)
			g.drawCenteredBox(dst, "TIME'S UP", "", subtitle)
		} else {
			subtitle := fmt.Sprintf("Final Score: %d  |  Press R to restart", g.score)
			g.drawCenteredBox(dst, "LAWN OVERRUN", "", subtitle)
		}
	}
}

// drawCenteredBox draws a centered message box with up to three lines.
func (g *Game) drawCenteredBox(dst *core.Screen, title, middle, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(core.Max(len(title), len(middle)), len(subtitle)) + 4
	boxH := 5
	if middle != "" {
		boxH = 7
	}
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	row := boxY + 1
	dst.DrawText(boxX+(boxW-len(title))/2, row, title)
	if middle != "" {
		row += 2
		dst.DrawTextColored(boxX+(boxW-len(middle))/2, row, middle, core.ColorBrightYellow)
	}
	row += 2
	dst.DrawText(boxX+(boxW-len(subtitle))/2, row, subtitle)
}

// bodyRune returns the disc fill rune for a tier.
func bodyRune(s Size) rune {
	switch s {
	case SizeTiny:
		return '*'
	case SizeSmall, SizeMedium:
		return 'o'
	default:
		return 'O'
	}
}

// starRow formats an earned-star count as "* * *" with dashes for the rest.
func starRow(stars int) string {
	out := ""
	for i := 0; i < 3; i++ {
		if i > 0 {
			out += " "
		}
		if i < stars {
			out += "*"
		} else {
			out += "-"
		}
	}
	return out
}

// truncate shortens a string to at most n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// fmtTime formats seconds as m:ss.
func fmtTime(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
