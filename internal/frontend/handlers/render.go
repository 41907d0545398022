package handlers

import (
	"fmt"
	"strings"

	"github.com/kaizoquest/kaizoquest/internal/frontend/telnet"
	"github.com/kaizoquest/kaizoquest/internal/game/action"
	"github.com/kaizoquest/kaizoquest/internal/game/battle"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
)

// healthBarWidth is the printable width of a rendered health bar.
const healthBarWidth = 20

// RenderStatus renders a one-line summary of a creature.
func RenderStatus(c *character.Character) string {
	return fmt.Sprintf("%s (%s, level %d)  %s  exp %d/%d",
		telnet.Colorize(telnet.Bold, c.Name),
		c.Species.Name,
		c.Attributes.Level,
		renderHealth(c),
		c.Attributes.Experience,
		character.ExperienceToLevel,
	)
}

// RenderSheet renders a multi-line creature sheet including stats and moves.
func RenderSheet(c *character.Character, pool *action.Pool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\r\n", telnet.Colorf(telnet.Bold+telnet.BrightCyan, "%s", c.Name))
	fmt.Fprintf(&sb, "  Species:    %s (BST %d)\r\n", c.Species.Name, c.Species.BST)
	fmt.Fprintf(&sb, "  Alignment:  %s\r\n", c.State.Alignment)
	fmt.Fprintf(&sb, "  Level:      %d  (exp %d/%d)\r\n",
		c.Attributes.Level, c.Attributes.Experience, character.ExperienceToLevel)
	fmt.Fprintf(&sb, "  Health:     %d/%d\r\n", c.State.Health, c.Attributes.Stats.Health)
	fmt.Fprintf(&sb, "  Attack:     %d\r\n", c.Attributes.Stats.Attack)
	fmt.Fprintf(&sb, "  Defense:    %d\r\n", c.Attributes.Stats.Defense)
	fmt.Fprintf(&sb, "  Speed:      %d\r\n", c.Attributes.Stats.Speed)
	sb.WriteString("  Moves:\r\n")
	for _, id := range c.Attributes.Actions {
		act := pool.Get(id)
		fmt.Fprintf(&sb, "    %-16s %s\r\n", act.Name(), act.Description())
	}
	return sb.String()
}

// RenderBattle renders both combatants' health for a battle round.
func RenderBattle(b *battle.Battle) string {
	return fmt.Sprintf("%s   vs   %s",
		renderCombatant(b.Player),
		renderCombatant(b.Enemy),
	)
}

// RenderMoves renders the player's numbered move list plus the run option.
func RenderMoves(known []character.ActionID, pool *action.Pool) string {
	var sb strings.Builder
	for i, id := range known {
		act := pool.Get(id)
		fmt.Fprintf(&sb, "  %d) %-16s %s\r\n",
			i+1, act.Name(), act.Description())
	}
	sb.WriteString("  r) Run away\r\n")
	return sb.String()
}

func renderCombatant(c *character.Character) string {
	status := ""
	if tags := renderStatuses(c); tags != "" {
		status = " " + tags
	}
	return fmt.Sprintf("%s %s%s", telnet.Colorize(telnet.Bold, c.Name), renderHealth(c), status)
}

func renderHealth(c *character.Character) string {
	maxHealth := c.Attributes.Stats.Health
	color := telnet.BrightGreen
	if maxHealth > 0 {
		switch {
		case c.State.Health*4 <= maxHealth:
			color = telnet.BrightRed
		case c.State.Health*2 <= maxHealth:
			color = telnet.BrightYellow
		}
	}

	filled := 0
	if maxHealth > 0 {
		filled = c.State.Health * healthBarWidth / maxHealth
	}
	if filled > healthBarWidth {
		filled = healthBarWidth
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", healthBarWidth-filled)
	return fmt.Sprintf("[%s] %d/%d", telnet.Colorize(color, bar), c.State.Health, maxHealth)
}

func renderStatuses(c *character.Character) string {
	var tags []string
	for _, s := range []character.Status{character.StatusDefend, character.StatusBleed, character.StatusStun} {
		if !c.HasStatus(s) {
			continue
		}
		if intensity := c.StatusIntensity(s); intensity > 0 {
			tags = append(tags, fmt.Sprintf("%s(%d)", s, intensity))
		} else {
			tags = append(tags, s.String())
		}
	}
	if len(tags) == 0 {
		return ""
	}
	return telnet.Colorize(telnet.Magenta, "<"+strings.Join(tags, " ")+">")
}
