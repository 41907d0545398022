package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kaizoquest/kaizoquest/internal/frontend/telnet"
	"github.com/kaizoquest/kaizoquest/internal/game/ai"
	"github.com/kaizoquest/kaizoquest/internal/game/battle"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
	"github.com/kaizoquest/kaizoquest/internal/game/world"
	"github.com/kaizoquest/kaizoquest/internal/storage/postgres"
)

// CharacterStore defines the character persistence operations required by GameHandler.
type CharacterStore interface {
	ListByAccount(ctx context.Context, accountID int64) ([]postgres.StoredCharacter, error)
	Create(ctx context.Context, accountID int64, c *character.Character) (postgres.StoredCharacter, error)
	SaveProgress(ctx context.Context, id int64, c *character.Character) error
	Delete(ctx context.Context, id int64) error
}

// Source produces the random draws a game session needs.
type Source interface {
	Intn(n int) int
}

// GameHandler drives the logged-in game loop: creature upkeep, the main
// menu, and battles against wild creatures.
type GameHandler struct {
	characters    CharacterStore
	world         *world.World
	chooser       ai.Chooser
	src           Source
	startingLevel int
	logger        *zap.Logger
}

// NewGameHandler creates a GameHandler over the given content and stores.
//
// Precondition: all arguments must be non-nil; startingLevel >= 1.
func NewGameHandler(
	characters CharacterStore,
	w *world.World,
	chooser ai.Chooser,
	src Source,
	startingLevel int,
	logger *zap.Logger,
) *GameHandler {
	return &GameHandler{
		characters:    characters,
		world:         w,
		chooser:       chooser,
		src:           src,
		startingLevel: startingLevel,
		logger:        logger,
	}
}

// Play implements SessionGame. It makes sure the account has a creature,
// then runs the main menu until the player quits or the connection drops.
//
// Postcondition: The creature's progress is saved before a clean return.
func (h *GameHandler) Play(ctx context.Context, conn *telnet.Conn, acct postgres.Account) error {
	logger := h.logger.With(
		zap.String("session_id", uuid.NewString()),
		zap.String("username", acct.Username),
	)
	start := time.Now()

	stored, err := h.ensureCreature(ctx, conn, acct.ID)
	if err != nil {
		return err
	}
	logger.Info("creature ready",
		zap.String("creature", stored.Character.Name),
		zap.String("species", stored.Character.Species.Name),
		zap.Int("level", stored.Character.Attributes.Level),
	)

	_ = conn.WriteLine("")
	_ = conn.WriteLine(RenderStatus(stored.Character))

	for {
		select {
		case <-ctx.Done():
			_ = h.saveProgress(ctx, logger, stored)
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Server shutting down. Progress saved."))
			return ctx.Err()
		default:
		}

		if err := conn.WritePrompt(telnet.Colorize(telnet.BrightWhite, "[b]attle  [s]cout  [c]reature  [q]uit > ")); err != nil {
			return fmt.Errorf("writing menu prompt: %w", err)
		}

		line, err := conn.ReadLine()
		if err != nil {
			_ = h.saveProgress(ctx, logger, stored)
			return fmt.Errorf("reading menu input: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "b", "battle":
			stored, err = h.runEncounter(ctx, conn, logger, stored)
			if err != nil {
				return err
			}

		case "s", "scout":
			h.scout(conn, stored.Character)

		case "c", "creature":
			_ = conn.Write([]byte(RenderSheet(stored.Character, h.world.Actions)))

		case "q", "quit":
			if err := h.saveProgress(ctx, logger, stored); err != nil {
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Saving failed. Recent progress may be lost."))
			}
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye!"))
			logger.Info("player quit",
				zap.Duration("session_duration", time.Since(start)),
			)
			return nil

		case "":
			continue

		default:
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Pick one of: b, s, c, q."))
		}
	}
}

// ensureCreature loads the account's creature, rolling a fresh one when the
// account has none.
func (h *GameHandler) ensureCreature(ctx context.Context, conn *telnet.Conn, accountID int64) (postgres.StoredCharacter, error) {
	existing, err := h.characters.ListByAccount(ctx, accountID)
	if err != nil {
		return postgres.StoredCharacter{}, fmt.Errorf("loading creatures: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	return h.rollCreature(ctx, conn, accountID)
}

// rollCreature samples a new creature at the starting level, lets the player
// name it, and persists it.
func (h *GameHandler) rollCreature(ctx context.Context, conn *telnet.Conn, accountID int64) (postgres.StoredCharacter, error) {
	c := h.world.SampleAtLevel(h.startingLevel, h.src)
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen,
		"A wild %s joins you! (level %d, %s-aligned)",
		c.Species.Name, c.Attributes.Level, c.Species.Alignment,
	))

	for {
		if err := conn.WritePrompt(telnet.Colorize(telnet.BrightWhite, "Name your creature: ")); err != nil {
			return postgres.StoredCharacter{}, fmt.Errorf("writing name prompt: %w", err)
		}
		name, err := conn.ReadLine()
		if err != nil {
			return postgres.StoredCharacter{}, fmt.Errorf("reading creature name: %w", err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = c.Species.Name
		}
		if len(name) > 64 {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That name is too long."))
			continue
		}
		c.Name = name

		stored, err := h.characters.Create(ctx, accountID, c)
		if err != nil {
			if errors.Is(err, postgres.ErrCharacterNameTaken) {
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, "You already had a creature by that name. Pick another."))
				continue
			}
			return postgres.StoredCharacter{}, fmt.Errorf("saving creature: %w", err)
		}
		return stored, nil
	}
}

// scout reports a wild creature lurking at the player's level without
// starting a fight.
func (h *GameHandler) scout(conn *telnet.Conn, player *character.Character) {
	wild := h.world.SampleAtLevel(enemyLevel(player), h.src)
	_ = conn.WriteLine(telnet.Colorf(telnet.Cyan,
		"You spot a %s lurking nearby. (level %d, %s-aligned)",
		wild.Species.Name, wild.Attributes.Level, wild.Species.Alignment,
	))
}

// enemyLevel is the level wild creatures spawn at for the given player.
func enemyLevel(player *character.Character) int {
	if player.Attributes.Level < 1 {
		return 1
	}
	return player.Attributes.Level
}

// runEncounter fights one wild creature. Victory and running away both leave
// the creature refreshed and saved; defeat deletes it and rolls a fresh one.
func (h *GameHandler) runEncounter(ctx context.Context, conn *telnet.Conn, logger *zap.Logger, stored postgres.StoredCharacter) (postgres.StoredCharacter, error) {
	enemy := h.world.SampleAtLevel(enemyLevel(stored.Character), h.src)
	enemy.Name = enemy.Species.Name
	_ = conn.WriteLine("")
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightYellow, "%s appeared!", enemy.Name))

	b := battle.New(stored.Character, enemy, h.src)
	outcome, err := h.battleLoop(ctx, conn, b)
	if err != nil {
		_ = h.saveProgress(ctx, logger, stored)
		return stored, err
	}

	switch outcome {
	case battle.Victory:
		stored.Character.Refresh()
		if err := h.saveProgress(ctx, logger, stored); err != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Saving failed. Recent progress may be lost."))
		}
		_ = conn.WriteLine(RenderStatus(stored.Character))
		return stored, nil

	case battle.Defeat:
		logger.Info("creature died",
			zap.String("creature", stored.Character.Name),
			zap.Int("level", stored.Character.Attributes.Level),
		)
		if err := h.characters.Delete(ctx, stored.ID); err != nil {
			logger.Error("deleting dead creature", zap.Error(err))
		}
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "%s is gone.", stored.Character.Name))
		return h.rollCreature(ctx, conn, stored.AccountID)

	default: // ran away
		stored.Character.Refresh()
		if err := h.saveProgress(ctx, logger, stored); err != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Saving failed. Recent progress may be lost."))
		}
		_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "You got away safely."))
		return stored, nil
	}
}

// battleLoop runs rounds until the battle is decided or the player runs.
// A return of InProgress means the player ran away.
func (h *GameHandler) battleLoop(ctx context.Context, conn *telnet.Conn, b *battle.Battle) (battle.State, error) {
	known := b.Player.Attributes.Actions

	for b.State() == battle.InProgress {
		select {
		case <-ctx.Done():
			return battle.InProgress, ctx.Err()
		default:
		}

		_ = conn.WriteLine("")
		_ = conn.WriteLine(RenderBattle(b))
		_ = conn.Write([]byte(RenderMoves(known, h.world.Actions)))

		if err := conn.WritePrompt(telnet.Colorize(telnet.BrightWhite, "move > ")); err != nil {
			return battle.InProgress, fmt.Errorf("writing battle prompt: %w", err)
		}
		line, err := conn.ReadLine()
		if err != nil {
			return battle.InProgress, fmt.Errorf("reading battle input: %w", err)
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		if choice == "r" || choice == "run" {
			return battle.InProgress, nil
		}
		slot, err := strconv.Atoi(choice)
		if err != nil || slot < 1 || slot > len(known) {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Pick a move 1-%d, or r to run.", len(known)))
			continue
		}

		playerAct := h.world.Actions.Get(known[slot-1])
		enemyAct := h.chooser.Choose(b.Enemy, h.world.Actions)

		var logs []string
		if battle.PlayerFirst(playerAct, enemyAct, b.Player, b.Enemy, h.src) {
			logs = append(logs, b.PlayerTurn(playerAct)...)
			logs = append(logs, b.EnemyTurn(enemyAct)...)
		} else {
			logs = append(logs, b.EnemyTurn(enemyAct)...)
			logs = append(logs, b.PlayerTurn(playerAct)...)
		}

		state, endLogs := b.EndTurn()
		logs = append(logs, endLogs...)
		for _, log := range logs {
			_ = conn.WriteLine(log)
		}

		if state != battle.InProgress {
			return state, nil
		}
	}
	return b.State(), nil
}

func (h *GameHandler) saveProgress(ctx context.Context, logger *zap.Logger, stored postgres.StoredCharacter) error {
	if err := h.characters.SaveProgress(ctx, stored.ID, stored.Character); err != nil {
		logger.Error("saving progress",
			zap.Int64("character_id", stored.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// compile-time interface checks
var (
	_ SessionGame           = (*GameHandler)(nil)
	_ CharacterStore        = (*postgres.CharacterRepository)(nil)
	_ AccountStore          = (*postgres.AccountRepository)(nil)
	_ telnet.SessionHandler = (*AuthHandler)(nil)
)
