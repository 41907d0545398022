package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaizoquest/kaizoquest/internal/game/align"
	"github.com/kaizoquest/kaizoquest/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name already used by the account.
var ErrCharacterNameTaken = errors.New("character name already taken")

// StoredCharacter wraps a game character with its database identity.
type StoredCharacter struct {
	ID        int64
	AccountID int64
	Character *character.Character
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, account_id, name,
	species_name, species_bst, species_alignment,
	ratio_health, ratio_attack, ratio_defense, ratio_speed,
	level, experience,
	stat_health, stat_attack, stat_defense, stat_speed,
	actions, current_health, current_alignment, statuses,
	created_at, updated_at`

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: accountID must reference an existing account; c.Name must be non-empty.
// Postcondition: Returns the stored character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, accountID int64, c *character.Character) (StoredCharacter, error) {
	statuses, err := encodeStatuses(c.State.Statuses)
	if err != nil {
		return StoredCharacter{}, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(account_id, name,
			 species_name, species_bst, species_alignment,
			 ratio_health, ratio_attack, ratio_defense, ratio_speed,
			 level, experience,
			 stat_health, stat_attack, stat_defense, stat_speed,
			 actions, current_health, current_alignment, statuses)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING `+characterColumns,
		accountID, c.Name,
		c.Species.Name, c.Species.BST, c.Species.Alignment.String(),
		c.Species.BaseStats.Health, c.Species.BaseStats.Attack,
		c.Species.BaseStats.Defense, c.Species.BaseStats.Speed,
		c.Attributes.Level, c.Attributes.Experience,
		c.Attributes.Stats.Health, c.Attributes.Stats.Attack,
		c.Attributes.Stats.Defense, c.Attributes.Stats.Speed,
		encodeActions(c.Attributes.Actions),
		c.State.Health, c.State.Alignment.String(), statuses,
	)

	stored, err := scanStoredCharacter(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return StoredCharacter{}, ErrCharacterNameTaken
		}
		return StoredCharacter{}, fmt.Errorf("inserting character: %w", err)
	}
	return stored, nil
}

// ListByAccount returns all characters for the given account ID, ordered by created_at.
//
// Precondition: accountID must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByAccount(ctx context.Context, accountID int64) ([]StoredCharacter, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1 ORDER BY created_at ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]StoredCharacter, 0)
	for rows.Next() {
		stored, err := scanStoredCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, stored)
	}
	return chars, rows.Err()
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the stored character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (StoredCharacter, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`,
		id,
	)
	stored, err := scanStoredCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StoredCharacter{}, ErrCharacterNotFound
		}
		return StoredCharacter{}, fmt.Errorf("querying character: %w", err)
	}
	return stored, nil
}

// SaveProgress persists a character's growth and battle state after a session.
// The species columns never change once a character exists.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveProgress(ctx context.Context, id int64, c *character.Character) error {
	statuses, err := encodeStatuses(c.State.Statuses)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			level = $2, experience = $3,
			stat_health = $4, stat_attack = $5, stat_defense = $6, stat_speed = $7,
			actions = $8, current_health = $9, current_alignment = $10, statuses = $11,
			updated_at = NOW()
		WHERE id = $1`,
		id,
		c.Attributes.Level, c.Attributes.Experience,
		c.Attributes.Stats.Health, c.Attributes.Stats.Attack,
		c.Attributes.Stats.Defense, c.Attributes.Stats.Speed,
		encodeActions(c.Attributes.Actions),
		c.State.Health, c.State.Alignment.String(), statuses,
	)
	if err != nil {
		return fmt.Errorf("saving character progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes a character permanently. Used when a defeated player rolls a
// fresh creature.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStoredCharacter(row scanner) (StoredCharacter, error) {
	var (
		stored           StoredCharacter
		c                character.Character
		speciesAlignment string
		currentAlignment string
		actions          []int32
		statuses         []byte
	)

	err := row.Scan(
		&stored.ID, &stored.AccountID, &c.Name,
		&c.Species.Name, &c.Species.BST, &speciesAlignment,
		&c.Species.BaseStats.Health, &c.Species.BaseStats.Attack,
		&c.Species.BaseStats.Defense, &c.Species.BaseStats.Speed,
		&c.Attributes.Level, &c.Attributes.Experience,
		&c.Attributes.Stats.Health, &c.Attributes.Stats.Attack,
		&c.Attributes.Stats.Defense, &c.Attributes.Stats.Speed,
		&actions, &c.State.Health, &currentAlignment, &statuses,
		&stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return StoredCharacter{}, err
	}

	if c.Species.Alignment, err = parseAlignment(speciesAlignment); err != nil {
		return StoredCharacter{}, err
	}
	if c.State.Alignment, err = parseAlignment(currentAlignment); err != nil {
		return StoredCharacter{}, err
	}
	c.Attributes.Actions = decodeActions(actions)
	if c.State.Statuses, err = decodeStatuses(statuses); err != nil {
		return StoredCharacter{}, err
	}

	stored.Character = &c
	return stored, nil
}

func parseAlignment(name string) (align.Alignment, error) {
	a, ok := align.Parse(name)
	if !ok {
		return 0, fmt.Errorf("stored alignment %q is not recognised", name)
	}
	return a, nil
}

func encodeActions(ids []character.ActionID) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = int32(id)
	}
	return out
}

func decodeActions(ids []int32) []character.ActionID {
	out := make([]character.ActionID, len(ids))
	for i, id := range ids {
		out[i] = character.ActionID(id)
	}
	return out
}

func encodeStatuses(statuses map[character.Status]int) ([]byte, error) {
	named := make(map[string]int, len(statuses))
	for s, intensity := range statuses {
		named[s.String()] = intensity
	}
	data, err := json.Marshal(named)
	if err != nil {
		return nil, fmt.Errorf("encoding statuses: %w", err)
	}
	return data, nil
}

func decodeStatuses(data []byte) (map[character.Status]int, error) {
	named := make(map[string]int)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &named); err != nil {
			return nil, fmt.Errorf("decoding statuses: %w", err)
		}
	}
	statuses := make(map[character.Status]int, len(named))
	for name, intensity := range named {
		s, ok := character.ParseStatus(name)
		if !ok {
			return nil, fmt.Errorf("stored status %q is not recognised", name)
		}
		statuses[s] = intensity
	}
	return statuses, nil
}
