package repositories

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/models"
	"github.com/myrjola/dvdcluedo/internal/session"
	"log/slog"
	"strconv"
)

// Preference keys. Counters and flags are stored as integers, with 1 meaning true.
const (
	keyValidSave     = "ValidSaveData"
	keyCase          = "Case"
	keyNextPassage   = "NextPassage"
	keyNextEvent     = "NextEvent"
	keyNextButler    = "NextButler"
	keyNextSetup     = "NextSetup"
	keyNotes         = "Notes"
	keyRooms         = "Rooms"
	keySecretPassage = "EnableSP"
	keySummonButler  = "EnableSB"
	keyItemCard      = "EnableIC"
	keyInspectorNote = "EnableIN"

	keySpeed     = "Speed"
	keyVolume    = "Volume"
	keyMenuMusic = "MenuMusic"
	keySubtitles = "Subtitles"
	keyHighlight = "Highlight"
)

// PlayerPrefs is the save slot and settings of one player.
type PlayerPrefs struct {
	values   *PlayerValueRepository
	playerID string
	logger   *slog.Logger
}

// ForPlayer binds the repository to one player.
func (r *PlayerValueRepository) ForPlayer(playerID string) *PlayerPrefs {
	return &PlayerPrefs{values: r, playerID: playerID, logger: r.logger}
}

func (p *PlayerPrefs) Save(ctx context.Context, data session.SaveData) error {
	values := map[string]string{
		keyValidSave:     formatBool(true),
		keyCase:          strconv.Itoa(data.Case),
		keyNextPassage:   strconv.Itoa(data.NextPassage),
		keyNextEvent:     strconv.Itoa(data.NextEvent),
		keyNextButler:    strconv.Itoa(data.NextButler),
		keyNextSetup:     strconv.Itoa(data.NextSetup),
		keyNotes:         strconv.Itoa(data.Notes),
		keyRooms:         strconv.Itoa(data.Rooms),
		keySecretPassage: formatBool(data.SecretPassage),
		keySummonButler:  formatBool(data.SummonButler),
		keyItemCard:      formatBool(data.ItemCard),
		keyInspectorNote: formatBool(data.InspectorNote),
	}
	if err := p.values.Set(ctx, p.playerID, values); err != nil {
		return errors.Wrap(err, "save game")
	}
	return nil
}

// Load returns the saved snapshot or nil if there is no valid save.
func (p *PlayerPrefs) Load(ctx context.Context) (*session.SaveData, error) {
	values, err := p.values.Get(ctx, p.playerID)
	if err != nil {
		return nil, errors.Wrap(err, "load game")
	}
	r := prefReader{values: values, bad: nil}
	if !r.boolValue(keyValidSave, false) {
		return nil, nil //nolint:nilnil // absent save is not an error
	}
	data := session.SaveData{
		Case:        r.intValue(keyCase),
		NextPassage: r.intValue(keyNextPassage),
		NextEvent:   r.intValue(keyNextEvent),
		NextButler:  r.intValue(keyNextButler),
		NextSetup:   r.intValue(keyNextSetup),
		Notes:       r.intValue(keyNotes),
		Rooms:       r.intValue(keyRooms),
		Flags: models.Flags{
			SecretPassage: r.boolValue(keySecretPassage, false),
			SummonButler:  r.boolValue(keySummonButler, false),
			ItemCard:      r.boolValue(keyItemCard, false),
			InspectorNote: r.boolValue(keyInspectorNote, false),
		},
	}
	r.logMalformed(ctx, p.logger, p.playerID)
	return &data, nil
}

func (p *PlayerPrefs) HasSave(ctx context.Context) (bool, error) {
	values, err := p.values.Get(ctx, p.playerID)
	if err != nil {
		return false, errors.Wrap(err, "check save")
	}
	r := prefReader{values: values, bad: nil}
	return r.boolValue(keyValidSave, false), nil
}

// Invalidate clears the valid flag. The counters stay but are never loaded again.
func (p *PlayerPrefs) Invalidate(ctx context.Context) error {
	if err := p.values.Set(ctx, p.playerID, map[string]string{keyValidSave: formatBool(false)}); err != nil {
		return errors.Wrap(err, "invalidate save")
	}
	return nil
}

// LoadSettings returns the stored settings, falling back to the defaults key by key.
func (p *PlayerPrefs) LoadSettings(ctx context.Context) (session.Settings, error) {
	values, err := p.values.Get(ctx, p.playerID)
	if err != nil {
		return session.Settings{}, errors.Wrap(err, "load settings")
	}
	d := session.DefaultSettings()
	r := prefReader{values: values, bad: nil}
	s := session.Settings{
		Speed:     r.floatValue(keySpeed, d.Speed),
		Volume:    r.floatValue(keyVolume, d.Volume),
		MenuMusic: r.boolValue(keyMenuMusic, d.MenuMusic),
		Subtitles: r.boolValue(keySubtitles, d.Subtitles),
		Highlight: r.boolValue(keyHighlight, d.Highlight),
	}
	r.logMalformed(ctx, p.logger, p.playerID)
	return s.Normalized(), nil
}

func (p *PlayerPrefs) SaveSettings(ctx context.Context, s session.Settings) error {
	values := map[string]string{
		keySpeed:     strconv.FormatFloat(s.Speed, 'f', -1, 64),
		keyVolume:    strconv.FormatFloat(s.Volume, 'f', -1, 64),
		keyMenuMusic: formatBool(s.MenuMusic),
		keySubtitles: formatBool(s.Subtitles),
		keyHighlight: formatBool(s.Highlight),
	}
	if err := p.values.Set(ctx, p.playerID, values); err != nil {
		return errors.Wrap(err, "save settings")
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// prefReader parses stored values leniently. Missing or malformed values fall back and are remembered for logging.
type prefReader struct {
	values map[string]string
	bad    []string
}

func (r *prefReader) intValue(key string) int {
	raw, ok := r.values[key]
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.bad = append(r.bad, key)
		return 0
	}
	return v
}

func (r *prefReader) boolValue(key string, fallback bool) bool {
	raw, ok := r.values[key]
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.bad = append(r.bad, key)
		return fallback
	}
	return v == 1
}

func (r *prefReader) floatValue(key string, fallback float64) float64 {
	raw, ok := r.values[key]
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.bad = append(r.bad, key)
		return fallback
	}
	return v
}

func (r *prefReader) logMalformed(ctx context.Context, logger *slog.Logger, playerID string) {
	if len(r.bad) == 0 {
		return
	}
	logger.LogAttrs(ctx, slog.LevelWarn, "ignored malformed preferences",
		slog.String("player_id", playerID), slog.Any("keys", r.bad))
}
