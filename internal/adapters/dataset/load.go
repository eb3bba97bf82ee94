package dataset

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/combine/internal/domain/identity"
	"github.com/okian/combine/internal/domain/model"
)

// Dataset is the joined, immutable result of a load.
type Dataset struct {
	Records []model.Record
	// Players is the number of metadata rows read.
	Players int
	// Portraits is the number of records that received a portrait reference.
	Portraits int
	Duration  time.Duration
}

// ParseCombine decodes a combine table from CSV.
func ParseCombine(r io.Reader) ([]model.Record, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return decodeRecords(t)
}

// ParsePlayers decodes a player metadata table from CSV.
func ParsePlayers(r io.Reader) ([]Player, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return decodePlayers(t)
}

// LoadCombine reads the combine table from a CSV file or SQLite snapshot.
func LoadCombine(ctx context.Context, path string) ([]model.Record, error) {
	t, err := readSource(ctx, path, CombineTable)
	if err != nil {
		return nil, err
	}
	recs, err := decodeRecords(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return recs, nil
}

// LoadPlayers reads the player metadata table from a CSV file or SQLite snapshot.
func LoadPlayers(ctx context.Context, path string) ([]Player, error) {
	t, err := readSource(ctx, path, PlayersTable)
	if err != nil {
		return nil, err
	}
	players, err := decodePlayers(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return players, nil
}

// Join attaches portrait references to records by normalized name. It is a
// left join: unmatched records keep an empty portrait. When several metadata
// rows share a normalized name the first one wins. It returns the number of
// records that received a non-empty reference.
func Join(records []model.Record, players []Player) int {
	ix := identity.NewIndex[string](len(players))
	for _, p := range players {
		ix.SeenAndRecord(p.Name, p.Portrait)
	}
	joined := 0
	for i := range records {
		portrait, ok := ix.Lookup(records[i].Player)
		if !ok {
			continue
		}
		records[i].Portrait = portrait
		if portrait != "" {
			joined++
		}
	}
	return joined
}

// LoadAll reads both tables concurrently and joins them. Either table failing
// to load fails the whole load.
func LoadAll(ctx context.Context, combinePath, playersPath string) (Dataset, error) {
	start := time.Now()

	var (
		records []model.Record
		players []Player
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = LoadCombine(gctx, combinePath)
		return err
	})
	g.Go(func() error {
		var err error
		players, err = LoadPlayers(gctx, playersPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}

	joined := Join(records, players)
	return Dataset{
		Records:   records,
		Players:   len(players),
		Portraits: joined,
		Duration:  time.Since(start),
	}, nil
}
