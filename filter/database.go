package filter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"
)

// Item is a tagged entry in a [Database].
type Item struct {
	File        string   `json:"file"                  yaml:"file"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags"                  yaml:"tags,flow"`
}

// Database is an ordered collection of items with tag implications.
type Database struct {
	// Implies maps a tag to the tags it implies. An item tagged "kitten"
	// where Implies["kitten"] = ["cat"] also matches the query "cat".
	// Implications are transitive and may be cyclic.
	Implies map[string][]string `json:"implies,omitempty" yaml:"implies,omitempty"`
	Items   []Item              `json:"items"             yaml:"items"`
}

// DefaultDatabase returns the built-in sample database.
func DefaultDatabase() *Database {
	return &Database{
		Items: []Item{
			{"cat_hat.jpg", "A cat with a hat", []string{"cat", "hat"}},
			{"cat_dog.jpg", "A cat with a dog", []string{"cat", "dog"}},
			{"dog_hat.jpg", "A dog with a hat", []string{"hat", "dog"}},
			{"cat_dog_hats.jpg", "A cat and dog wearing hats", []string{"cat", "dog", "hat"}},
			{"cat_dog_foresthats.png", "A cat and dog wearing hats in a forest", []string{"cat", "dog", "hat", "forest"}},
			{"forestcat.gif", "A cat in a forest", []string{"cat", "forest"}},
			{"doginaforest.jpg", "A dog in a forest", []string{"dog", "forest"}},
			{"newimage.png", "Some new image that hasn't been tagged yet", []string{}},
		},
	}
}

// LoadDatabase decodes a YAML database from r. An empty document yields an
// empty database.
func LoadDatabase(ctx context.Context, r io.Reader) (*Database, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	var db Database

	err := yaml.NewDecoder(ra, yaml.DisallowUnknownField()).DecodeContext(ctx, &db)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrLoadDatabase.Wrap(err)
	}

	for i := range db.Items {
		if db.Items[i].Tags == nil {
			db.Items[i].Tags = []string{}
		}
	}

	return &db, nil
}

// LoadDatabaseFile decodes the YAML database stored at path.
func LoadDatabaseFile(ctx context.Context, path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoadDatabase.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	db, err := LoadDatabase(ctx, f)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			return nil, fe.With(slog.String("path", path))
		}

		return nil, err
	}

	return db, nil
}

// Merge returns a database holding the items of every database in order,
// with the union of their implications.
func Merge(dbs ...*Database) *Database {
	merged := &Database{Items: []Item{}}

	for _, db := range dbs {
		if db == nil {
			continue
		}

		merged.Items = append(merged.Items, db.Items...)

		for tag, implied := range db.Implies {
			if merged.Implies == nil {
				merged.Implies = make(map[string][]string)
			}

			for _, t := range implied {
				if !slices.Contains(merged.Implies[tag], t) {
					merged.Implies[tag] = append(merged.Implies[tag], t)
				}
			}
		}
	}

	return merged
}

// Tags returns every distinct tag used by an item or named by an
// implication, sorted.
func (db *Database) Tags() []string {
	set := make(map[string]struct{})

	for _, item := range db.Items {
		for _, tag := range item.Tags {
			set[tag] = struct{}{}
		}
	}

	for tag, implied := range db.Implies {
		set[tag] = struct{}{}

		for _, t := range implied {
			set[t] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(set))
}

// Closure returns the set of tags an item carries directly or by
// implication.
func (db *Database) Closure(tags []string) map[string]bool {
	closure := make(map[string]bool, len(tags))
	queue := slices.Clone(tags)

	for len(queue) > 0 {
		tag := queue[0]
		queue = queue[1:]

		if closure[tag] {
			continue
		}

		closure[tag] = true

		queue = append(queue, db.Implies[tag]...)
	}

	return closure
}

// WriteYAML encodes the database as YAML to w.
func (db *Database) WriteYAML(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, db, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}
