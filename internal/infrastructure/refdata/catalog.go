package refdata

import (
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

const (
	heroesFile    = "heroes.json"
	itemsFile     = "items.json"
	abilitiesFile = "abilities.json"
	manifestFile  = "meta.json"
)

var catalogFiles = [...]string{heroesFile, itemsFile, abilitiesFile}

// Manifest describes the catalog version published next to the catalog files.
type Manifest struct {
	Version string `json:"version" validate:"required,max=128"`
}

type heroRecord struct {
	Name string `json:"hero_name"`
}

type itemRecord struct {
	Name    string   `json:"item_name"`
	Cost    int64    `json:"item_cost"`
	Aliases []string `json:"item_aliases"`
}

type abilityRecord struct {
	Name string `json:"ability_name"`
}

// Catalog is an immutable snapshot of the reference files, keyed by stringified id.
type Catalog struct {
	Manifest  Manifest
	heroes    map[string]heroRecord
	items     map[string]itemRecord
	abilities map[string]abilityRecord
}

func emptyCatalog() *Catalog {
	return &Catalog{
		heroes:    map[string]heroRecord{},
		items:     map[string]itemRecord{},
		abilities: map[string]abilityRecord{},
	}
}

func (c *Catalog) Counts() (heroes, items, abilities int) {
	return len(c.heroes), len(c.items), len(c.abilities)
}

// decodeInto fills the catalog map that belongs to file. A nil body leaves it empty.
func (c *Catalog) decodeInto(file string, body []byte) error {
	if len(body) == 0 {
		return nil
	}
	var err error
	switch file {
	case heroesFile:
		err = sonic.Unmarshal(body, &c.heroes)
	case itemsFile:
		err = sonic.Unmarshal(body, &c.items)
	case abilitiesFile:
		err = sonic.Unmarshal(body, &c.abilities)
	default:
		return crerr.Newf("unknown catalog file %q", file)
	}
	if err != nil {
		return crerr.Wrapf(err, "decode %s", file)
	}
	return nil
}
