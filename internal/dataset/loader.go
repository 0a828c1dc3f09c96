// Package dataset loads the archetype knowledge base from yaml files:
// the signature-card index, the sprite combination table, and the alias
// table. The files are curated by hand, so loading is strict about
// structure but tolerant of omissions: any file may be absent and yields
// an empty index.
package dataset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deckwatch/deckwatch/internal/archetype"
	"github.com/deckwatch/deckwatch/internal/signature"
	"github.com/deckwatch/deckwatch/internal/sprite"
)

// Paths locates the three index files.
type Paths struct {
	Signatures string
	Sprites    string
	Aliases    string
}

// Bundle is one loaded, immutable set of indices. A bundle is shared
// read-only across resolution workers; reloading builds a fresh bundle
// rather than mutating a live one.
type Bundle struct {
	Signatures *signature.Index
	Sprites    *sprite.Index
	Aliases    *archetype.AliasTable
}

// ResolverConfig assembles the archetype resolver configuration from the
// bundle.
func (b *Bundle) ResolverConfig(workers int, translator signature.Translator) archetype.Config {
	return archetype.Config{
		Sprites:    b.Sprites,
		Signatures: b.Signatures,
		Aliases:    b.Aliases,
		Translator: translator,
		Workers:    workers,
	}
}

// Load reads all three index files. Missing files are not errors; a
// malformed file is.
func Load(paths Paths) (*Bundle, error) {
	signatures, err := LoadSignatureIndex(paths.Signatures)
	if err != nil {
		return nil, err
	}
	sprites, err := LoadSpriteIndex(paths.Sprites)
	if err != nil {
		return nil, err
	}
	aliases, err := LoadAliasTable(paths.Aliases)
	if err != nil {
		return nil, err
	}
	return &Bundle{Signatures: signatures, Sprites: sprites, Aliases: aliases}, nil
}

// signatureFile is the on-disk shape of the signature index. Archetype
// declaration order is meaningful: it decides ties between archetypes
// with equal signature quantity.
type signatureFile struct {
	Archetypes []struct {
		Name  string   `yaml:"name"`
		Cards []string `yaml:"cards"`
	} `yaml:"archetypes"`
}

// LoadSignatureIndex reads the signature-card index file.
func LoadSignatureIndex(path string) (*signature.Index, error) {
	index := signature.NewIndex()

	var file signatureFile
	ok, err := readYAML(path, &file)
	if err != nil || !ok {
		return index, err
	}

	for _, a := range file.Archetypes {
		if a.Name == "" {
			return nil, fmt.Errorf("signature index %s: archetype with empty name", path)
		}
		for _, card := range a.Cards {
			index.Add(card, a.Name)
		}
	}
	return index, nil
}

type spriteFile struct {
	Combos []struct {
		Archetype  string   `yaml:"archetype"`
		Sprites    []string `yaml:"sprites"`
		Confidence float64  `yaml:"confidence"`
	} `yaml:"combos"`
	Names map[string]string `yaml:"names"`
	Art   map[string]string `yaml:"art"`
}

// LoadSpriteIndex reads the sprite combination table and per-sprite
// display names.
func LoadSpriteIndex(path string) (*sprite.Index, error) {
	index := sprite.NewIndex()

	var file spriteFile
	ok, err := readYAML(path, &file)
	if err != nil || !ok {
		return index, err
	}

	for _, c := range file.Combos {
		if c.Archetype == "" || len(c.Sprites) == 0 {
			return nil, fmt.Errorf("sprite index %s: combo needs an archetype and at least one sprite", path)
		}
		index.AddCombo(c.Sprites, c.Archetype, c.Confidence)
	}
	for token, display := range file.Names {
		index.AddName(token, display)
	}
	for archetype, url := range file.Art {
		index.AddArt(archetype, url)
	}
	return index, nil
}

type aliasFile struct {
	Aliases []struct {
		Canonical string   `yaml:"canonical"`
		Labels    []string `yaml:"labels"`
	} `yaml:"aliases"`
}

// LoadAliasTable reads the archetype alias table.
func LoadAliasTable(path string) (*archetype.AliasTable, error) {
	table := archetype.NewAliasTable()

	var file aliasFile
	ok, err := readYAML(path, &file)
	if err != nil || !ok {
		return table, err
	}

	for _, a := range file.Aliases {
		if a.Canonical == "" {
			return nil, fmt.Errorf("alias table %s: entry with empty canonical name", path)
		}
		// Register the canonical spelling even when no labels are listed.
		table.Add(a.Canonical, a.Canonical)
		for _, label := range a.Labels {
			table.Add(label, a.Canonical)
		}
	}
	return table, nil
}

// readYAML decodes path into out. Returns (false, nil) when the file does
// not exist.
func readYAML(path string, out any) (bool, error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}
