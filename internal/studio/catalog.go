package studio

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Package is a purchasable bundle of credits.
type Package struct {
	ID      string
	Name    string
	Price   decimal.Decimal
	Credits int64
	Badge   string
}

var catalog = []Package{
	{ID: "p1", Name: "Starter", Price: decimal.NewFromInt(5), Credits: 50},
	{ID: "p2", Name: "Producer", Price: decimal.NewFromInt(15), Credits: 200, Badge: "Popular"},
	{ID: "p3", Name: "Cinematic", Price: decimal.NewFromInt(40), Credits: 1000},
}

// Catalog lists the credit packages on sale, cheapest first.
func Catalog() []Package {
	out := make([]Package, len(catalog))
	copy(out, catalog)
	return out
}

// FindPackage resolves a package by id or case-insensitive name.
func FindPackage(ref string) (Package, bool) {
	ref = strings.TrimSpace(ref)
	for _, p := range catalog {
		if p.ID == ref || strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return Package{}, false
}

// Voices are the speech voices a synthesizer is expected to offer.
var voices = []string{"Kore", "Puck", "Charon", "Fenrir", "Zephyr"}

// Voices returns the supported voice identifiers.
func Voices() []string {
	out := make([]string, len(voices))
	copy(out, voices)
	return out
}

func resolveVoice(voice string) (string, bool) {
	for _, v := range voices {
		if strings.EqualFold(v, strings.TrimSpace(voice)) {
			return v, true
		}
	}
	return "", false
}
