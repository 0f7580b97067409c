// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "encoding/json"

// SuraMeta is the metadata record for one sura in the embedded dataset.
type SuraMeta struct {
	// NameAr is the sura name in Arabic script.
	NameAr string `json:"name_ar" yaml:"name_ar"`

	// NameEn is the transliterated sura name.
	NameEn string `json:"name_en" yaml:"name_en"`
}

// SuraText is one entry of the dataset's text section. Entries keep the
// order in which their keys appeared in the source.
type SuraText struct {
	// Key is the identifier exactly as written in the source (e.g. "1").
	Key string

	// Verses is the verse array, kept verbatim.
	Verses json.RawMessage
}

// Dataset is the decoded WARSH_DATA object.
type Dataset struct {
	// Meta maps identifier keys to sura metadata.
	Meta map[string]SuraMeta

	// Text holds the verse arrays in source order.
	Text []SuraText
}

// Sura is the per-sura output record written to <key>.json.
type Sura struct {
	// Key is the source identifier used to name the output file.
	Key string `json:"-" yaml:"-"`

	ID     int             `json:"id" yaml:"id"`
	NameAr string          `json:"name_ar" yaml:"name_ar"`
	NameEn string          `json:"name_en" yaml:"name_en"`
	Verses json.RawMessage `json:"verses" yaml:"-"`
}

// SuraIndexEntry is one row of the optional table of contents.
type SuraIndexEntry struct {
	ID         int    `json:"id" yaml:"id"`
	NameAr     string `json:"name_ar" yaml:"name_ar"`
	NameEn     string `json:"name_en" yaml:"name_en"`
	VerseCount int    `json:"verse_count" yaml:"verse_count"`
}
