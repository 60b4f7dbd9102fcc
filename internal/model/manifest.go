package model

import (
	"bytes"
	"encoding/json"
)

// ManifestIndent matches the indentation the launcher's manifests use
const ManifestIndent = "    "

// Package describes one distributable archive. Fields are declared in key
// order so the encoded JSON keys are sorted.
type Package struct {
	Checksum    string      `json:"checksum"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Version     json.Number `json:"version"`
}

// Manifest lists every package of a release
type Manifest struct {
	Name     string             `json:"name"`
	Packages map[string]Package `json:"packages"`
	Version  json.Number        `json:"version"`
}

// NewManifest creates an empty manifest for a release
func NewManifest(name string, version Version) *Manifest {
	return &Manifest{
		Name:     name,
		Packages: make(map[string]Package),
		Version:  json.Number(version.Float()),
	}
}

// Encode renders the manifest as indented JSON with sorted keys
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", ManifestIndent)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
