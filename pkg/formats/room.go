// Package formats provides parsers for tilecraft file formats.
// Room files describe a scene as a list of named triangle meshes in YAML.
package formats

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Room format errors.
var (
	ErrEmptyRoom         = errors.New("room has no meshes")
	ErrMissingMeshName   = errors.New("mesh has no name")
	ErrDuplicateMesh     = errors.New("duplicate mesh name")
	ErrIndexCount        = errors.New("index count is not a multiple of 3")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrNormalCount       = errors.New("normal count does not match position count")
	ErrTruncatedVertices = errors.New("non-indexed vertex count is not a multiple of 3")
)

// Room is a parsed room file.
type Room struct {
	Name   string     `yaml:"name"`
	Units  string     `yaml:"units"` // Model units, "m" when empty
	Meshes []RoomMesh `yaml:"meshes"`
}

// RoomMesh is one named mesh with optional normals and indices.
type RoomMesh struct {
	Name          string       `yaml:"name"`
	Positions     [][3]float32 `yaml:"positions"`
	Normals       [][3]float32 `yaml:"normals,omitempty"`
	Indices       []uint32     `yaml:"indices,omitempty"`
	Position      [3]float32   `yaml:"position"`
	Rotation      *[4]float32  `yaml:"rotation,omitempty"` // Quaternion x, y, z, w
	Scale         *[3]float32  `yaml:"scale,omitempty"`
	CastShadow    bool         `yaml:"cast_shadow"`
	ReceiveShadow bool         `yaml:"receive_shadow"`
}

// Indexed reports whether the mesh carries an explicit index buffer.
func (m *RoomMesh) Indexed() bool {
	return len(m.Indices) > 0
}

// ParseRoom parses and validates a room from YAML data.
func ParseRoom(data []byte) (*Room, error) {
	var room Room
	if err := yaml.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("decoding room: %w", err)
	}
	if room.Units == "" {
		room.Units = "m"
	}
	if err := room.Validate(); err != nil {
		return nil, err
	}
	return &room, nil
}

// LoadRoom reads and parses a room file from disk.
func LoadRoom(path string) (*Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading room file: %w", err)
	}
	return ParseRoom(data)
}

// Validate checks mesh names and buffer consistency.
func (r *Room) Validate() error {
	if len(r.Meshes) == 0 {
		return ErrEmptyRoom
	}

	seen := make(map[string]bool, len(r.Meshes))
	for i := range r.Meshes {
		m := &r.Meshes[i]
		if m.Name == "" {
			return fmt.Errorf("mesh %d: %w", i, ErrMissingMeshName)
		}
		if seen[m.Name] {
			return fmt.Errorf("mesh %s: %w", m.Name, ErrDuplicateMesh)
		}
		seen[m.Name] = true

		if len(m.Normals) > 0 && len(m.Normals) != len(m.Positions) {
			return fmt.Errorf("mesh %s: %w (%d normals, %d positions)",
				m.Name, ErrNormalCount, len(m.Normals), len(m.Positions))
		}

		if !m.Indexed() {
			if len(m.Positions)%3 != 0 {
				return fmt.Errorf("mesh %s: %w", m.Name, ErrTruncatedVertices)
			}
			continue
		}
		if len(m.Indices)%3 != 0 {
			return fmt.Errorf("mesh %s: %w", m.Name, ErrIndexCount)
		}
		for _, idx := range m.Indices {
			if int(idx) >= len(m.Positions) {
				return fmt.Errorf("mesh %s: %w: %d >= %d", m.Name, ErrIndexOutOfRange, idx, len(m.Positions))
			}
		}
	}
	return nil
}

// Mesh returns the mesh with the given name, or nil.
func (r *Room) Mesh(name string) *RoomMesh {
	for i := range r.Meshes {
		if r.Meshes[i].Name == name {
			return &r.Meshes[i]
		}
	}
	return nil
}
