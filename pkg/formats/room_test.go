package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const quadRoom = `
name: test
meshes:
  - name: Cube017
    positions: [[0, 0, 0], [1, 0, 0], [1, 0, 1], [0, 0, 1]]
    normals: [[0, 1, 0], [0, 1, 0], [0, 1, 0], [0, 1, 0]]
    indices: [0, 2, 1, 0, 3, 2]
    position: [1, 2, 3]
    scale: [2, 2, 2]
    receive_shadow: true
`

func TestParseRoom_Valid(t *testing.T) {
	room, err := ParseRoom([]byte(quadRoom))
	if err != nil {
		t.Fatalf("ParseRoom failed: %v", err)
	}

	if room.Units != "m" {
		t.Errorf("expected default units m, got %q", room.Units)
	}
	if len(room.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(room.Meshes))
	}

	m := room.Mesh("Cube017")
	if m == nil {
		t.Fatal("Mesh(Cube017) returned nil")
	}
	if !m.Indexed() {
		t.Error("expected indexed mesh")
	}
	if len(m.Positions) != 4 || len(m.Normals) != 4 || len(m.Indices) != 6 {
		t.Errorf("unexpected buffer sizes: %d positions, %d normals, %d indices",
			len(m.Positions), len(m.Normals), len(m.Indices))
	}
	if m.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected position [1 2 3], got %v", m.Position)
	}
	if m.Scale == nil || *m.Scale != [3]float32{2, 2, 2} {
		t.Errorf("expected scale [2 2 2], got %v", m.Scale)
	}
	if m.Rotation != nil {
		t.Errorf("expected nil rotation, got %v", *m.Rotation)
	}
	if !m.ReceiveShadow || m.CastShadow {
		t.Error("shadow flags not decoded")
	}
	if room.Mesh("missing") != nil {
		t.Error("expected nil for missing mesh")
	}
}

func TestParseRoom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "empty",
			yaml:    "name: x\n",
			wantErr: ErrEmptyRoom,
		},
		{
			name:    "missing name",
			yaml:    "meshes:\n  - positions: [[0,0,0],[1,0,0],[0,0,1]]\n",
			wantErr: ErrMissingMeshName,
		},
		{
			name:    "duplicate",
			yaml:    "meshes:\n  - name: a\n  - name: a\n",
			wantErr: ErrDuplicateMesh,
		},
		{
			name:    "index count",
			yaml:    "meshes:\n  - name: a\n    positions: [[0,0,0],[1,0,0],[0,0,1]]\n    indices: [0, 1]\n",
			wantErr: ErrIndexCount,
		},
		{
			name:    "index range",
			yaml:    "meshes:\n  - name: a\n    positions: [[0,0,0],[1,0,0],[0,0,1]]\n    indices: [0, 1, 3]\n",
			wantErr: ErrIndexOutOfRange,
		},
		{
			name:    "normal count",
			yaml:    "meshes:\n  - name: a\n    positions: [[0,0,0],[1,0,0],[0,0,1]]\n    normals: [[0,1,0]]\n",
			wantErr: ErrNormalCount,
		},
		{
			name:    "truncated",
			yaml:    "meshes:\n  - name: a\n    positions: [[0,0,0],[1,0,0]]\n",
			wantErr: ErrTruncatedVertices,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoom([]byte(tt.yaml))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRoom() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRoom_InvalidYAML(t *testing.T) {
	if _, err := ParseRoom([]byte("meshes: [unterminated")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadRoom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.yaml")
	if err := os.WriteFile(path, []byte(quadRoom), 0644); err != nil {
		t.Fatalf("failed to write room: %v", err)
	}
	if _, err := LoadRoom(path); err != nil {
		t.Fatalf("LoadRoom failed: %v", err)
	}
	if _, err := LoadRoom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRoom_Sample(t *testing.T) {
	room, err := LoadRoom("../../testdata/room.yaml")
	if err != nil {
		t.Fatalf("LoadRoom(sample) failed: %v", err)
	}
	for _, name := range []string{"Cube017", "Cube022", "Cube001", "Cube012", "Lamp003"} {
		if room.Mesh(name) == nil {
			t.Errorf("sample room missing mesh %s", name)
		}
	}
}
