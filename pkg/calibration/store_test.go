package calibration

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "calibration.bin")
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore(storePath(t))

	got := s.Load()
	if got != Default {
		t.Fatalf("Load() = %+v, want defaults %+v", got, Default)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(storePath(t))

	want := Calibration{Open: 170, Close: 5, Park: 40}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if got := s.Load(); got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestStoreLoadShortRecord(t *testing.T) {
	path := storePath(t)
	if err := os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	s := NewStore(path)
	if got := s.Load(); got != Default {
		t.Fatalf("Load() = %+v, want defaults %+v", got, Default)
	}
}

func TestStoreLoadOutOfRangeField(t *testing.T) {
	tests := []struct {
		name string
		raw  Calibration
		want Calibration
	}{
		{
			name: "open too large",
			raw:  Calibration{Open: 300, Close: 5, Park: 40},
			want: Calibration{Open: Default.Open, Close: 5, Park: 40},
		},
		{
			name: "close negative",
			raw:  Calibration{Open: 170, Close: -1, Park: 40},
			want: Calibration{Open: 170, Close: Default.Close, Park: 40},
		},
		{
			name: "all corrupt",
			raw:  Calibration{Open: -5, Close: 999, Park: 181},
			want: Default,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := storePath(t)

			// Write the raw record directly; Save would reject it.
			b := make([]byte, recordSize)
			binary.LittleEndian.PutUint32(b[0:4], uint32(tt.raw.Open))
			binary.LittleEndian.PutUint32(b[4:8], uint32(tt.raw.Close))
			binary.LittleEndian.PutUint32(b[8:12], uint32(tt.raw.Park))
			if err := os.WriteFile(path, b, 0644); err != nil {
				t.Fatalf("write file: %v", err)
			}

			s := NewStore(path)
			if got := s.Load(); got != tt.want {
				t.Fatalf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStoreSaveRejectsInvalid(t *testing.T) {
	path := storePath(t)
	s := NewStore(path)

	if err := s.Save(Calibration{Open: 170, Close: 5, Park: 40}); err != nil {
		t.Fatalf("Save valid returned error: %v", err)
	}

	if err := s.Save(Calibration{Open: 170, Close: -1, Park: 40}); err == nil {
		t.Fatal("Save with out-of-range close should fail")
	}

	// The stored record must be untouched by the rejected save.
	if got := s.Load(); got != (Calibration{Open: 170, Close: 5, Park: 40}) {
		t.Fatalf("Load() after rejected save = %+v", got)
	}
}

func TestClamped(t *testing.T) {
	got := Calibration{Open: 200, Close: 10, Park: -3}.Clamped()
	want := Calibration{Open: Default.Open, Close: 10, Park: Default.Park}
	if got != want {
		t.Fatalf("Clamped() = %+v, want %+v", got, want)
	}
}
