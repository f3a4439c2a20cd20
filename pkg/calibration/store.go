package calibration

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// recordSize is the fixed length of the persisted record: three little-endian
// uint32 values (open, close, park) at offset 0. There is no version field;
// any layout change needs an external migration.
const recordSize = 12

// Store persists a Calibration as a fixed-size binary record in a regular
// file. Load never fails: anything unreadable or out of range degrades to the
// documented defaults. Save commits synchronously; the caller blocks until the
// record is on disk. A power loss mid-write can leave a stale blend of old and
// new bytes, which the range validation on the next Load tolerates.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by the file at path. Parent directories are
// created on the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the record and returns a Calibration that is always valid.
// A missing or short file yields the defaults; each out-of-range field is
// replaced independently.
func (s *Store) Load() Calibration {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.Warnf("calibration: cannot read %s, using defaults: %v", s.path, err)
		}
		return Default
	}
	if len(b) < recordSize {
		logrus.Warnf("calibration: record in %s is %d bytes, want %d, using defaults", s.path, len(b), recordSize)
		return Default
	}

	c := decode(b)
	if !c.Valid() {
		logrus.Warnf("calibration: out-of-range values %+v in %s, substituting defaults", c, s.path)
	}
	return c.Clamped()
}

// Save validates c, writes the whole record at offset 0 and syncs the file
// before returning.
func (s *Store) Save(c Calibration) error {
	if !c.Valid() {
		return pkgerrors.Errorf("calibration out of range: %+v", c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory for %s", s.path)
	}

	fp, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open %s", s.path)
	}
	defer func(fp *os.File) {
		if err := fp.Close(); err != nil {
			logrus.Warnf("failed to close file %s", s.path)
		}
	}(fp)

	if _, err := fp.WriteAt(encode(c), 0); err != nil {
		return pkgerrors.Wrapf(err, "failed to write record to %s", s.path)
	}
	if err := fp.Sync(); err != nil {
		return pkgerrors.Wrapf(err, "failed to sync %s", s.path)
	}

	return nil
}

func encode(c Calibration) []byte {
	b := make([]byte, recordSize)
	binary.LittleEndian.PutUint32(b[0:4], uint32(c.Open))
	binary.LittleEndian.PutUint32(b[4:8], uint32(c.Close))
	binary.LittleEndian.PutUint32(b[8:12], uint32(c.Park))
	return b
}

func decode(b []byte) Calibration {
	return Calibration{
		Open:  int(int32(binary.LittleEndian.Uint32(b[0:4]))),
		Close: int(int32(binary.LittleEndian.Uint32(b[4:8]))),
		Park:  int(int32(binary.LittleEndian.Uint32(b[8:12]))),
	}
}
