// Package manifest persists the project version in package.json.
//
// Only the top-level "version" field is read or rewritten. Every other byte
// of the document, including key order and indentation, is preserved.
package manifest

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yuuuuuyu/miniapp-template/internal/version"
)

// FileName is the manifest file looked up in the project root.
const FileName = "package.json"

const versionKey = "version"

// Path returns the manifest path for a project root.
func Path(projectPath string) string {
	return filepath.Join(projectPath, FileName)
}

// Store is a version.Store backed by a JSON manifest file.
type Store struct {
	path   string
	logger *zap.Logger
}

var _ version.Store = (*Store)(nil)

// NewStore returns a Store for the manifest at path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the manifest version as written, without normalizing it.
// A missing file, invalid JSON or an empty version field all report false.
func (s *Store) Read() (string, bool) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), json.Parser()); err != nil {
		s.logger.Debug("manifest not readable", zap.String("path", s.path), zap.Error(err))
		return "", false
	}

	raw := strings.TrimSpace(k.String(versionKey))
	if raw == "" {
		return "", false
	}
	return raw, true
}

// Write replaces the manifest's version value. A missing manifest returns an
// error wrapping fs.ErrNotExist.
func (s *Store) Write(v version.SemanticVersion) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", s.path, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", s.path, err)
	}

	updated, err := SetVersion(data, v.String())
	if err != nil {
		return fmt.Errorf("updating manifest %s: %w", s.path, err)
	}

	if err := os.WriteFile(s.path, updated, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing manifest %s: %w", s.path, err)
	}
	return nil
}

// ErrNotObject is returned when the manifest's top level is not a JSON object.
var ErrNotObject = errors.New("manifest is not a JSON object")

// SetVersion returns data with the top-level "version" value replaced by ver.
// When the key is absent it is inserted as the first member.
func SetVersion(data []byte, ver string) ([]byte, error) {
	if !stdjson.Valid(data) {
		return nil, errors.New("manifest is not valid JSON")
	}

	encoded, err := stdjson.Marshal(ver)
	if err != nil {
		return nil, err
	}

	dec := stdjson.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(stdjson.Delim); !ok || d != '{' {
		return nil, ErrNotObject
	}
	bodyStart := dec.InputOffset()

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		var value stdjson.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		if key, _ := keyTok.(string); key == versionKey {
			end := dec.InputOffset()
			start := end - int64(len(value))
			return splice(data, start, end, encoded), nil
		}
	}

	return insertVersion(data, bodyStart, encoded), nil
}

func splice(data []byte, start, end int64, replacement []byte) []byte {
	out := make([]byte, 0, len(data)-int(end-start)+len(replacement))
	out = append(out, data[:start]...)
	out = append(out, replacement...)
	return append(out, data[end:]...)
}

// insertVersion adds the version member right after the opening brace,
// reusing the indentation of the first existing member.
func insertVersion(data []byte, bodyStart int64, encoded []byte) []byte {
	rest := data[bodyStart:]
	trimmed := bytes.TrimLeft(rest, " \t\r\n")
	indent := rest[:len(rest)-len(trimmed)]

	member := []byte(`"` + versionKey + `": `)
	member = append(member, encoded...)

	var insert []byte
	if len(trimmed) > 0 && trimmed[0] == '}' {
		insert = member
	} else {
		insert = append(append(append([]byte{}, indent...), member...), ',')
	}
	return splice(data, bodyStart, bodyStart, insert)
}
