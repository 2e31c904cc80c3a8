// Package seed imports and exports settings as YAML files of the form
//
//	settings:
//	  - name: testsettings.defaultcolor
//	    value: Red
package seed

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/bobasettings/bobasettings/internal/db/models"
	"github.com/bobasettings/bobasettings/internal/settings"
)

const fileMode = 0o600

// ErrEntryNameEmpty is returned for seed entries without a name.
var ErrEntryNameEmpty = errors.New("seed entry name cannot be empty")

// File is the document stored in a seed file.
type File struct {
	Settings []models.Setting `yaml:"settings"`
}

// Result counts what an import did.
type Result struct {
	Written int
	Skipped int
}

// Parse decodes a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse seed YAML")
	}

	for i := range f.Settings {
		if strings.TrimSpace(f.Settings[i].Name) == "" {
			return nil, errors.Wrapf(ErrEntryNameEmpty, "entry %d", i+1)
		}
	}

	return &f, nil
}

// LoadFile reads and parses the seed file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read seed file %s", path)
	}

	return Parse(data)
}

// Write encodes f as YAML to w.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd

	if err := enc.Encode(f); err != nil {
		return errors.Wrap(err, "failed to encode seed YAML")
	}

	return enc.Close()
}

// WriteFile writes f to path.
func WriteFile(path string, f *File) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode)
	if err != nil {
		return errors.Wrapf(err, "failed to create seed file %s", path)
	}

	if err := Write(out, f); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// Import writes every entry of f through s. With missingOnly set, keys that
// already have a record are left alone.
func Import(ctx context.Context, s *settings.Service, f *File, missingOnly bool) (Result, error) {
	var res Result
	if f == nil {
		return res, nil
	}

	existing := map[string]struct{}{}
	if missingOnly {
		all, err := s.GetAllSettings(ctx)
		if err != nil {
			return res, err
		}
		for _, rec := range all {
			existing[settings.NormalizeKey(rec.Name)] = struct{}{}
		}
	}

	for _, entry := range f.Settings {
		key := settings.NormalizeKey(entry.Name)
		if _, ok := existing[key]; ok {
			res.Skipped++
			continue
		}

		if err := s.SetSetting(ctx, key, entry.Value); err != nil {
			return res, errors.Wrapf(err, "failed to import %s", key)
		}

		existing[key] = struct{}{}
		res.Written++
	}

	log.Info().Int("written", res.Written).Int("skipped", res.Skipped).Msg("settings imported")

	return res, nil
}

// ImportFile loads the seed file at path and imports it.
func ImportFile(ctx context.Context, s *settings.Service, path string, missingOnly bool) (Result, error) {
	f, err := LoadFile(path)
	if err != nil {
		return Result{}, err
	}

	return Import(ctx, s, f, missingOnly)
}

// Export returns every stored record as a seed document.
func Export(ctx context.Context, s *settings.Service) (*File, error) {
	all, err := s.GetAllSettings(ctx)
	if err != nil {
		return nil, err
	}

	return &File{Settings: all}, nil
}
