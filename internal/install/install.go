// Package install adds the wavedrom preprocessor and the WaveDrom scripts to
// an mdBook project.
package install

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ConfigFile is the mdBook configuration file name.
const ConfigFile = "book.toml"

// DefaultCommand is the preprocessor command written to the configuration.
const DefaultCommand = "mdbook-wavedrom"

const (
	preprocessorName = "wavedrom"
	fileMode         = 0o644
)

// FS is the file system an installation reads from and writes to. Names are
// slash separated and relative to the book root.
type FS interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Stat(name string) (fs.FileInfo, error)
}

// Options control an installation.
type Options struct {
	// Command is the preprocessor executable; DefaultCommand when empty.
	Command string
	// SkipAssets leaves the asset files alone.
	SkipAssets bool
	Fetcher    Fetcher
	Logger     *slog.Logger
}

// Report tells what an installation changed.
type Report struct {
	AddedPreprocessor bool
	AddedScripts      []string
	WroteConfig       bool
	WroteAssets       []string
	SkippedAssets     []string
}

// Install registers the preprocessor and its scripts in the book.toml found
// in fsys, then writes the asset files that are missing. Running it again on
// an installed book changes nothing.
func Install(ctx context.Context, fsys FS, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	command := opts.Command
	if len(command) == 0 {
		command = DefaultCommand
	}

	quoted, err := quoteCommand(command)
	if err != nil {
		return nil, err
	}

	data, err := fsys.ReadFile(ConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Error("configuration file missing", "file", ConfigFile)

		return nil, ErrMissingConfig
	}

	if err != nil {
		return nil, err
	}

	logger.Info("reading configuration file", "file", ConfigFile)

	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	if !cfg.hasPreprocessor(preprocessorName) {
		logger.Info("adding preprocessor configuration", "command", quoted)

		if err := cfg.addPreprocessor(preprocessorName, quoted); err != nil {
			return nil, err
		}

		report.AddedPreprocessor = true
	}

	for _, asset := range Assets {
		if cfg.hasAdditional("js", asset.Name) {
			logger.Debug("already in additional-js, skipping", "file", asset.Name)

			continue
		}

		logger.Debug("adding to additional-js", "file", asset.Name)

		if err := cfg.addAdditional("js", asset.Name); err != nil {
			return nil, err
		}

		report.AddedScripts = append(report.AddedScripts, asset.Name)
	}

	if report.AddedPreprocessor || len(report.AddedScripts) != 0 {
		out, err := cfg.encode()
		if err != nil {
			return nil, err
		}

		logger.Info("saving changed configuration", "file", ConfigFile)

		if err := fsys.WriteFile(ConfigFile, out, fileMode); err != nil {
			return nil, err
		}

		report.WroteConfig = true
	}

	if opts.SkipAssets {
		return report, nil
	}

	if err := writeAssets(ctx, fsys, opts.Fetcher, logger, report); err != nil {
		return report, err
	}

	return report, nil
}

func writeAssets(ctx context.Context, fsys FS, fetcher Fetcher, logger *slog.Logger, report *Report) error {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}

	for _, asset := range Assets {
		if _, err := fsys.Stat(asset.Name); err == nil {
			logger.Debug("asset already exists, skipping", "file", asset.Name)

			report.SkippedAssets = append(report.SkippedAssets, asset.Name)

			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		content, err := fetcher.Fetch(ctx, asset)
		if err != nil {
			return err
		}

		logger.Debug("writing asset", "file", asset.Name, "bytes", len(content))

		if err := fsys.WriteFile(asset.Name, content, fileMode); err != nil {
			return err
		}

		report.WroteAssets = append(report.WroteAssets, asset.Name)
	}

	return nil
}

// DirFS is an FS rooted at a directory of the host file system.
type DirFS string

func (d DirFS) path(name string) string {
	return filepath.Join(string(d), filepath.FromSlash(name))
}

func (d DirFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(d.path(name))
}

func (d DirFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(d.path(name), data, perm)
}

func (d DirFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(d.path(name))
}

var (
	// ErrMissingConfig is returned when the book has no book.toml.
	ErrMissingConfig = errors.New("configuration file " + ConfigFile + " missing")
	// ErrInvalidConfig is returned when book.toml cannot be read or updated.
	ErrInvalidConfig = errors.New("invalid " + ConfigFile)
	// ErrInvalidCommand is returned for a preprocessor command mdBook could
	// not run.
	ErrInvalidCommand = errors.New("invalid preprocessor command")
	// ErrFetch is returned when an asset cannot be downloaded.
	ErrFetch = errors.New("fetching asset")
)
