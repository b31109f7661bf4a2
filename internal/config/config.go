package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // embedded zoneinfo for Timezone

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for studydash.
type Config struct {
	BaseDir           string           `toml:"base_dir"`
	LogDir            string           `toml:"log_dir"`
	Timezone          string           `toml:"timezone,omitempty"` // IANA name; empty means the local zone
	DisableSampleData bool             `toml:"disable_sample_data"`
	Storage           StorageConfig    `toml:"storage"`
	Vaults            []VaultConfig    `toml:"vaults"`
	Encryption        EncryptionConfig `toml:"encryption"`
	Display           DisplayConfig    `toml:"display"`
}

// StorageConfig selects where the dashboard slices are persisted.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type    string `toml:"type"`               // "sqlite", "filesystem" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // used for type=sqlite and type=filesystem
}

// VaultConfig represents configuration for a snapshot vault.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // for S3-compatible services
	S3Profile  string `toml:"s3_profile,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds the age key pair used to protect snapshots.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default), "none" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// DisplayConfig holds terminal rendering settings.
type DisplayConfig struct {
	FirstHour int `toml:"first_hour"` // first timetable row, defaults to 8
	LastHour  int `toml:"last_hour"`  // last timetable row, defaults to 21
}

// NewConfig creates a new Config rooted at baseDir with sqlite storage and a local
// filesystem vault.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Storage: StorageConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Vaults: []VaultConfig{
			{Type: "filesystem", Name: "local", FSVaultRoot: filepath.Join(baseDir, "vault")},
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "studydash.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "studydash.key"),
		},
		Display: DisplayConfig{FirstHour: 8, LastHour: 21},
	}
}

// Location resolves Timezone, falling back to time.Local when it is empty.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// TimetableHours returns the first and last timetable rows, applying defaults and
// clamping to a valid range.
func (c *Config) TimetableHours() (first, last int) {
	first, last = c.Display.FirstHour, c.Display.LastHour
	if first <= 0 && last <= 0 {
		return 8, 21
	}
	first = min(max(first, 0), 23)
	if last > 23 || last <= 0 {
		last = 23
	}
	if last < first {
		last = first
	}
	return first, last
}

// Decode reads a Config from r. Keys that match no field are an error, so a typo in
// the file is reported instead of silently ignored.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Encode writes cfg to w as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Init writes cfg to a new file at path. An existing file is never replaced.
func Init(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	if err := errors.Join(Encode(f, cfg), f.Close()); err != nil {
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
