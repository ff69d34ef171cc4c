// Package cfg holds the machine settings that job operations fall back to
// when they leave a parameter out.
package cfg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

// Defaults used when neither a config file, the environment nor a flag sets
// a value. They match a 3 mm end mill in aluminium on a small hobby machine.
var (
	ToolDiameter = 3.0
	FeedRate     = 200.0
	ZFeedRate    = 100.0
	SafetyZ      = 10.0
	StepZ        = -1.0
	OutputDir    = "."
)

// Setting keys, shared by the config file, MILLGEN_* environment variables
// and command line flags.
const (
	KeyToolDiameter = "tool_diameter"
	KeyFeedRate     = "feed_rate"
	KeyZFeedRate    = "z_feed_rate"
	KeySafetyZ      = "safety_z"
	KeyStepZ        = "step_z"
	KeyOutputDir    = "output_dir"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "MILLGEN"

// ConfigName is the base name of the config file searched by Load.
const ConfigName = "millgen"

// Settings are the machine defaults applied to job operations.
type Settings struct {
	ToolDiameter float64 `mapstructure:"tool_diameter"`
	FeedRate     float64 `mapstructure:"feed_rate"`
	ZFeedRate    float64 `mapstructure:"z_feed_rate"`
	SafetyZ      float64 `mapstructure:"safety_z"`
	StepZ        float64 `mapstructure:"step_z"`
	OutputDir    string  `mapstructure:"output_dir"`
}

// Default returns the settings built from the package defaults alone.
func Default() Settings {
	return Settings{
		ToolDiameter: ToolDiameter,
		FeedRate:     FeedRate,
		ZFeedRate:    ZFeedRate,
		SafetyZ:      SafetyZ,
		StepZ:        StepZ,
		OutputDir:    OutputDir,
	}
}

// New returns a viper instance with the defaults, the environment and, when
// flags is not nil, the flags of the same name bound in.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyToolDiameter, ToolDiameter)
	v.SetDefault(KeyFeedRate, FeedRate)
	v.SetDefault(KeyZFeedRate, ZFeedRate)
	v.SetDefault(KeySafetyZ, SafetyZ)
	v.SetDefault(KeyStepZ, StepZ)
	v.SetDefault(KeyOutputDir, OutputDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{KeyToolDiameter, KeyFeedRate, KeyZFeedRate, KeySafetyZ, KeyStepZ, KeyOutputDir} {
			flag := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, xerrors.Errorf("binding flag %s: %w", flag.Name, err)
			}
		}
	}
	return v, nil
}

// Load reads the settings. The config file is path when it is not empty,
// otherwise millgen.yaml in the working directory or in
// $HOME/.config/millgen, when present. Flags override the environment, which
// overrides the file.
func Load(path string, flags *pflag.FlagSet) (Settings, error) {
	v, err := New(flags)
	if err != nil {
		return Settings{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !xerrors.As(err, &notFound) {
			return Settings{}, xerrors.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, xerrors.Errorf("decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ErrInvalidSettings reports settings no operation could run with.
var ErrInvalidSettings = xerrors.New("invalid settings")

// Validate checks the settings for values that would make every operation
// fail.
func (s Settings) Validate() error {
	switch {
	case !(s.ToolDiameter > 0):
		return xerrors.Errorf("%s must be positive, got %v: %w", KeyToolDiameter, s.ToolDiameter, ErrInvalidSettings)
	case !(s.StepZ < 0):
		return xerrors.Errorf("%s must be negative, got %v: %w", KeyStepZ, s.StepZ, ErrInvalidSettings)
	case !(s.FeedRate > 0) || !(s.ZFeedRate > 0):
		return xerrors.Errorf("feed rates must be positive, got %v and %v: %w", s.FeedRate, s.ZFeedRate, ErrInvalidSettings)
	}
	return nil
}
