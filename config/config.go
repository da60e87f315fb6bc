// Package config resolves karmen's settings from defaults, a YAML file
// and the command line, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/BobdaProgrammer/karmen/wm"
)

var (
	// ErrHelp is returned by Load after printing the usage.
	ErrHelp = errors.New("help requested")
	// ErrVersion is returned by Load when -version is given.
	ErrVersion = errors.New("version requested")
)

// Colors is a foreground and background pair.
type Colors struct {
	Foreground string `koanf:"foreground"`
	Background string `koanf:"background"`
}

// TitleColors adds the hover background used by buttons.
type TitleColors struct {
	Foreground string `koanf:"foreground"`
	Background string `koanf:"background"`
	Bright     string `koanf:"bright"`
}

type Config struct {
	Display string `koanf:"display"`
	Font    struct {
		Path string  `koanf:"path"`
		Size float64 `koanf:"size"`
	} `koanf:"font"`
	Title struct {
		Active   TitleColors `koanf:"active"`
		Inactive TitleColors `koanf:"inactive"`
	} `koanf:"title"`
	Menu struct {
		Foreground string `koanf:"foreground"`
		Background string `koanf:"background"`
		Selection  Colors `koanf:"selection"`
	} `koanf:"menu"`
	Border struct {
		Width int `koanf:"width"`
	} `koanf:"border"`
	Alpha    float64      `koanf:"alpha"`
	Commands []wm.Command `koanf:"commands"`
	Debug    bool         `koanf:"debug"`

	// File is the configuration file that was read, if any.
	File string
}

// Default returns the built-in settings.
func Default() *Config {
	c := &Config{Alpha: 1}
	c.Font.Size = 10
	c.Title.Active = TitleColors{Foreground: "white", Background: "rgb:4b/69/83", Bright: "rgb:ac/aa/a5"}
	c.Title.Inactive = TitleColors{Foreground: "rgb:4b/69/83", Background: "white", Bright: "rgb:c0/d0/e0"}
	c.Menu.Foreground = "black"
	c.Menu.Background = "white"
	c.Menu.Selection = Colors{Foreground: "white", Background: "rgb:4b/69/83"}
	c.Border.Width = 1
	return c
}

// DefaultPath is $XDG_CONFIG_HOME/karmen/config.yaml, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "karmen", "config.yaml")
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"display": "display",
	"font":    "font.path",
	"size":    "font.size",
	"afg":     "title.active.foreground",
	"abg":     "title.active.background",
	"ifg":     "title.inactive.foreground",
	"ibg":     "title.inactive.background",
	"mfg":     "menu.foreground",
	"mbg":     "menu.background",
	"msfg":    "menu.selection.foreground",
	"msbg":    "menu.selection.background",
	"bw":      "border.width",
	"a":       "alpha",
	"debug":   "debug",
}

// Load parses args (without the program name) and merges the file and
// the flags over the defaults. Usage goes to usage when -help is given.
func Load(args []string, usage io.Writer) (*Config, error) {
	def := Default()
	fset := flag.NewFlagSet("karmen", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.String("display", "", "X display to manage (default $DISPLAY)")
	fset.String("font", "", "path to a TrueType font")
	fset.Float64("size", def.Font.Size, "font size in points")
	fset.String("afg", def.Title.Active.Foreground, "active title foreground")
	fset.String("abg", def.Title.Active.Background, "active title background")
	fset.String("ifg", def.Title.Inactive.Foreground, "inactive title foreground")
	fset.String("ibg", def.Title.Inactive.Background, "inactive title background")
	fset.String("mfg", def.Menu.Foreground, "menu foreground")
	fset.String("mbg", def.Menu.Background, "menu background")
	fset.String("msfg", def.Menu.Selection.Foreground, "menu selection foreground")
	fset.String("msbg", def.Menu.Selection.Background, "menu selection background")
	fset.Int("bw", def.Border.Width, "border width in pixels")
	fset.Float64("a", def.Alpha, "alpha applied to every colour, 0 to 1")
	fset.Bool("debug", false, "log debug messages")
	path := fset.String("config", DefaultPath(), "configuration file")
	help := fset.Bool("help", false, "show this help")
	version := fset.Bool("version", false, "print the version")

	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(fset, usage)
			return nil, ErrHelp
		}
		return nil, err
	}
	if *help {
		printUsage(fset, usage)
		return nil, ErrHelp
	}
	if *version {
		return nil, ErrVersion
	}
	if fset.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fset.Arg(0))
	}

	explicit := false
	fset.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	k := koanf.New(".")
	loaded := ""
	if *path != "" {
		_, err := os.Stat(*path)
		switch {
		case err == nil:
			if err := k.Load(file.Provider(*path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("couldn't read %s: %w", *path, err)
			}
			loaded = *path
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("couldn't read %s: %w", *path, err)
		}
	}

	var setErr error
	fset.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := k.Set(key, f.Value.(flag.Getter).Get()); err != nil && setErr == nil {
			setErr = err
		}
	})
	if setErr != nil {
		return nil, setErr
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.File = loaded
	cfg.clamp()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printUsage(fset *flag.FlagSet, w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	fset.SetOutput(w)
	fmt.Fprintln(w, "usage: karmen [flags]")
	fset.PrintDefaults()
}

func (c *Config) clamp() {
	c.Border.Width = max(c.Border.Width, 0)
	c.Alpha = min(max(c.Alpha, 0), 1)
	if c.Font.Size <= 0 {
		c.Font.Size = Default().Font.Size
	}
}

func (c *Config) validate() error {
	for i, cmd := range c.Commands {
		if cmd.Name == "" {
			return fmt.Errorf("command %d has no name", i+1)
		}
		if _, err := cmd.Argv(); err != nil {
			return fmt.Errorf("command %q: %w", cmd.Name, err)
		}
		if cmd.Key != "" {
			if _, _, err := wm.ParseBinding(cmd.Key); err != nil {
				return fmt.Errorf("command %q: %w", cmd.Name, err)
			}
		}
	}
	return nil
}

var wellKnownFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu-sans-fonts/DejaVuSans.ttf",
	"/usr/local/share/fonts/dejavu/DejaVuSans.ttf",
}

// FontPaths lists the font files to try, the configured one first.
func (c *Config) FontPaths() []string {
	var paths []string
	if c.Font.Path != "" {
		paths = append(paths, c.Font.Path)
	}
	return append(paths, wellKnownFonts...)
}
