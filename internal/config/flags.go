package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flags defines the command line flags that override config keys.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config-dir", "", "directory holding "+FileName+" (default: data dir, then working dir)")
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")
	fs.String("addr", "", "control panel listen address")
	fs.Int("camera", 0, "camera device index")
	fs.String("click-mode", "", "click mode: repeat or edge")
	fs.Bool("no-tray", false, "run without the system tray icon")
	return fs
}

var flagKeys = map[string]string{
	"log-level":  "logLevel",
	"addr":       "server.addr",
	"camera":     "camera.device",
	"click-mode": "gesture.clickMode",
}

// LoadArgs parses args with Flags, binds them over the config keys and
// loads the configuration.
func LoadArgs(name string, args []string) (Config, error) {
	fs := Flags(name)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	for flag, key := range flagKeys {
		if f := fs.Lookup(flag); f != nil && f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return Config{}, err
			}
		}
	}
	if noTray, _ := fs.GetBool("no-tray"); noTray {
		viper.Set("tray.enabled", false)
	}

	dir, _ := fs.GetString("config-dir")
	if dir == "" {
		viper.AddConfigPath(DefaultDataDir())
		dir = "."
	}
	return Load(dir)
}
