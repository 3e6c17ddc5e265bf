package settings

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sweeney/sleep-controller/internal/power"
)

// Environment variables consulted by LoadEnv, mapped to settings fields.
var envFields = map[string]string{
	"KB_SLEEP_ENABLED":   FieldSleepEnabled,
	"KB_USB_SLEEP":       FieldUSBSleep,
	"KB_SLEEP_TIMEOUT":   FieldSleepTimeout,
	"KB_RF_LINK_TIMEOUT": FieldRFLinkTimeout,
}

// envRFState sets a fixed radio phase for static setups.
const envRFState = "KB_RF_STATE"

// LoadEnv builds a static Store from an optional env file overlaid by the
// process environment. A missing path is not an error; a path that cannot
// be read is. Malformed values are skipped and returned as warnings.
func LoadEnv(path string) (*Store, []error, error) {
	file := map[string]string{}
	if path != "" {
		var err error
		file, err = godotenv.Read(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("read env file %s: %w", path, err)
		}
		if file == nil {
			file = map[string]string{}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	values := map[string]string{}
	for env, field := range envFields {
		if v, ok := lookup(env); ok {
			values[field] = v
		}
	}
	cfg, warnings := Parse(values)

	phase := power.PhaseConnected
	if v, ok := lookup(envRFState); ok {
		p, err := ParsePhase(v)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", envRFState, err))
		}
		phase = p
	}

	return NewStatic(cfg, phase), warnings, nil
}
