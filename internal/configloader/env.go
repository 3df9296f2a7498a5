package configloader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/tplparse/pkg/config"
)

// envVarPrefix is the prefix for all tplparse environment variables.
const envVarPrefix = "TPLPARSE_"

// envSetting binds one TPLPARSE_* variable to the config field it sets.
type envSetting struct {
	suffix string
	help   string
	apply  func(cfg *config.Config, value string) error
}

func stringSetting(suffix, help string, set func(*config.Config, string)) envSetting {
	return envSetting{suffix: suffix, help: help, apply: func(cfg *config.Config, v string) error {
		set(cfg, v)
		return nil
	}}
}

func boolSetting(suffix, help string, set func(*config.Config, bool)) envSetting {
	return envSetting{suffix: suffix, help: help, apply: func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s%s: %q (expected true/false/1/0)", envVarPrefix, suffix, v)
		}
		set(cfg, b)
		return nil
	}}
}

func intSetting(suffix, help string, set func(*config.Config, int)) envSetting {
	return envSetting{suffix: suffix, help: help, apply: func(cfg *config.Config, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer for %s%s: %q", envVarPrefix, suffix, v)
		}
		set(cfg, i)
		return nil
	}}
}

func listSetting(suffix, help string, set func(*config.Config, []string)) envSetting {
	return envSetting{suffix: suffix, help: help, apply: func(cfg *config.Config, v string) error {
		set(cfg, splitList(v))
		return nil
	}}
}

//nolint:gochecknoglobals // Read-only lookup table.
var envSettings = []envSetting{
	stringSetting("MODE", "Initial text mode: DATA, RCDATA, RAWTEXT or CDATA",
		func(c *config.Config, v string) { c.Mode = v }),
	stringSetting("DELIMITERS_OPEN", "Interpolation open delimiter",
		func(c *config.Config, v string) { c.Delimiters.Open = v }),
	stringSetting("DELIMITERS_CLOSE", "Interpolation close delimiter",
		func(c *config.Config, v string) { c.Delimiters.Close = v }),
	stringSetting("FORMAT", "Output format: tree, json, yaml, markup, diagnostics or summary",
		func(c *config.Config, v string) { c.Format = config.OutputFormat(v) }),
	intSetting("JOBS", "Number of parallel workers (0 = auto)",
		func(c *config.Config, v int) { c.Jobs = v }),
	boolSetting("COMPACT", "Compact JSON output: true or false",
		func(c *config.Config, v bool) { c.Compact = v }),
	boolSetting("STRICT", "Fail check on info diagnostics too: true or false",
		func(c *config.Config, v bool) { c.Strict = v }),
	listSetting("EXTENSIONS", "Comma-separated list of file extensions",
		func(c *config.Config, v []string) { c.Extensions = v }),
	listSetting("IGNORE", "Comma-separated list of ignore patterns",
		func(c *config.Config, v []string) { c.Ignore = v }),
	listSetting("MARKDOWN_LANGUAGES", "Comma-separated list of Markdown fence languages",
		func(c *config.Config, v []string) { c.MarkdownLanguages = v }),
}

// LoadFromLookup applies TPLPARSE_* overrides (e.g. TPLPARSE_MODE) read
// through lookup to cfg. Empty values are treated as unset.
func LoadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}

	for _, setting := range envSettings {
		value, ok := lookup(envVarPrefix + setting.suffix)
		if !ok || value == "" {
			continue
		}
		if err := setting.apply(cfg, value); err != nil {
			return err
		}
	}

	return nil
}

// splitList parses a comma-separated value, dropping empty elements.
func splitList(value string) []string {
	var items []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name string
	Help string
}

// ListEnvVars returns the supported environment variables sorted by name,
// including TPLPARSE_CONFIG.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envSettings)+1)
	vars = append(vars, EnvVar{Name: EnvConfigPath, Help: "Config file to load instead of the project config"})
	for _, setting := range envSettings {
		vars = append(vars, EnvVar{Name: envVarPrefix + setting.suffix, Help: setting.help})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
