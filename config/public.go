package config

// safe for API structure
type PublicConfig struct {
	General struct {
		DataDir     string `yaml:"dataDir" json:"dataDir"`
		Development bool   `yaml:"development" json:"development"`
	} `yaml:"general" json:"general"`

	HTTP struct {
		Enabled bool   `yaml:"enabled" json:"enabled"`
		Address string `yaml:"address" json:"address"`
		Port    int    `yaml:"port" json:"port"`

		CORS struct {
			Enabled        bool     `yaml:"enabled" json:"enabled"`
			AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`
		} `yaml:"cors" json:"cors"`

		Auth struct {
			Enabled bool `yaml:"enabled" json:"enabled"`
		} `yaml:"auth" json:"auth"`
	} `yaml:"http" json:"http"`

	Watcher struct {
		DebounceMS  int `yaml:"debounceMs" json:"debounceMs"`
		EventBuffer int `yaml:"eventBuffer" json:"eventBuffer"`
	} `yaml:"watcher" json:"watcher"`

	Dialog struct {
		ExtraFilters []FilterConfig `yaml:"extraFilters" json:"extraFilters"`
	} `yaml:"dialog" json:"dialog"`

	Recent struct {
		Filename string `yaml:"filename" json:"filename"`
	} `yaml:"recent" json:"recent"`

	Logging struct {
		Level       string `yaml:"level" json:"level"`
		ChannelSize int    `yaml:"channelSize" json:"channelSize"`
		Format      string `yaml:"format" json:"format"`
		Output      string `yaml:"output" json:"output"`
		FilePath    string `yaml:"filePath" json:"filePath"`
	} `yaml:"logging" json:"logging"`
}

// ToPublic exposes the configuration without auth internals
func (c *Config) ToPublic() *PublicConfig {
	p := &PublicConfig{}

	p.General.DataDir = c.General.DataDir
	p.General.Development = c.General.Development

	p.HTTP.Enabled = c.HTTP.Enabled
	p.HTTP.Address = c.HTTP.Address
	p.HTTP.Port = c.HTTP.Port
	p.HTTP.CORS.Enabled = c.HTTP.CORS.Enabled
	p.HTTP.CORS.AllowedOrigins = append([]string(nil), c.HTTP.CORS.AllowedOrigins...)
	p.HTTP.Auth.Enabled = c.HTTP.Auth.Enabled

	p.Watcher.DebounceMS = c.Watcher.DebounceMS
	p.Watcher.EventBuffer = c.Watcher.EventBuffer

	p.Dialog.ExtraFilters = append([]FilterConfig(nil), c.Dialog.ExtraFilters...)

	p.Recent.Filename = c.Recent.Filename

	p.Logging.Level = c.Logging.Level
	p.Logging.ChannelSize = c.Logging.ChannelSize
	p.Logging.Format = c.Logging.Format
	p.Logging.Output = c.Logging.Output
	p.Logging.FilePath = c.Logging.FilePath

	return p
}

// MergeFromPublic applies a public view onto the configuration.
// The token TTL is not settable through the API.
func (c *Config) MergeFromPublic(p *PublicConfig) {
	if p == nil {
		return
	}

	c.General.DataDir = p.General.DataDir
	c.General.Development = p.General.Development

	c.HTTP.Enabled = p.HTTP.Enabled
	c.HTTP.Address = p.HTTP.Address
	c.HTTP.Port = p.HTTP.Port
	c.HTTP.CORS.Enabled = p.HTTP.CORS.Enabled
	c.HTTP.CORS.AllowedOrigins = append([]string(nil), p.HTTP.CORS.AllowedOrigins...)
	c.HTTP.Auth.Enabled = p.HTTP.Auth.Enabled

	c.Watcher.DebounceMS = p.Watcher.DebounceMS
	c.Watcher.EventBuffer = p.Watcher.EventBuffer

	c.Dialog.ExtraFilters = append([]FilterConfig(nil), p.Dialog.ExtraFilters...)

	c.Recent.Filename = p.Recent.Filename

	c.Logging.Level = p.Logging.Level
	c.Logging.ChannelSize = p.Logging.ChannelSize
	c.Logging.Format = p.Logging.Format
	c.Logging.Output = p.Logging.Output
	c.Logging.FilePath = p.Logging.FilePath
}
