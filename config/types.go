package config

// ServerConfig contains HTTP API configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// ProviderConfig points at one upstream feed's REST root. An empty URL
// falls back to the provider's public endpoint.
type ProviderConfig struct {
	BaseURL string `yaml:"baseURL" validate:"omitempty,url"`
}

// PollConfig controls the tracker's refresh cycle
type PollConfig struct {
	IntervalMS         int `yaml:"intervalMS" validate:"gte=0"`
	TimeoutMS          int `yaml:"timeoutMS" validate:"gte=0"`
	MaxBackoffExponent int `yaml:"maxBackoffExponent" validate:"gte=0"`
}

// NATSConfig configures the optional journey publisher. An empty URL
// disables publishing.
type NATSConfig struct {
	URL    string `yaml:"url" validate:"omitempty,uri"`
	Stream string `yaml:"stream"`
}

// StationsConfig points at the stations CSV used for coordinate lookups
type StationsConfig struct {
	CSVPath string `yaml:"csvPath"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server       ServerConfig   `yaml:"server" validate:"required"`
	ViaggiaTreno ProviderConfig `yaml:"viaggiatreno"`
	Italo        ProviderConfig `yaml:"italo"`
	Poll         PollConfig     `yaml:"poll"`
	NATS         NATSConfig     `yaml:"nats"`
	Stations     StationsConfig `yaml:"stations"`
}
