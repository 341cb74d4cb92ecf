package cfg

import "time"

type Cfg struct {
	// Storage configuration
	DBPath     string
	SampleData bool

	// Feed configuration
	SourcesFile     string
	PatreonAuth     string
	FetchTimeout    int
	RefreshInterval int
	WorkerCount     int

	// HTTP configuration
	Port         string
	BaseUrl      string
	RefreshRate  int
	RefreshBurst int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

func (c *Cfg) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *Cfg) RefreshIntervalDuration() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// PublicURL is the externally visible base URL of the service.
func (c *Cfg) PublicURL() string {
	if c.BaseUrl != "" {
		return c.BaseUrl
	}
	return "http://localhost:" + c.Port
}
