package configuration

type Configuration struct {
	Test       string `usage:"workload to run: ALL | MIXED | CHURN | SPARSE | COMPACTION"`
	Kinds      string `usage:"comma separated collection kinds: freelist,bitmap"`
	Sizes      string `usage:"comma separated element counts"`
	Patterns   string `usage:"comma separated churn removal patterns: uniform,clustered,random"`
	Cycles     int    `usage:"churn cycles per run"`
	Seed       int64  `usage:"seed for the random removal pattern"`
	Samples    int    `usage:"runs per benchmark"`
	Verify     bool   `usage:"audit tracked indices after every phase (slow)"`
	Json       bool   `usage:"print the report as JSON"`
	Version    bool   `usage:"show version and exit"`
	ShowConfig bool   `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		Test:     "ALL",
		Kinds:    "freelist,bitmap",
		Sizes:    "1000,10000",
		Patterns: "uniform,clustered,random",
		Cycles:   20,
		Seed:     0x5eed,
		Samples:  10,
	}
}
