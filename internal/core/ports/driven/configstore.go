package driven

// ConfigReader reads typed values from the settings file. Keys are dotted
// paths such as "embedding.provider". Missing keys and type mismatches
// yield the zero value.
type ConfigReader interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetFloat widens integer values.
	GetFloat(key string) float64

	GetStringSlice(key string) []string

	// Keys lists every stored key in sorted order.
	Keys() []string
}

// ConfigStore is the persistent settings file behind the settings service.
type ConfigStore interface {
	ConfigReader

	// Set stores a value and writes the file.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is where the settings live.
	Path() string
}
