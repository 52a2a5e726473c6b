package system

import "os"

// Environment is the interface for the environment.
type Environment interface {
	// Get gets the value of the environment variable with the given key.
	Get(key string) (string, bool)
	// UserCacheDir returns the user-level cache directory.
	UserCacheDir() (string, error)
	// TempDir returns the system temporary directory.
	TempDir() string
}

// env is the default implementation of the Environment interface.
type env struct{}

// NewEnvironment creates a new Environment.
func NewEnvironment() Environment {
	return &env{}
}

// Get gets the value of the environment variable with the given key.
func (e *env) Get(key string) (string, bool) {
	return os.LookupEnv(key)
}

// UserCacheDir returns the user-level cache directory.
func (e *env) UserCacheDir() (string, error) {
	return os.UserCacheDir()
}

// TempDir returns the system temporary directory.
func (e *env) TempDir() string {
	return os.TempDir()
}
