package model

// Profile is a named, user-configured bundle of default arguments, working
// directory, and environment for one compiler invocation context. Profiles
// are supplied once by the host configuration and read-only thereafter.
type Profile struct {
	// Name is the profile name as configured.
	Name string
	// Args are the configured arguments, always placed before any
	// caller-supplied extra arguments.
	Args []string
	// Dir is the working directory for the invocation; empty means the
	// current directory.
	Dir string
	// Env is an extra set of environment variables merged over the parent
	// process environment.
	Env map[string]string
}
