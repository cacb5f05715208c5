package domain

// Framework describes an external command that performs a stage's work in place of the
// built-in reference backend (e.g. a Python training script).
type Framework struct {
	Command string            `json:"command" yaml:"command" mapstructure:"command"`
	Args    []string          `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty" mapstructure:"env"`
}

// Enabled reports whether a command is configured.
func (f *Framework) Enabled() bool {
	return f != nil && f.Command != ""
}

// Invocation is a request to run an external command on behalf of a stage.
type Invocation struct {
	Stage     StageName
	Framework Framework
	// Args are exported to the process as TEXTSUM_ARG_<KEY> environment variables.
	Args map[string]any
}

// InvocationResult is the captured outcome of an Invocation.
type InvocationResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
