package runner

// Result holds the outcome of a child process that exited normally.
type Result struct {
	RunID     string   // unique identifier for this run
	Argv      []string // argv as started
	Mode      Mode
	ExitCode  int    // process exit code
	Stdout    []byte // captured stdout (Capture and Collect modes)
	Stderr    []byte // captured stderr (Collect mode)
	Truncated bool   // true if output may have exceeded the bound
}
