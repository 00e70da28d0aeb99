package launcher

import (
	"context"

	"github.com/ek9lang/ek9launch/internal/artifact"
)

// Status describes whether a launch could succeed right now.
type Status struct {
	Artifact     string
	UsedOverride bool
	Warning      string
	ArtifactErr  error
	JavaVersion  int
	JavaErr      error
	Memory       string
}

// Ready reports whether both the artifact and the toolchain are usable.
func (s *Status) Ready() bool {
	return s.ArtifactErr == nil && s.JavaErr == nil
}

// Status runs the same checks as Launch without starting the compiler.
func (e *Engine) Status(ctx context.Context, loc artifact.Location) *Status {
	st := &Status{
		Artifact:     loc.Path,
		UsedOverride: loc.UsedOverride,
		Warning:      loc.Warning,
		ArtifactErr:  loc.Check(),
		Memory:       e.config().Memory(e.Env),
	}
	if e.Validator != nil {
		st.JavaVersion, st.JavaErr = e.Validator.Validate(ctx)
	}
	return st
}
