package constants

// Phase tags a build log entry with the pipeline stage that produced it.
type Phase string

// Pipeline phases in execution order.
const (
	PhaseInit        Phase = "init"
	PhaseParse       Phase = "parse"
	PhaseArchitect   Phase = "architect"
	PhaseInstall     Phase = "install"
	PhaseBuild       Phase = "build"
	PhaseTest        Phase = "test"
	PhaseReports     Phase = "reports"
	PhaseArtifactize Phase = "artifactize"
	PhaseComplete    Phase = "complete"
)

// Phases returns all phases in execution order.
func Phases() []Phase {
	return []Phase{
		PhaseInit, PhaseParse, PhaseArchitect, PhaseInstall, PhaseBuild,
		PhaseTest, PhaseReports, PhaseArtifactize, PhaseComplete,
	}
}

// String returns the string representation of the Phase.
func (p Phase) String() string {
	return string(p)
}

// Severity grades a build log entry.
type Severity string

// Severity levels.
const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	return string(s)
}

// Rank orders severities so the worst outcome of a phase can be found.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// BuildStatus represents the lifecycle of a persisted project record.
//
//	Pending → Building
//	Building → Completed, Failed
type BuildStatus string

// Build status constants.
const (
	// BuildStatusPending indicates the record exists but no pipeline work has started.
	BuildStatusPending BuildStatus = "pending"

	// BuildStatusBuilding indicates the pipeline is running.
	BuildStatusBuilding BuildStatus = "building"

	// BuildStatusCompleted indicates an archive was produced.
	BuildStatusCompleted BuildStatus = "completed"

	// BuildStatusFailed indicates packaging failed.
	BuildStatusFailed BuildStatus = "failed"
)

// String returns the string representation of the BuildStatus.
func (s BuildStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusCompleted || s == BuildStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a valid lifecycle step.
func (s BuildStatus) CanTransitionTo(next BuildStatus) bool {
	switch s {
	case BuildStatusPending:
		return next == BuildStatusBuilding
	case BuildStatusBuilding:
		return next == BuildStatusCompleted || next == BuildStatusFailed
	default:
		return false
	}
}
