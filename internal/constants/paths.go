package constants

// Generated artifact layout. These names are a contract with consumers of the archive.
const (
	// BuildLogsDir holds per-phase logs and reports inside the project.
	BuildLogsDir = "BUILD_LOGS"

	// InstallLogFileName captures the install phase.
	InstallLogFileName = "install.log"

	// BuildLogFileName captures the build phase.
	BuildLogFileName = "build.log"

	// TestLogFileName captures the test phase.
	TestLogFileName = "test.log"

	// FileTreeFileName is the rendered project tree.
	FileTreeFileName = "file-tree.txt"

	// DependencyReportFileName is the dependency census.
	DependencyReportFileName = "dependency_report.json"

	// TestReportFileName is the static test report placeholder.
	TestReportFileName = "tests-report.html"

	// BuildSummaryFileName is the human-readable build summary.
	BuildSummaryFileName = "BUILD_SUMMARY.md"

	// DeployPlaybookFileName holds per-target deployment instructions.
	DeployPlaybookFileName = "DEPLOY_PLAYBOOK.md"

	// SecurityNotesFileName holds the posture-graded security recommendations.
	SecurityNotesFileName = "SECURITY_NOTES.md"

	// LicenseFileName is the license body.
	LicenseFileName = "LICENSE"

	// WhyChoicesFileName is the scaffolding rationale document.
	WhyChoicesFileName = "why-choices.md"

	// ManifestFileName is the artifact manifest, always written last.
	ManifestFileName = "artifact_manifest.json"

	// ReadmeFileName is the project readme.
	ReadmeFileName = "README.md"

	// TemplateManifestFileName is the per-style template manifest.
	TemplateManifestFileName = "manifest.yaml"

	// SessionLockFileName guards a build session directory.
	SessionLockFileName = ".kodarch.lock"

	// SessionFileName holds build session metadata inside the session directory.
	SessionFileName = "session.json"
)

// Record file names used by the record store.
const (
	// ProjectRecordFileName is the persisted project record.
	ProjectRecordFileName = "project.json"

	// LogRecordsFileName holds one JSON log record per line.
	LogRecordsFileName = "logs.jsonl"

	// ArtifactRecordFileName is the persisted artifact record.
	ArtifactRecordFileName = "artifact.json"
)

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.kodarch/logs/kodarch.log
	CLILogFileName = "kodarch.log"

	// LogMaxSizeMB is the rotation threshold for the CLI log file.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of rotated files.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated files.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file in KodarchHome.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the per-directory configuration folder.
	ProjectConfigDir = ".kodarch"
)

// EnvFileNames are the environment files sanitized before packaging.
//
//nolint:gochecknoglobals // read-only list
var EnvFileNames = []string{".env", ".env.local", ".env.example"}

// DefaultExcludes are the dependency-cache and version-control subtrees kept
// out of manifests and archives.
//
//nolint:gochecknoglobals // read-only list
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"target/**",
	".venv/**",
	"**/__pycache__/**",
}
