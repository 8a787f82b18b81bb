// Package version holds build metadata, overridable via -ldflags -X.
package version

var (
	AppName        = "Server Herald"
	AppDescription = "Routes slash commands and batches message telemetry for your server."
	BuildDate      = ""
	GoVersion      = ""
	Commit         = ""
)
