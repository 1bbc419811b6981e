package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldSession    = "session"

	// Configuration fields.
	FieldConfig  = "config"
	FieldFormat  = "format"
	FieldDryRun  = "dry_run"
	FieldWrite   = "write"
	FieldBackups = "backups"

	// Position fields.
	FieldOffset    = "offset"
	FieldEndOffset = "end_offset"
	FieldLine      = "line"
	FieldColumn    = "column"

	// Operation fields.
	FieldRule        = "rule"
	FieldOperations  = "operations"
	FieldPick        = "pick"
	FieldDescription = "description"
	FieldAdditions   = "additions"
	FieldDeletions   = "deletions"

	// Version fields.
	FieldVersion  = "version"
	FieldCommit   = "commit"
	FieldBuilt    = "built"
	FieldRuntime  = "go"
	FieldPlatform = "platform"

	// Rule catalog fields.
	FieldName    = "name"
	FieldEnabled = "enabled"
)
