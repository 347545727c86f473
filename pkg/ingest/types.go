package ingest

import (
	"errors"
	"fmt"
	"time"
)

// RunConfig contains all parameters needed for one ingestion run.
type RunConfig struct {
	// TableName selects the registered table definition
	TableName string

	// EditionDate selects the edition entry in the metadata document
	EditionDate string

	// WorkDir anchors relative paths found in the metadata document
	WorkDir string

	// DataDir is the conventional location of raw files when an edition has no raw_path
	DataDir string

	// MetadataFile is the path of the metadata document (TOML or YAML)
	MetadataFile string

	// DestinationSchema is the PostgreSQL schema receiving the validated table
	DestinationSchema string

	// DryRun stops after validation: no metadata and no data are written
	DryRun bool

	// Timeout is the global timeout for the entire run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.TableName == "" {
		errs = append(errs, fmt.Errorf("TableName is required: %w", ErrInvalidConfig))
	}

	if c.EditionDate == "" {
		errs = append(errs, fmt.Errorf("EditionDate is required: %w", ErrInvalidConfig))
	}

	if c.MetadataFile == "" {
		errs = append(errs, fmt.Errorf("MetadataFile is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// SchemaValidator enforces the structural contract of one table.
type SchemaValidator interface {
	// Name identifies the schema in logs and provenance records.
	Name() string

	// Validate checks and coerces t. Failures wrap ErrValidationFailed.
	Validate(t *Table) (*ValidatedTable, error)

	// FieldTypes returns the declared type of every field, keyed by field name.
	FieldTypes() map[string]FieldType
}

// TableDefinition binds a table name to everything a run needs to load it.
type TableDefinition struct {
	// Name is the table key in the metadata document and the default destination table name
	Name string

	// Description is shown by `ingest tables`
	Description string

	// FileType declares the structure of the raw source file
	FileType FileType

	// WriteMode selects replace or append at the destination
	WriteMode WriteMode

	// Schema validates the cleaned table
	Schema SchemaValidator

	// Transform cleans the raw table
	Transform TransformFunc

	// ScriptPath is the source file that defines this table, stamped into provenance
	ScriptPath string

	// Destination overrides the destination table name (defaults to Name)
	Destination string
}

// DestinationName returns the destination table name.
func (d TableDefinition) DestinationName() string {
	if d.Destination != "" {
		return d.Destination
	}
	return d.Name
}

// Validate checks that the definition is complete.
func (d TableDefinition) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, fmt.Errorf("table definition name is required: %w", ErrInvalidConfig))
	}
	if d.Schema == nil {
		errs = append(errs, fmt.Errorf("table %q has no schema: %w", d.Name, ErrInvalidConfig))
	}
	if d.Transform == nil {
		errs = append(errs, fmt.Errorf("table %q has no transform: %w", d.Name, ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Client certificate authentication (AuthMethodCertificate)
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// Otherwise the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodCertificate                    // mTLS
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodCertificate:
		return "Certificate"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// RunState is a stage of the ingestion state machine.
type RunState int

const (
	StatePending RunState = iota
	StateLoaded
	StateTransformed
	StateValidated
	StateAudited
	StatePersisted
	StateAborted
)

// String returns the upper-case state name used in logs.
func (s RunState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateLoaded:
		return "LOADED"
	case StateTransformed:
		return "TRANSFORMED"
	case StateValidated:
		return "VALIDATED"
	case StateAudited:
		return "AUDITED"
	case StatePersisted:
		return "PERSISTED"
	case StateAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Outcome classifies how a run ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota // Data persisted
	OutcomeNoOp                     // Transform declined; nothing written
	OutcomeDryRun                   // Validated only; nothing written
	OutcomeFailed                   // Aborted by an error
)

// String returns a human-readable string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeNoOp:
		return "no-op"
	case OutcomeDryRun:
		return "dry-run"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", o)
	}
}

// RunResult reports where a run stopped and what it wrote.
type RunResult struct {
	Table       string
	EditionDate string

	// State is the last state reached; StateAborted for no-op, dry-run and failures
	State RunState

	// LastStage is the last successful stage before an abort
	LastStage RunState

	Outcome Outcome

	// Reason explains an abort (no-op reason, dry-run, or error text)
	Reason string

	// RowsWritten is the number of rows committed to the destination
	RowsWritten int64

	// Edition is the provenance record committed for this run (nil if none)
	Edition *EditionRecord

	Duration time.Duration
}
