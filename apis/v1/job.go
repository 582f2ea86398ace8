package v1

const CheckJobKind = "CheckJob"

type CheckJob struct {
	Kind     string       `yaml:"kind" json:"kind" validate:"required,eq=CheckJob"`
	Metadata Metadata     `yaml:"metadata" json:"metadata"`
	Spec     CheckJobSpec `yaml:"spec" json:"spec"`
}

type Metadata struct {
	Name string `yaml:"name" json:"name" validate:"required"`
}

type CheckJobSpec struct {
	Targets  []Target          `yaml:"targets" json:"targets" validate:"required,min=1,unique=ID,dive"`
	Headers  map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Timeouts *TimeoutSpec      `yaml:"timeouts,omitempty" json:"timeouts,omitempty"`
	Output   *OutputSpec       `yaml:"output,omitempty" json:"output,omitempty"`
}

// Target is one pizza service instance to check.
type Target struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Host string `yaml:"host" json:"host" validate:"required"`
	Port int    `yaml:"port" json:"port" validate:"min=1,max=65535"`
	// Flag is stored instead of a freshly generated one when set.
	Flag *string `yaml:"flag,omitempty" json:"flag,omitempty"`
}

// TimeoutSpec overrides the per-request timeouts, in seconds.
type TimeoutSpec struct {
	SetFlag *int `yaml:"setflag,omitempty" json:"setflag,omitempty" validate:"omitempty,gt=0"`
	GetFlag *int `yaml:"getflag,omitempty" json:"getflag,omitempty" validate:"omitempty,gt=0"`
}

// OutputSpec configures how results are written.
type OutputSpec struct {
	// Encoding configures the output format (default: json with compact output).
	Encoding *EncodingSpec `yaml:"encoding,omitempty" json:"encoding,omitempty"`

	// Sink configures where output is written (default: stdout).
	Sink *SinkSpec `yaml:"sink,omitempty" json:"sink,omitempty"`
}

type EncodingSpec struct {
	JSON *JSONEncodingSpec `yaml:"json,omitempty" json:"json,omitempty"`
}

// JSONEncodingSpec configures JSON encoding.
type JSONEncodingSpec struct {
	// Indent specifies indentation. Empty = compact, "  " = 2 spaces, "\t" = tabs.
	Indent string `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// SinkSpec configures the output destination (at most one of the fields should be set).
type SinkSpec struct {
	Stdout     *StdoutSpec     `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Filesystem *FilesystemSpec `yaml:"filesystem,omitempty" json:"filesystem,omitempty"`
}

type StdoutSpec struct{}

// FilesystemSpec writes one file per target.
type FilesystemSpec struct {
	// Path is the base directory, defaulting to the working directory.
	Path *string `yaml:"path,omitempty" json:"path,omitempty"`
	// Prefix is joined to Path.
	Prefix *string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
}
