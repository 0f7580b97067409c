package types

// Defaults reproduce the layout the extractor has always used: the HTML
// export sits in the working directory and the split files land in data/.
const (
	DefaultSourceFile     = "warsh-tajweed-full-quran.html"
	DefaultDataDir        = "data"
	DefaultEngineFile     = "engine.js"
	DefaultDataMarker     = "const WARSH_DATA ="
	DefaultEngineFunction = "detect"
	DefaultIndexDir       = "index"
)

// ExtractConfig holds settings for the extraction pipeline.
type ExtractConfig struct {
	// SourceFile is the self-contained HTML document holding the dataset.
	SourceFile string `json:"source_file" yaml:"source_file" mapstructure:"source_file"`

	// DataDir receives one <key>.json file per sura and nothing else.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// EngineFile is the path of the extracted tajweed script.
	EngineFile string `json:"engine_file" yaml:"engine_file" mapstructure:"engine_file"`

	// DataMarker is the literal text that introduces the data object.
	DataMarker string `json:"data_marker" yaml:"data_marker" mapstructure:"data_marker"`

	// EngineFunction names the function whose <script> block is extracted.
	EngineFunction string `json:"engine_function" yaml:"engine_function" mapstructure:"engine_function"`

	// NaiveBraces counts every brace character, including those inside
	// string literals and comments. Only safe when payload strings never
	// contain braces.
	NaiveBraces bool `json:"naive_braces" yaml:"naive_braces" mapstructure:"naive_braces"`

	// IndexFile, when set, is where a JSON table of contents (id, names,
	// verse count per sura) is written. Empty disables it.
	IndexFile string `json:"index_file" yaml:"index_file" mapstructure:"index_file"`
}

// DefaultExtractConfig returns the configuration used when no overrides are given.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		SourceFile:     DefaultSourceFile,
		DataDir:        DefaultDataDir,
		EngineFile:     DefaultEngineFile,
		DataMarker:     DefaultDataMarker,
		EngineFunction: DefaultEngineFunction,
	}
}

// WithDefaults fills empty fields from DefaultExtractConfig.
func (c ExtractConfig) WithDefaults() ExtractConfig {
	d := DefaultExtractConfig()
	if c.SourceFile == "" {
		c.SourceFile = d.SourceFile
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.EngineFile == "" {
		c.EngineFile = d.EngineFile
	}
	if c.DataMarker == "" {
		c.DataMarker = d.DataMarker
	}
	if c.EngineFunction == "" {
		c.EngineFunction = d.EngineFunction
	}
	return c
}

// CatalogConfig holds settings for the SQLite sura catalogue.
type CatalogConfig struct {
	// DataDir is the directory of split sura files to index.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// IndexDir holds the catalogue database and its exports.
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// PipelineConfig groups all stage configurations. It is the shape of the
// config file and is filled with viper.Unmarshal.
type PipelineConfig struct {
	Extract ExtractConfig `json:"extract" yaml:"extract" mapstructure:"extract"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}
