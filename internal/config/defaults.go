package config

const (
	defaultDataDir          = "~/.local/share/silabo"
	defaultLogDir           = "~/.local/share/silabo/logs"
	defaultInboxDir         = "~/.local/share/silabo/inbox"
	defaultSyllabiDir       = "~/.local/share/silabo/syllabi"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60

	defaultEmbeddingBaseURL = "http://localhost:11434"
	defaultEmbeddingModel   = "paraphrase-multilingual"
	defaultEmbeddingTimeout = 60
	defaultEmbeddingMaxLen  = 2000

	defaultLemmatizerMaxLen = 500000

	defaultMaintenanceSchedule = "0 3 * * *"

	defaultStoragePort    = 22
	defaultStorageTimeout = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			InboxDir:   defaultInboxDir,
			SyllabiDir: defaultSyllabiDir,
		},
		Embedding: Embedding{
			BaseURL:        defaultEmbeddingBaseURL,
			Model:          defaultEmbeddingModel,
			TimeoutSeconds: defaultEmbeddingTimeout,
			MaxInputChars:  defaultEmbeddingMaxLen,
		},
		Lemmatizer: Lemmatizer{
			Enabled:       true,
			MaxInputChars: defaultLemmatizerMaxLen,
		},
		Matcher: Matcher{
			SemanticHighBar:     0.82,
			LexicalConfirmBar:   0.35,
			SemanticVeryHighBar: 0.92,
			LexicalWeakBar:      0.20,
			AssignmentThreshold: 0.65,
			SemanticWeight:      0.70,
			LexicalWeight:       0.30,
		},
		Storage: Storage{
			Port:           defaultStoragePort,
			TimeoutSeconds: defaultStorageTimeout,
		},
		Workflow: Workflow{
			QueuePollInterval:  5,
			ErrorRetryInterval: 10,
			MaxRetries:         2,
			RetryBackoffBase:   10,
		},
		Watcher: Watcher{
			Enabled:       true,
			SettleSeconds: 2,
		},
		Maintenance: Maintenance{
			Schedule:         defaultMaintenanceSchedule,
			LogRetentionDays: defaultLogRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
