package command

const (
	JSONOutputFlag = "json"
	ConfigFlag     = "config"
	LogLevelFlag   = "log-level"
)

const (
	DefaultLoggerName = "glox"
	DefaultLogLevel   = "INFO"
)
