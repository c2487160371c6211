package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	m "stagepatch.dev/pkg/stagepatch/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "stagepatch"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	configFlagName       = "config"
	inputFlagName        = "input"
	outputFlagName       = "output"
	reportsFlagName      = "reports"
	verboseFlagName      = "verbose"
	excludeFlagName      = "exclude"
	maxFuzzFlagName      = "max-fuzz"
	failOnRejectFlagName = "fail-on-reject"
	parallelFlagName     = "parallel"

	inputConfigKey        = "input"
	outputConfigKey       = "output"
	reportsConfigKey      = "reports"
	rejectsConfigKey      = "rejects"
	maxFuzzConfigKey      = "patch.max_fuzz"
	accessC14NConfigKey   = "patch.access_c14n"
	parallelConfigKey     = "patch.parallel"
	excludeConfigKey      = "paths.exclude"
	failOnRejectConfigKey = "fail_on_reject"
	stagesConfigKey       = "stages"

	defaultReportsDir   = ".stagepatch"
	defaultRejectsDir   = ""
	defaultMaxFuzz      = 0
	defaultAccessC14N   = true
	defaultParallel     = 4
	defaultFailOnReject = true

	envPrefix = "STAGEPATCH"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".stagepatch.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(inputConfigKey, "")
	viper.SetDefault(outputConfigKey, "")
	viper.SetDefault(reportsConfigKey, defaultReportsDir)
	viper.SetDefault(rejectsConfigKey, defaultRejectsDir)
	viper.SetDefault(maxFuzzConfigKey, defaultMaxFuzz)
	viper.SetDefault(accessC14NConfigKey, defaultAccessC14N)
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(failOnRejectConfigKey, defaultFailOnReject)
	viper.SetDefault(stagesConfigKey, []map[string]any{})

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	_ = readConfig()
}

// readConfig loads the configured file. A missing file is not an error.
func readConfig() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read config: %w", err)
}

// loadStages decodes the stage list from the configuration.
func loadStages() ([]m.Stage, error) {
	var stages []m.Stage
	if err := viper.UnmarshalKey(stagesConfigKey, &stages); err != nil {
		return nil, fmt.Errorf("decode %s: %w", stagesConfigKey, err)
	}

	for i, stage := range stages {
		if strings.TrimSpace(stage.Name) == "" {
			stages[i].Name = fmt.Sprintf("stage-%d", i+1)
		}
	}

	return stages, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
