package worker

import (
	"time"

	"github.com/hirelog-io/preprocess/internal/config"
)

// Config is the broker and runtime configuration shared by the three source
// workers.
type Config struct {
	BootstrapServers []string

	TextTopic   string
	OCRTopic    string
	URLTopic    string
	ResultTopic string
	FailTopic   string

	ConsumerGroup string

	ShutdownTimeout time.Duration
	BackupDir       string
	KeywordDir      string
}

// LoadConfig reads the worker configuration from the environment. Every
// value has a local-development default.
func LoadConfig() Config {
	return Config{
		BootstrapServers: config.ParseCommaSeparatedList(
			config.GetEnvStr("KAFKA_BOOTSTRAP_SERVERS", "127.0.0.1:19092")),

		TextTopic:   config.GetEnvStr("KAFKA_TEXT_TOPIC", "jd.preprocess.text.request"),
		OCRTopic:    config.GetEnvStr("KAFKA_OCR_TOPIC", "jd.preprocess.ocr.request"),
		URLTopic:    config.GetEnvStr("KAFKA_URL_TOPIC", "jd.preprocess.url.request"),
		ResultTopic: config.GetEnvStr("KAFKA_RESULT_TOPIC", "jd.preprocess.response"),
		FailTopic:   config.GetEnvStr("KAFKA_FAIL_TOPIC", "jd.preprocess.response.fail"),

		ConsumerGroup: config.GetEnvStr("KAFKA_CONSUMER_GROUP", "preprocess-group"),

		ShutdownTimeout: config.GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		BackupDir:       config.GetEnvStr("FAIL_BACKUP_DIR", "fail_backup"),
		KeywordDir:      config.GetEnvStr("KEYWORD_CONFIG_DIR", "configs/keywords"),
	}
}
