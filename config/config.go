package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fern-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	TLSMinVersion                 string   `env:"HTTP_SERVER_TLS_MIN_VERSION" env-default:"TLS_1_2"`
	TLSMaxVersion                 string   `env:"HTTP_SERVER_TLS_MAX_VERSION" env-default:"TLS_1_2"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL (Campaign Database)
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"fern"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	DatabaseMigrationVersion      int           `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Read replica. Blank host routes reads to the writer.
	DatabaseReaderHost     string `env:"DB_READER_HOST" env-default:""`
	DatabaseReaderPort     string `env:"DB_READER_PORT" env-default:"5432"`
	DatabaseReaderUserName string `env:"DB_READER_USER_NAME" env-default:""`
	DatabaseReaderPassword string `env:"DB_READER_PASSWORD" env-default:""`

	// Auth
	AuthEnabled   bool   `env:"AUTH_ENABLED" env-default:"false"`
	AuthIssuerURL string `env:"AUTH_ISSUER_URL" env-default:""`
	AuthClientID  string `env:"AUTH_CLIENT_ID" env-default:""`

	// Kafka Producer settings
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaProducerEnabled bool     `env:"KAFKA_PRODUCER_ENABLED" env-default:"false"`
	KafkaOutputTopic     string   `env:"KAFKA_OUTPUT_TOPIC" env-default:"campaign-events"`
	KafkaBatchSize       int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout    int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks    int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression     string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" env-default:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	OTLPProtocol   string `env:"OTLP_PROTOCOL" env-default:"grpc"`

	// Sweep
	SweepChunkSize        int    `env:"SWEEP_CHUNK_SIZE" env-default:"1000"`
	SweepDefaultStateCode string `env:"SWEEP_DEFAULT_STATE_CODE" env-default:""`
}
