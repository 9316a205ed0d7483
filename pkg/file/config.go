package file

// LocalConfig configures LocalStorage from the environment.
type LocalConfig struct {
	Dir string `env:"OFFLINEQ_FILE_DIR" envDefault:"./data/queues"`
}

// S3Config contains configuration for S3 storage.
type S3Config struct {
	Bucket         string `env:"OFFLINEQ_S3_BUCKET"`
	Region         string `env:"OFFLINEQ_S3_REGION"`
	AccessKeyID    string `env:"OFFLINEQ_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"OFFLINEQ_S3_SECRET_KEY"`
	Endpoint       string `env:"OFFLINEQ_S3_ENDPOINT"`         // Optional: for S3-compatible services
	Prefix         string `env:"OFFLINEQ_S3_PREFIX"`           // Key prefix for queue objects
	ForcePathStyle bool   `env:"OFFLINEQ_S3_FORCE_PATH_STYLE"` // For S3-compatible services like MinIO
}
