package config

import "os"

// QueueConfig points at the RabbitMQ broker carrying film change events.
// An empty URL disables publishing.
type QueueConfig struct {
	URL   string
	Queue string
}

// LoadQueueConfig reads RABBITMQ_URL (or AMQP_URL) and FILM_EVENTS_QUEUE.
func LoadQueueConfig() QueueConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return QueueConfig{
		URL:   url,
		Queue: envStr("FILM_EVENTS_QUEUE", "film.changed"),
	}
}

// StorageConfig configures the MinIO bucket holding document files.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	PublicURL       string
}

// Configured reports whether enough settings are present to build a client.
func (s StorageConfig) Configured() bool {
	return s.Endpoint != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Endpoint:        os.Getenv("MINIO_ENDPOINT"),
		AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("MINIO_SECRET_ACCESS_KEY"),
		Bucket:          envStr("MINIO_BUCKET", "film-documents"),
		Region:          envStr("MINIO_REGION", "us-east-1"),
		UseSSL:          envBool("MINIO_USE_SSL", true),
		PublicURL:       os.Getenv("MINIO_PUBLIC_URL"),
	}
}

// CitationConfig shapes the reference string attached to aggregated films.
type CitationConfig struct {
	Publisher string
	URL       string
}

func LoadCitationConfig() CitationConfig {
	return CitationConfig{
		Publisher: envStr("CITATION_PUBLISHER", "EAC Lab Database. Indiana University Bloomington."),
		URL:       envStr("CITATION_URL", "https://localhost:5001/films"),
	}
}
