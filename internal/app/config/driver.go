package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}
	MongoDB struct {
		URI    string
		DbName string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Logger struct {
		Level               string
		Encoding            string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port           string
		Host           string
		Username       string
		Password       string
		RunEventsQueue string
	}
	Minio struct {
		Endpoint string
		Username string
		Password string
		Bucket   string
		UseSSL   bool
	}
)

// The backing services are optional: each one is enabled by configuring its
// address and otherwise replaced by an in-process implementation.

func (m MongoDB) Enabled() bool {
	return m.URI != ""
}

func (r Redis) Enabled() bool {
	return r.Host != ""
}

func (r RabbitMQ) Enabled() bool {
	return r.Host != ""
}

func (m Minio) Enabled() bool {
	return m.Endpoint != ""
}
