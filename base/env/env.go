package env

import (
	"os"
)

// PodName example: k8ssta-settlement-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName example: k8ssta
func EnvName() string {
	return os.Getenv("ENV_NAME")
}

// AppName example: auction-cli
func AppName() string {
	return os.Getenv("APP_NAME")
}

// MongoURI points integration suites at a live mongo, empty means skip.
func MongoURI() string {
	return os.Getenv("MONGO_URI")
}

// RedisURI points integration suites at a live redis, empty means skip.
func RedisURI() string {
	return os.Getenv("REDIS_URI")
}
