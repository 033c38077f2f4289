package config

// PublishConfig selects where generated feeds are written. An empty bucket means
// the local output directory.
type PublishConfig struct {
	GCSBucket   string
	GCSPrefix   string
	GCSEndpoint string
}

func loadPublish() PublishConfig {
	return PublishConfig{
		GCSBucket:   envString(envGCSBucket, ""),
		GCSPrefix:   envString(envGCSPrefix, ""),
		GCSEndpoint: envString(envGCSEndpoint, ""),
	}
}
