package configs

import "github.com/spf13/viper"

// S3Config blob.type=s3 时使用的 S3 兼容对象存储（MinIO、AWS 等）.
// 存储桶不存在时启动阶段自动创建.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
	// Prefix 所有对象键的公共前缀，可为空.
	Prefix string `mapstructure:"prefix"`
}

func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", "localhost:9000")
	v.SetDefault("s3.access_key_id", "minioadmin")
	v.SetDefault("s3.secret_access_key", "minioadmin")
	v.SetDefault("s3.use_ssl", false)
	v.SetDefault("s3.bucket_name", "sharevault")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.prefix", "")
}
