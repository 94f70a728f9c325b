/*
 * @module service/config/config
 * @description 应用配置加载：默认值 -> 配置文件(yaml) -> .env -> 环境变量覆盖 -> 校验
 * @architecture 分层架构 - 基础设施层
 * @documentReference DESIGN.md
 * @stateFlow 启动时加载一次，运行期只读
 * @rules 环境变量优先级最高，配置校验失败时拒绝启动
 * @dependencies github.com/joho/godotenv, gopkg.in/yaml.v3, github.com/spf13/cast
 * @refs main.go, cmd/inspectctl
 */

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // postgres, sqlite
	URL        string `yaml:"url"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	Schema     string `yaml:"schema"`
	SQLitePath string `yaml:"sqlite_path"`
}

// DSN 构建postgres连接串，DATABASE_URL 优先
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Schema)
}

// RedisConfig 分布式锁使用的Redis
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled 未配置主机时使用进程内锁
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// NotifyConfig 导入事件通知
type NotifyConfig struct {
	Driver       string   `yaml:"driver"` // none, kafka, mqtt
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	MQTTBroker   string   `yaml:"mqtt_broker"`
	MQTTClientID string   `yaml:"mqtt_client_id"`
	MQTTTopic    string   `yaml:"mqtt_topic"`
}

// ArchiveConfig 导出文件归档到S3
type ArchiveConfig struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Enabled 是否启用归档
func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// ScheduleConfig 定时任务
type ScheduleConfig struct {
	WhitelistFile          string `yaml:"whitelist_file"`
	WhitelistReloadCron    string `yaml:"whitelist_reload_cron"`
	ImportLogRetentionDays int    `yaml:"import_log_retention_days"`
	ImportLogCleanupCron   string `yaml:"import_log_cleanup_cron"`
}

// Config 应用配置
type Config struct {
	ListenPort     string         `yaml:"listen_port"`
	BaseContext    string         `yaml:"base_context"`
	LogLevel       string         `yaml:"log_level"`
	AdminUsers     []string       `yaml:"admin_users"`
	AdminTokenHash string         `yaml:"admin_token_hash"`
	MaxUploadMB    int64          `yaml:"max_upload_mb"`
	UploadLimit    int            `yaml:"upload_limit"` // 每个操作人每分钟上传次数，0表示不限
	InspectionFile string         `yaml:"inspection_file"`
	Database       DatabaseConfig `yaml:"database"`
	Redis          RedisConfig    `yaml:"redis"`
	Notify         NotifyConfig   `yaml:"notify"`
	Archive        ArchiveConfig  `yaml:"archive"`
	Schedule       ScheduleConfig `yaml:"schedule"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		ListenPort:  "8080",
		BaseContext: "",
		LogLevel:    "info",
		AdminUsers:  []string{"admin"},
		MaxUploadMB: 16,
		UploadLimit: 10,
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       "5432",
			User:       "postgres",
			Password:   "postgres",
			Name:       "postgres",
			SSLMode:    "disable",
			Schema:     "public",
			SQLitePath: "inspection.db",
		},
		Redis: RedisConfig{Port: "6379"},
		Notify: NotifyConfig{
			Driver:       "none",
			KafkaTopic:   "inspection-import-events",
			MQTTClientID: "inspection-review-service",
			MQTTTopic:    "inspection/import-events",
		},
		Archive: ArchiveConfig{Prefix: "exports", Region: "ap-southeast-1"},
		Schedule: ScheduleConfig{
			ImportLogRetentionDays: 30,
			ImportLogCleanupCron:   "0 30 2 * * *",
		},
	}
}

// Load 加载配置
func Load() (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg := Default()
	path := getEnvWithDefault("CONFIG_FILE", "config.yaml")
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}
	return cfg, nil
}

// loadFile 读取yaml配置文件，文件不存在时跳过
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides 环境变量覆盖
func (c *Config) applyEnvironmentOverrides() {
	c.ListenPort = getEnvWithDefault("LISTEN_PORT", c.ListenPort)
	c.BaseContext = getEnvWithDefault("BASE_CONTEXT", c.BaseContext)
	c.LogLevel = getEnvWithDefault("LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("ADMIN_USERS"); v != "" {
		c.AdminUsers = splitList(v)
	}
	c.AdminTokenHash = getEnvWithDefault("ADMIN_TOKEN_HASH", c.AdminTokenHash)
	c.MaxUploadMB = cast.ToInt64(getEnvWithDefault("MAX_UPLOAD_MB", cast.ToString(c.MaxUploadMB)))
	c.UploadLimit = cast.ToInt(getEnvWithDefault("UPLOAD_LIMIT", cast.ToString(c.UploadLimit)))
	c.InspectionFile = getEnvWithDefault("INSPECTION_FILE", c.InspectionFile)

	db := &c.Database
	db.Driver = getEnvWithDefault("DB_DRIVER", db.Driver)
	db.URL = getEnvWithDefault("DATABASE_URL", db.URL)
	db.Host = getEnvWithDefault("DB_HOST", db.Host)
	db.Port = getEnvWithDefault("DB_PORT", db.Port)
	db.User = getEnvWithDefault("DB_USER", db.User)
	db.Password = getEnvWithDefault("DB_PASSWORD", db.Password)
	db.Name = getEnvWithDefault("DB_NAME", db.Name)
	db.SSLMode = getEnvWithDefault("DB_SSLMODE", db.SSLMode)
	db.Schema = getEnvWithDefault("DB_SCHEMA", db.Schema)
	db.SQLitePath = getEnvWithDefault("SQLITE_PATH", db.SQLitePath)

	c.Redis.Host = getEnvWithDefault("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnvWithDefault("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnvWithDefault("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = cast.ToInt(getEnvWithDefault("REDIS_DB", cast.ToString(c.Redis.DB)))

	n := &c.Notify
	n.Driver = getEnvWithDefault("NOTIFY_DRIVER", n.Driver)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		n.KafkaBrokers = splitList(v)
	}
	n.KafkaTopic = getEnvWithDefault("KAFKA_TOPIC", n.KafkaTopic)
	n.MQTTBroker = getEnvWithDefault("MQTT_BROKER", n.MQTTBroker)
	n.MQTTClientID = getEnvWithDefault("MQTT_CLIENT_ID", n.MQTTClientID)
	n.MQTTTopic = getEnvWithDefault("MQTT_TOPIC", n.MQTTTopic)

	c.Archive.Bucket = getEnvWithDefault("EXPORT_ARCHIVE_BUCKET", c.Archive.Bucket)
	c.Archive.Prefix = getEnvWithDefault("EXPORT_ARCHIVE_PREFIX", c.Archive.Prefix)
	c.Archive.Region = getEnvWithDefault("AWS_REGION", c.Archive.Region)
	c.Archive.Endpoint = getEnvWithDefault("EXPORT_ARCHIVE_ENDPOINT", c.Archive.Endpoint)

	s := &c.Schedule
	s.WhitelistFile = getEnvWithDefault("WHITELIST_FILE", s.WhitelistFile)
	s.WhitelistReloadCron = getEnvWithDefault("WHITELIST_RELOAD_CRON", s.WhitelistReloadCron)
	s.ImportLogRetentionDays = cast.ToInt(getEnvWithDefault("IMPORT_LOG_RETENTION_DAYS", cast.ToString(s.ImportLogRetentionDays)))
	s.ImportLogCleanupCron = getEnvWithDefault("IMPORT_LOG_CLEANUP_CRON", s.ImportLogCleanupCron)
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}
	if port := cast.ToInt(c.ListenPort); port <= 0 || port > 65535 {
		return fmt.Errorf("监听端口无效: %s", c.ListenPort)
	}
	switch c.Notify.Driver {
	case "", "none":
	case "kafka":
		if len(c.Notify.KafkaBrokers) == 0 {
			return fmt.Errorf("启用kafka通知时必须配置 KAFKA_BROKERS")
		}
	case "mqtt":
		if c.Notify.MQTTBroker == "" {
			return fmt.Errorf("启用mqtt通知时必须配置 MQTT_BROKER")
		}
	default:
		return fmt.Errorf("不支持的通知方式: %s", c.Notify.Driver)
	}
	if c.Schedule.WhitelistReloadCron != "" && c.Schedule.WhitelistFile == "" {
		return fmt.Errorf("配置了白名单定时重载但未指定 WHITELIST_FILE")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("上传大小限制无效: %d", c.MaxUploadMB)
	}
	if c.UploadLimit < 0 {
		return fmt.Errorf("上传频率限制无效: %d", c.UploadLimit)
	}
	return nil
}

// IsAdmin 是否为管理员
func (c *Config) IsAdmin(operator string) bool {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return false
	}
	for _, u := range c.AdminUsers {
		if u == operator {
			return true
		}
	}
	return false
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
