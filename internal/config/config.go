package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Digests of the two built-in accounts (student / recruiter). Operators
// override the table with AUTH_USERS.
const defaultAuthUsers = "student:703b0a3d6ad75b649a28adde7d83c6251da457549263bc7ff45ec709b0a8448b," +
	"recruiter:5006bc9c4a11684307bb20e04a22625a69a47553943bef5a435c26dbbc6b5da8"

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Store    StoreConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Ranking  RankingConfig
	Guidance GuidanceConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

// StoreConfig selects where users and ranking history live: "memory" or "postgres".
type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type GeminiConfig struct {
	APIKey        string
	APIKeyFile    string
	ScoringModel  string
	AnalysisModel string
	EmbedModel    string
}

type AuthConfig struct {
	HashAlgorithm string
	Users         map[string]string
}

// StorageConfig controls archiving of uploaded resumes: "none", "local" or "s3".
type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxFileSize int64
	S3          S3Config
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type RankingConfig struct {
	Concurrency int
	DefaultTopN int
	MaxTopN     int
	// MaxResumes caps the resumes accepted by one ranking request.
	MaxResumes int
}

type GuidanceConfig struct {
	Enabled bool
	DocType string
	Limit   int
	Path    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	users, err := ParseUsers(getEnv("AUTH_USERS", defaultAuthUsers))
	if err != nil {
		log.Fatalf("invalid AUTH_USERS: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Log: LogConfig{
			JSON:  getEnv("LOG_FORMAT", "console") == "json",
			Debug: getEnv("LOG_LEVEL", "info") == "debug",
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ats_matcher"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_guidelines"),
			VectorSize: uint64(getEnvAsInt("QDRANT_VECTOR_SIZE", 768)),
		},
		Gemini: GeminiConfig{
			APIKey:        getEnv("GEMINI_API_KEY", ""),
			APIKeyFile:    getEnv("GEMINI_API_KEY_FILE", ""),
			ScoringModel:  getEnv("GEMINI_SCORING_MODEL", "gemini-2.5-flash"),
			AnalysisModel: getEnv("GEMINI_ANALYSIS_MODEL", "gemini-2.5-flash"),
			EmbedModel:    getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Auth: AuthConfig{
			HashAlgorithm: strings.ToLower(getEnv("AUTH_HASH_ALGORITHM", "sha256")),
			Users:         users,
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", "none")),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			S3: S3Config{
				Bucket:    getEnv("S3_BUCKET", ""),
				Region:    getEnv("S3_REGION", "auto"),
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
			},
		},
		Ranking: RankingConfig{
			Concurrency: getEnvAsInt("RANKING_CONCURRENCY", 3),
			DefaultTopN: getEnvAsInt("RANKING_DEFAULT_TOP_N", 3),
			MaxTopN:     getEnvAsInt("RANKING_MAX_TOP_N", 10),
			MaxResumes:  getEnvAsInt("RANKING_MAX_RESUMES", 50),
		},
		Guidance: GuidanceConfig{
			Enabled: getEnvAsBool("GUIDANCE_ENABLED", false),
			DocType: getEnv("GUIDANCE_DOC_TYPE", "resume_guideline"),
			Limit:   getEnvAsInt("GUIDANCE_LIMIT", 3),
			Path:    getEnv("GUIDANCE_PATH", "./reference_docs"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// formOverhead covers multipart boundaries and text fields of a request.
const formOverhead = 1 << 20

// RequestBodyLimit is the largest request body the server accepts: a full
// ranking request of MaxResumes resumes plus a job description, each at
// MaxFileSize.
func (c *Config) RequestBodyLimit() int {
	files := int64(c.Ranking.MaxResumes) + 1
	if files < 2 {
		files = 2
	}
	return int(c.Storage.MaxFileSize*files + formOverhead)
}

// ParseUsers reads a "user:hash,user:hash" list. Usernames are lower-cased.
func ParseUsers(raw string) (map[string]string, error) {
	users := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, hash, ok := strings.Cut(entry, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		hash = strings.TrimSpace(hash)
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("malformed entry %q, want user:hash", entry)
		}

		users[name] = hash
	}

	return users, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
