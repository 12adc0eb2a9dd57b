package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DBConfig       `yaml:"database"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	ChatLLM  LLMConfig      `yaml:"chat_llm"`
	VectorDB VectorDBConfig `yaml:"vector_db"`
	RAG      RAGConfig      `yaml:"rag"`
}

type DBConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai" or "ollama"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

type VectorDBConfig struct {
	Path          string `yaml:"path"`
	Collection    string `yaml:"collection"`
	InMemory      bool   `yaml:"in_memory"`
	EncryptionKey string `yaml:"encryption_key"`
}

type RAGConfig struct {
	ChunkSize        int      `yaml:"chunk_size"`
	ChunkOverlap     int      `yaml:"chunk_overlap"`
	CodeChunkSize    int      `yaml:"code_chunk_size"`
	CodeChunkOverlap int      `yaml:"code_chunk_overlap"`
	// SearchCandidates sizes the ANN candidate pool. The bundled chromem
	// store scores exhaustively and reads SearchLimit only.
	SearchCandidates int      `yaml:"search_candidates"`
	SearchLimit      int      `yaml:"search_limit"`
	TopK             int      `yaml:"top_k"`
	AllowedFileTypes []string `yaml:"allowed_file_types"`
	MaxFileSizeMB    int      `yaml:"max_file_size_mb"`
}

const (
	defaultChunkSize        = 1000
	defaultChunkOverlap     = 200
	defaultCodeChunkSize    = 1500
	defaultCodeChunkOverlap = 200
	defaultSearchCandidates = 100
	defaultSearchLimit      = 20
	defaultTopK             = 5
	defaultMaxFileSizeMB    = 25
)

func defaultFileTypes() []string {
	return []string{".pdf", ".docx", ".txt", ".md", ".csv", ".xlsx", ".py", ".js", ".java", ".cpp", ".go"}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued tuning fields so partial configs and the
// zero Config stay usable.
func (c *Config) ApplyDefaults() {
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.CodeChunkSize == 0 {
		c.RAG.CodeChunkSize = defaultCodeChunkSize
	}
	if c.RAG.CodeChunkOverlap == 0 {
		c.RAG.CodeChunkOverlap = defaultCodeChunkOverlap
	}
	if c.RAG.SearchCandidates == 0 {
		c.RAG.SearchCandidates = defaultSearchCandidates
	}
	if c.RAG.SearchLimit == 0 {
		c.RAG.SearchLimit = defaultSearchLimit
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.MaxFileSizeMB == 0 {
		c.RAG.MaxFileSizeMB = defaultMaxFileSizeMB
	}
	if len(c.RAG.AllowedFileTypes) == 0 {
		c.RAG.AllowedFileTypes = defaultFileTypes()
	}
}
