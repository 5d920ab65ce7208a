package config

import (
	"net/url"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Serve   ServeConfig   `yaml:"serve"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	SiteURL     string `yaml:"site_url"`
	Description string `yaml:"description"`
	Language    string `yaml:"language"`
}

type ContentConfig struct {
	SourceDir    string `yaml:"source_dir"`
	ExportDir    string `yaml:"export_dir"`
	RelatedLimit int    `yaml:"related_limit"`
	LatestCount  int    `yaml:"latest_count"`
}

type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Writings",
			Language: "en",
		},
		Content: ContentConfig{
			SourceDir:    "content/posts",
			ExportDir:    "public",
			RelatedLimit: 3,
			LatestCount:  3,
		},
		Serve: ServeConfig{
			Addr:  ":8080",
			Watch: true,
		},
	}
}

func (c Config) Validate() error {
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	return c.Serve.Validate()
}

func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.SiteURL, validation.By(optionalAbsURL)),
	)
}

func (c ContentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SourceDir, validation.Required),
		validation.Field(&c.ExportDir, validation.Required),
		validation.Field(&c.RelatedLimit, validation.Min(1)),
		validation.Field(&c.LatestCount, validation.Min(1)),
	)
}

func (c ServeConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
	)
}

func optionalAbsURL(value interface{}) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_abs_url", "must be a valid absolute URL")
	}
	return nil
}

// Load 读取配置文件，文件里写到的字段覆盖默认值。
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault 同 Load，但文件不存在时直接用默认配置。
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return cfg, err
}
