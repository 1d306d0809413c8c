package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SupplierConfig describes one supplier source: where its price list
// lives, how to pull it, and the parsing quirks of its titles/prices.
type SupplierConfig struct {
	SupplierID   int    `yaml:"supplier_id"`
	SupplierName string `yaml:"supplier_name"`

	// Strategy is one of: http, browser, pdf, xlsx, mail.
	Strategy string `yaml:"strategy"`

	URLs       []string          `yaml:"urls,omitempty"`
	InputFile  string            `yaml:"input_file,omitempty"`
	UserAgent  string            `yaml:"user_agent,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
	MailSender string            `yaml:"mail_sender,omitempty"`

	Selectors   SelectorConfig `yaml:"selectors,omitempty"`
	PriceFormat PriceFormat    `yaml:"price_format,omitempty"`
	Parser      ParserConfig   `yaml:"parser,omitempty"`
}

// SelectorConfig holds the CSS selectors for HTML/browser sources.
type SelectorConfig struct {
	ProductList string `yaml:"product_list"`
	Title       string `yaml:"title"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image,omitempty"`
	Description string `yaml:"description,omitempty"`
	OutOfStock  string `yaml:"out_of_stock,omitempty"`
	AddToCart   string `yaml:"add_to_cart,omitempty"`
	NextPage    string `yaml:"next_page,omitempty"`
}

type PriceFormat struct {
	Thousands  string   `yaml:"thousands,omitempty"`
	Decimal    string   `yaml:"decimal,omitempty"`
	Currencies []string `yaml:"currencies,omitempty"`
}

// ParserConfig carries the supplier-specific title parsing overlays.
type ParserConfig struct {
	DefaultUnit         string            `yaml:"default_unit,omitempty"`
	ExtraUnits          map[string]string `yaml:"extra_units,omitempty"`
	BrandSplit          bool              `yaml:"brand_split,omitempty"`
	DescriptionFallback bool              `yaml:"description_fallback,omitempty"`
	ForceKilo           bool              `yaml:"force_kilo,omitempty"`
}

var validStrategies = map[string]bool{
	"http":    true,
	"browser": true,
	"pdf":     true,
	"xlsx":    true,
	"mail":    true,
}

// LoadSupplier reads and validates a single supplier config file.
func LoadSupplier(path string) (SupplierConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SupplierConfig{}, fmt.Errorf("reading supplier config %s: %w", path, err)
	}

	var cfg SupplierConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SupplierConfig{}, fmt.Errorf("parsing supplier config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return SupplierConfig{}, fmt.Errorf("invalid supplier config %s: %w", path, err)
	}

	return cfg, nil
}

// ListSuppliers loads every *.yml / *.yaml config under dir, sorted by
// supplier name for stable iteration.
func ListSuppliers(dir string) ([]SupplierConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading supplier config dir %s: %w", dir, err)
	}

	var configs []SupplierConfig
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		cfg, err := LoadSupplier(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].SupplierName < configs[j].SupplierName
	})
	return configs, nil
}

// FindSupplier returns the config whose name matches (case-insensitive).
func FindSupplier(dir, name string) (SupplierConfig, error) {
	configs, err := ListSuppliers(dir)
	if err != nil {
		return SupplierConfig{}, err
	}
	for _, cfg := range configs {
		if strings.EqualFold(cfg.SupplierName, name) {
			return cfg, nil
		}
	}
	return SupplierConfig{}, fmt.Errorf("no supplier config named %q in %s", name, dir)
}

func (c SupplierConfig) Validate() error {
	if c.SupplierID <= 0 {
		return fmt.Errorf("supplier_id must be a positive integer")
	}
	if strings.TrimSpace(c.SupplierName) == "" {
		return fmt.Errorf("supplier_name is required")
	}
	if !validStrategies[c.Strategy] {
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	switch c.Strategy {
	case "http", "browser":
		if len(c.URLs) == 0 {
			return fmt.Errorf("strategy %s requires at least one url", c.Strategy)
		}
		if c.Selectors.ProductList == "" || c.Selectors.Title == "" || c.Selectors.Price == "" {
			return fmt.Errorf("strategy %s requires product_list, title and price selectors", c.Strategy)
		}
	case "pdf", "xlsx":
		if strings.TrimSpace(c.InputFile) == "" {
			return fmt.Errorf("strategy %s requires input_file", c.Strategy)
		}
	case "mail":
		if strings.TrimSpace(c.MailSender) == "" {
			return fmt.Errorf("strategy mail requires mail_sender")
		}
	}
	return nil
}
