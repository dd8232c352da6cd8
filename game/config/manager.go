package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// boardExtensions lists the file suffixes tried, in order, when resolving a board name
var boardExtensions = []string{".yaml", ".yml", ".json"}

// Manager handles board configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.BoardConfig
	configs       map[string]*engine.BoardConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.BoardConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a board by its config ID (file name without extension)
func (m *Manager) LoadConfig(name string) (*engine.BoardConfig, error) {
	name = configID(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	path, err := m.resolvePath(name)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && name == engine.DefaultBoardName {
			config := engine.DefaultBoardConfig()
			m.configs[name] = config
			return config, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.DecodeBoardConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := engine.ValidateBoardConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all valid board files, sorted by config ID
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	seen := make(map[string]bool)
	var configs []*service.ConfigInfo

	for _, entry := range entries {
		if entry.IsDir() || !isBoardFile(entry.Name()) {
			continue
		}

		id := configID(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid boards
			continue
		}
		seen[id] = true

		configs = append(configs, newConfigInfo(entry.Name(), id, config))
	}

	// The built-in classic board is always offered
	if !seen[engine.DefaultBoardName] {
		config, err := m.LoadConfig(engine.DefaultBoardName)
		if err == nil {
			configs = append(configs, newConfigInfo("", engine.DefaultBoardName, config))
		}
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})

	return configs, nil
}

// GetDefault returns the default board
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default board by config ID
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached board and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.BoardConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// SaveConfig validates a board and writes it to <configDir>/<name>.yaml
func (m *Manager) SaveConfig(name string, config *engine.BoardConfig) error {
	name = configID(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}

	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another extension for the same ID would shadow or be shadowed by this file
	for _, ext := range boardExtensions {
		if ext == ".yaml" {
			continue
		}
		if _, err := os.Stat(filepath.Join(m.configDir, name+ext)); err == nil {
			return fmt.Errorf("%w: %s%s already defines %q", ErrInvalidConfig, name, ext, name)
		}
	}

	configPath := filepath.Join(m.configDir, name+".yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.configs[name] = config
	return nil
}

// loadDefaultConfig prefers the classic board, then the first valid file
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(engine.DefaultBoardName)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			config = engine.DefaultBoardConfig()
		} else if config, err = m.LoadConfig(configs[0].ConfigID); err != nil {
			config = engine.DefaultBoardConfig()
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// resolvePath finds the board file for a config ID
func (m *Manager) resolvePath(name string) (string, error) {
	for _, ext := range boardExtensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
}

func newConfigInfo(filename, id string, config *engine.BoardConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		Size:        config.Size,
		Cells:       config.Cells(),
		Snakes:      engine.CountSnakes(config),
		Ladders:     engine.CountLadders(config),
	}
}

// configID strips a known board extension from a file or config name
func configID(name string) string {
	for _, ext := range boardExtensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

func isBoardFile(name string) bool {
	return configID(name) != name
}
