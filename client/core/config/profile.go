// Package config provides profile management functionality for client configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/weisyn/bookshelf/client/core/transport"
)

// DefaultDirName 默认配置目录名(位于用户主目录下)
const DefaultDirName = ".bookshelf"

// Profile CLI配置Profile
type Profile struct {
	Name    string `json:"name"`     // Profile名称: local/goerli
	ChainID uint64 `json:"chain_id"` // 链ID,为0时不校验

	// 节点端点(按优先级排序)
	Endpoints []transport.EndpointConfig `json:"endpoints"`

	// 本地路径
	KeystorePath string `json:"keystore_path"` // Keystore目录

	// 网络配置
	Timeout       Duration `json:"timeout"`        // 请求超时
	RetryAttempts int      `json:"retry_attempts"` // 重试次数
	RetryBackoff  Duration `json:"retry_backoff"`  // 退避时间

	// 会话行为
	AutoRefresh bool `json:"auto_refresh"` // 写操作成功后是否自动刷新可借数量

	// 服务配置
	HTTPListen string `json:"http_listen,omitempty"` // serve 命令监听地址

	// 日志配置
	LogLevel string `json:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty"`
}

// ClientConfig 转换为传输层配置
func (p *Profile) ClientConfig() transport.ClientConfig {
	return transport.ClientConfig{
		Endpoints:     p.Endpoints,
		ChainID:       p.ChainID,
		Timeout:       time.Duration(p.Timeout),
		RetryAttempts: p.RetryAttempts,
		RetryBackoff:  time.Duration(p.RetryBackoff),
	}
}

// Duration 时间duration(支持JSON序列化)
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(dur)
	return nil
}

// ProfileManager Profile管理器
type ProfileManager struct {
	configDir      string
	currentProfile string
	profiles       map[string]*Profile
}

// NewProfileManager 创建Profile管理器
func NewProfileManager(configDir string) (*ProfileManager, error) {
	if configDir == "" {
		// 默认配置目录: ~/.bookshelf
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		configDir = filepath.Join(homeDir, DefaultDirName)
	}

	// 确保配置目录存在
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	pm := &ProfileManager{
		configDir: configDir,
		profiles:  make(map[string]*Profile),
	}

	// 加载所有profiles
	if err := pm.loadProfiles(); err != nil {
		return nil, err
	}

	// 加载当前profile
	if err := pm.loadCurrentProfile(); err != nil {
		// 如果没有当前profile,使用默认
		pm.currentProfile = "local"
	}

	return pm, nil
}

// ConfigDir 返回配置目录
func (pm *ProfileManager) ConfigDir() string {
	return pm.configDir
}

// loadProfiles 加载所有profiles
func (pm *ProfileManager) loadProfiles() error {
	profilesDir := filepath.Join(pm.configDir, "profiles")

	// 如果profiles目录不存在,创建默认profiles
	if _, err := os.Stat(profilesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(profilesDir, 0700); err != nil {
			return fmt.Errorf("create profiles dir: %w", err)
		}

		if err := pm.createDefaultProfiles(); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return fmt.Errorf("read profiles dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isJSONFile(entry.Name()) {
			continue
		}

		profilePath := filepath.Join(profilesDir, entry.Name())
		profile, err := pm.loadProfile(profilePath)
		if err != nil {
			// 记录错误但继续
			fmt.Fprintf(os.Stderr, "Warning: failed to load profile %s: %v\n", entry.Name(), err)
			continue
		}

		pm.profiles[profile.Name] = profile
	}

	return nil
}

// loadProfile 加载单个profile
func (pm *ProfileManager) loadProfile(filePath string) (*Profile, error) {
	//nolint:gosec // G304: filePath 来自配置目录，路径安全可控
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if profile.Name == "" {
		profile.Name = strings.TrimSuffix(filepath.Base(filePath), ".json")
	}

	pm.fillDefaults(&profile)
	return &profile, nil
}

// fillDefaults 填充默认路径和网络配置
func (pm *ProfileManager) fillDefaults(profile *Profile) {
	if profile.KeystorePath == "" {
		profile.KeystorePath = filepath.Join(pm.configDir, "keystores", profile.Name)
	}
	if profile.Timeout == 0 {
		profile.Timeout = Duration(30 * time.Second)
	}
	if profile.RetryAttempts == 0 {
		profile.RetryAttempts = 3
	}
	if profile.RetryBackoff == 0 {
		profile.RetryBackoff = Duration(time.Second)
	}
	if profile.HTTPListen == "" {
		profile.HTTPListen = "127.0.0.1:8080"
	}
}

// loadCurrentProfile 加载当前profile
func (pm *ProfileManager) loadCurrentProfile() error {
	currentFile := filepath.Join(pm.configDir, "current")
	//nolint:gosec // G304: currentFile 来自配置目录，路径安全可控
	data, err := os.ReadFile(currentFile)
	if err != nil {
		return err
	}

	pm.currentProfile = strings.TrimSpace(string(data))
	return nil
}

// saveCurrentProfile 保存当前profile
func (pm *ProfileManager) saveCurrentProfile() error {
	currentFile := filepath.Join(pm.configDir, "current")
	return os.WriteFile(currentFile, []byte(pm.currentProfile), 0600)
}

// DefaultProfiles 返回内置的默认profiles
func DefaultProfiles() []*Profile {
	return []*Profile{
		{
			Name:    "local",
			ChainID: 31337,
			Endpoints: []transport.EndpointConfig{
				{
					Name:     "local-node",
					Priority: 1,
					JSONRPC:  "http://127.0.0.1:8545",
					WS:       "ws://127.0.0.1:8545",
				},
			},
			Timeout:       Duration(30 * time.Second),
			RetryAttempts: 3,
			RetryBackoff:  Duration(time.Second),
			HTTPListen:    "127.0.0.1:8080",
			LogLevel:      "info",
		},
		{
			Name:    "goerli",
			ChainID: 5,
			Endpoints: []transport.EndpointConfig{
				{
					Name:     "goerli-primary",
					Priority: 1,
					JSONRPC:  "https://rpc.ankr.com/eth_goerli",
				},
				{
					Name:     "goerli-backup",
					Priority: 2,
					JSONRPC:  "https://ethereum-goerli.publicnode.com",
					WS:       "wss://ethereum-goerli.publicnode.com",
				},
			},
			Timeout:       Duration(60 * time.Second),
			RetryAttempts: 5,
			RetryBackoff:  Duration(2 * time.Second),
			HTTPListen:    "127.0.0.1:8080",
			LogLevel:      "info",
		},
	}
}

// createDefaultProfiles 创建默认profiles
func (pm *ProfileManager) createDefaultProfiles() error {
	for _, profile := range DefaultProfiles() {
		if err := pm.SaveProfile(profile); err != nil {
			return err
		}
	}

	// 设置local为当前profile
	pm.currentProfile = "local"
	return pm.saveCurrentProfile()
}

// GetProfile 获取指定profile
func (pm *ProfileManager) GetProfile(name string) (*Profile, error) {
	profile, exists := pm.profiles[name]
	if !exists {
		return nil, fmt.Errorf("profile not found: %s", name)
	}
	return profile, nil
}

// GetCurrentProfile 获取当前profile
func (pm *ProfileManager) GetCurrentProfile() (*Profile, error) {
	return pm.GetProfile(pm.currentProfile)
}

// CurrentName 返回当前profile名称
func (pm *ProfileManager) CurrentName() string {
	return pm.currentProfile
}

// ListProfiles 列出所有profiles(按名称排序)
func (pm *ProfileManager) ListProfiles() []string {
	names := make([]string, 0, len(pm.profiles))
	for name := range pm.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SaveProfile 保存profile
func (pm *ProfileManager) SaveProfile(profile *Profile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	pm.fillDefaults(profile)

	profilePath := filepath.Join(pm.configDir, "profiles", profile.Name+".json")

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := os.WriteFile(profilePath, data, 0600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	pm.profiles[profile.Name] = profile
	return nil
}

// SwitchProfile 切换profile
func (pm *ProfileManager) SwitchProfile(name string) error {
	if _, exists := pm.profiles[name]; !exists {
		return fmt.Errorf("profile not found: %s", name)
	}

	pm.currentProfile = name
	return pm.saveCurrentProfile()
}

// DeleteProfile 删除profile
func (pm *ProfileManager) DeleteProfile(name string) error {
	// 不能删除当前profile
	if name == pm.currentProfile {
		return fmt.Errorf("cannot delete current profile")
	}

	profilePath := filepath.Join(pm.configDir, "profiles", name+".json")
	if err := os.Remove(profilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete profile file: %w", err)
	}

	delete(pm.profiles, name)
	return nil
}

// isJSONFile 检查是否是JSON文件
func isJSONFile(name string) bool {
	return filepath.Ext(name) == ".json"
}
