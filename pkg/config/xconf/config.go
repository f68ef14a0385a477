package xconf

import "github.com/knadh/koanf/v2"

// Format 是配置文件格式。
type Format string

const (
	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Config 是进程配置的只读视图。
//
// 基础读取操作直接走 Client() 返回的 koanf 实例；
// 接口只承载增值部分：类型安全的 Unmarshal 与并发安全的 Reload。
type Config interface {
	// Client 返回底层 koanf 实例。Reload 后需重新获取。
	Client() *koanf.Koanf

	// Unmarshal 把 path 处的配置树反序列化到 target。
	// path 为空表示整棵树。
	Unmarshal(path string, target any) error

	// MustUnmarshal 同 Unmarshal，失败时 panic。用于启动期必要配置。
	MustUnmarshal(path string, target any)

	// Reload 重新读取配置文件并原子替换。并发安全。
	// 从字节数据创建的实例不可重载。
	Reload() error

	// Path 返回配置文件路径，字节数据创建的实例返回空串。
	Path() string

	// Format 返回配置格式。
	Format() Format
}
