package xconf

// Options 控制配置的键分隔符与反序列化标签。
type Options struct {
	// Delim 配置键分隔符，默认 "."。
	Delim string

	// Tag 反序列化用的结构体标签，默认 "koanf"。
	Tag string
}

// Option 配置 Options。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Delim: ".",
		Tag:   "koanf",
	}
}

// WithDelim 设置配置键分隔符，如 "monitoring.interval" 中的 "."。
func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}

// WithTag 设置反序列化的结构体标签名。
func WithTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.Tag = tag
		}
	}
}
