package xconf

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/lifekit/pkg/lifecycle/xstop"
	"github.com/omeyang/lifekit/pkg/observability/xlog"
)

// OnChange 在配置文件变更并重载后调用。
// err 非 nil 表示重载失败，此时 cfg 仍持有旧配置。
type OnChange func(cfg Config, err error)

// WatchOption 配置监视行为。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{debounce: 100 * time.Millisecond}
}

// WithDebounce 设置防抖窗口：窗口内的多次变更只触发一次重载。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watch 监视配置文件，变更时重载并调用 onChange，直到停止信号置位。
//
// 阻塞运行，适合作为 xstop.Run 的服务体。监视的是文件所在目录
// 而非文件本身：编辑器原子写入（写临时文件后 rename）会让
// 直接监视文件丢失事件。信号置位后正常返回 nil。
func Watch(s *xstop.Signal, cfg Config, log xlog.Logger, onChange OnChange, opts ...WatchOption) (err error) {
	if s == nil {
		return xstop.ErrNilSignal
	}
	if cfg == nil || cfg.Path() == "" {
		return ErrNotWatchable
	}
	if log == nil {
		log = xlog.Discard()
	}

	options := defaultWatchOptions()
	for _, opt := range opts {
		opt(options)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("xconf: create watcher: %w", err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	dir := filepath.Dir(cfg.Path())
	if werr := fw.Add(dir); werr != nil {
		return fmt.Errorf("xconf: watch directory %s: %w", dir, werr)
	}

	log.Debug(context.Background(), "config.watch.start",
		xlog.Component("xconf"))

	filename := filepath.Base(cfg.Path())

	// 防抖定时器初始为停止态，首个相关事件才启动
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-s.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event, filename) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(options.debounce)

		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn(context.Background(), "config.watch.error",
				xlog.Component("xconf"), xlog.Err(werr))

		case <-timer.C:
			rerr := cfg.Reload()
			if rerr != nil {
				log.Warn(context.Background(), "config.reload.error",
					xlog.Component("xconf"), xlog.Err(rerr))
			} else {
				log.Info(context.Background(), "config.reload",
					xlog.Component("xconf"))
			}
			if onChange != nil {
				onChange(cfg, rerr)
			}
		}
	}
}

// isRelevant 判断事件是否表示目标配置文件的内容更新。
// Write 直接修改，Create/Rename 覆盖编辑器的原子写入模式。
func isRelevant(event fsnotify.Event, filename string) bool {
	if filepath.Base(event.Name) != filename {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
