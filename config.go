// Options for rxcore operators
// 操作符配置选项
package rxcore

import (
	"reflect"

	"github.com/rs/zerolog"

	"github.com/xinjiayu/rxcore/internal/log"
)

// Option 配置选项接口
type Option interface {
	Apply(config *Config)
}

// Config 操作符配置
type Config struct {
	Scheduler Scheduler
	Logger    *zerolog.Logger
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{Scheduler: DefaultScheduler}
}

func newConfig(options []Option) *Config {
	config := DefaultConfig()
	for _, opt := range options {
		if opt != nil {
			opt.Apply(config)
		}
	}
	return config
}

func (c *Config) logger(component string) zerolog.Logger {
	if c.Logger != nil {
		return c.Logger.With().Str(log.FieldComponent, component).Logger()
	}
	return log.WithComponent(component)
}

type optionFunc func(*Config)

func (f optionFunc) Apply(config *Config) { f(config) }

// WithScheduler 指定调度器。显式传入 nil（包括带类型的 nil 指针）会被操作符拒绝。
func WithScheduler(scheduler Scheduler) Option {
	return optionFunc(func(config *Config) {
		config.Scheduler = scheduler
	})
}

// WithLogger 指定日志记录器
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(config *Config) {
		config.Logger = &logger
	})
}

// isNilScheduler 对 nil 接口和包装了 nil 指针的接口都返回 true
func isNilScheduler(scheduler Scheduler) bool {
	if scheduler == nil {
		return true
	}
	v := reflect.ValueOf(scheduler)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
